package dialog

import (
	"maps"
	"slices"
)

// Key names a slot in the session [Context].
type Key string

const (
	KeyUserName        Key = "user_name"
	KeyDates           Key = "fechas_solicitadas"
	KeyRoom            Key = "habitacion"
	KeyReservation     Key = "reserva"
	KeyLostItem        Key = "objeto"
	KeyPhone           Key = "telefono"
	KeyExtraOptions    Key = "info_extra_options"
	KeyExtraOptionsSpa Key = "info_extra_options_spa"
)

// Context holds the slots collected during one conversation. Slots are only
// written by the state handler that owns them, so the exported surface is
// read-only.
type Context struct {
	values  map[Key]string
	options map[Key][]string
}

func newContext() Context {
	return Context{
		values:  make(map[Key]string),
		options: make(map[Key][]string),
	}
}

// Get returns the value stored under k.
func (c Context) Get(k Key) (string, bool) {
	v, ok := c.values[k]
	return v, ok
}

// Has reports whether k holds a value.
func (c Context) Has(k Key) bool {
	_, ok := c.values[k]
	return ok
}

// Options returns a copy of the menu options stored under k.
func (c Context) Options(k Key) []string {
	return slices.Clone(c.options[k])
}

// Values returns a copy of every scalar slot, keyed by slot name.
func (c Context) Values() map[string]string {
	out := make(map[string]string, len(c.values))
	for k, v := range c.values {
		out[string(k)] = v
	}
	return out
}

func (c Context) clone() Context {
	out := Context{
		values:  maps.Clone(c.values),
		options: make(map[Key][]string, len(c.options)),
	}
	for k, v := range c.options {
		out.options[k] = slices.Clone(v)
	}
	return out
}

func (c Context) set(k Key, v string) { c.values[k] = v }

func (c Context) delete(k Key) { delete(c.values, k) }

func (c Context) setOptions(k Key, opts []string) { c.options[k] = slices.Clone(opts) }
