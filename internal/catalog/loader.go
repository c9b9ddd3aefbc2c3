package catalog

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNoCatalog is returned (wrapped) by [Load] when the catalog file does not
// exist. The accompanying catalog is empty but usable.
var ErrNoCatalog = errors.New("catalog: source not found")

// File is the on-disk shape of an intent catalog. The same structure is
// accepted as JSON or YAML:
//
//	{"intents": [
//	  {"tag": "saludo",
//	   "patterns": ["hola", "buen(os|as) d[ií]as"],
//	   "responses": ["¡Hola! ¿En qué puedo ayudarte?"],
//	   "followup": {"type": "ask_name"}}
//	]}
type File struct {
	Intents []Entry `yaml:"intents" json:"intents"`
}

// Entry is one raw catalog record before validation.
type Entry struct {
	Tag       string         `yaml:"tag"       json:"tag"`
	Patterns  []string       `yaml:"patterns"  json:"patterns"`
	Responses []string       `yaml:"responses" json:"responses"`
	Followup  *FollowupEntry `yaml:"followup"  json:"followup,omitempty"`
}

// FollowupEntry is the raw follow-up descriptor of an [Entry].
type FollowupEntry struct {
	Type    string   `yaml:"type"    json:"type"`
	Options []string `yaml:"options" json:"options,omitempty"`
}

// Load reads the catalog at path. It always returns a non-nil catalog: when
// the file is missing the catalog is empty and the error wraps
// [ErrNoCatalog]; when individual entries are malformed they are skipped and
// reported in the returned (joined) error while the rest are kept.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return New(), fmt.Errorf("%w: %q", ErrNoCatalog, path)
		}
		return New(), fmt.Errorf("catalog: open %q: %w", path, err)
	}
	defer f.Close()

	c, err := LoadFromReader(f)
	if err != nil {
		return c, fmt.Errorf("catalog: load %q: %w", path, err)
	}
	return c, nil
}

// LoadFromReader decodes a catalog from r. JSON input is accepted because it
// is valid YAML flow syntax. See [Load] for the error contract.
func LoadFromReader(r io.Reader) (*Catalog, error) {
	var file File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true) // reject unknown keys to catch typos in hand-written catalogs
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return New(), nil
		}
		return New(), fmt.Errorf("catalog: decode: %w", err)
	}
	return Build(file)
}

// Build validates and compiles every entry of file. Invalid entries are
// skipped; the returned error joins one error per skipped entry.
func Build(file File) (*Catalog, error) {
	var (
		errs  []error
		rules = make([]IntentRule, 0, len(file.Intents))
		seen  = make(map[string]int, len(file.Intents))
	)

	for i, e := range file.Intents {
		prefix := fmt.Sprintf("intents[%d]", i)
		if e.Tag != "" {
			prefix = fmt.Sprintf("intents[%d] (%s)", i, e.Tag)
		}

		if prev, dup := seen[e.Tag]; dup && e.Tag != "" {
			errs = append(errs, fmt.Errorf("%s: tag is a duplicate of intents[%d]", prefix, prev))
			continue
		}
		if err := validateEntry(e); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", prefix, err))
			continue
		}

		var spec *FollowupSpec
		if e.Followup != nil {
			spec = &FollowupSpec{Kind: FollowupKind(e.Followup.Type), Options: e.Followup.Options}
		}
		rule, err := NewRule(e.Tag, e.Patterns, e.Responses, spec)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", prefix, err))
			continue
		}
		seen[e.Tag] = i
		rules = append(rules, rule)
	}

	return New(rules...), errors.Join(errs...)
}

// validateEntry checks the structural rules for a single catalog record.
func validateEntry(e Entry) error {
	var errs []error

	if strings.TrimSpace(e.Tag) == "" {
		errs = append(errs, errors.New("tag is required"))
	}
	if len(e.Patterns) == 0 {
		errs = append(errs, errors.New("at least one pattern is required"))
	}
	for i, p := range e.Patterns {
		if strings.TrimSpace(p) == "" {
			errs = append(errs, fmt.Errorf("pattern[%d] is empty", i))
		}
	}
	if len(e.Responses) == 0 {
		errs = append(errs, errors.New("at least one response is required"))
	}
	if e.Followup != nil {
		kind := FollowupKind(e.Followup.Type)
		switch {
		case !kind.IsValid():
			errs = append(errs, fmt.Errorf("followup.type %q is not a recognised follow-up", e.Followup.Type))
		case kind.HasOptions() && len(e.Followup.Options) == 0:
			errs = append(errs, fmt.Errorf("followup.type %q requires options", e.Followup.Type))
		}
	}

	return errors.Join(errs...)
}
