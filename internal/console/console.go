// Package console runs the front desk as an interactive line-oriented chat
// on a terminal (or any reader/writer pair).
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
)

const (
	// DefaultWelcome is printed before the first prompt.
	DefaultWelcome = "¡Bienvenido al Hotel Paraíso!"

	// DefaultFarewell is printed when the guest types an exit keyword.
	DefaultFarewell = "¡Gracias por tu tiempo! Hasta pronto."

	prompt    = "Tú: "
	botPrefix = "Bot: "
)

// DefaultExitKeywords returns the built-in lines that end a console chat.
func DefaultExitKeywords() []string {
	return []string{"adiós", "bye", "gracias", "eso es todo", "salir", "hasta luego", "exit", "quit", "goodbye", "thanks"}
}

// Responder answers one line of guest input. *dialog.Session implements it.
type Responder interface {
	Respond(ctx context.Context, text string) []string
}

// Option is a functional option for configuring a [Console].
type Option func(*Console)

// WithExitKeywords replaces the exit keywords. Matching is against the whole
// line, case-insensitively.
func WithExitKeywords(keywords ...string) Option {
	return func(c *Console) {
		c.exit = c.exit[:0]
		for _, k := range keywords {
			if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
				c.exit = append(c.exit, k)
			}
		}
	}
}

// WithWelcome sets the greeting. Empty keeps the default.
func WithWelcome(s string) Option {
	return func(c *Console) {
		if s != "" {
			c.welcome = s
		}
	}
}

// WithFarewell sets the goodbye line. Empty keeps the default.
func WithFarewell(s string) Option {
	return func(c *Console) {
		if s != "" {
			c.farewell = s
		}
	}
}

// Console reads guest lines from in and writes prompts and replies to out.
type Console struct {
	in       io.Reader
	out      io.Writer
	exit     []string
	welcome  string
	farewell string
}

// New returns a console over in and out.
func New(in io.Reader, out io.Writer, opts ...Option) *Console {
	c := &Console{
		in:       in,
		out:      out,
		welcome:  DefaultWelcome,
		farewell: DefaultFarewell,
	}
	WithExitKeywords(DefaultExitKeywords()...)(c)
	for _, o := range opts {
		o(c)
	}
	return c
}

// Run chats until the guest types an exit keyword, in reaches EOF or ctx is
// cancelled. Blank lines are skipped without a reply.
func (c *Console) Run(ctx context.Context, r Responder) error {
	if err := c.say(c.welcome); err != nil {
		return err
	}

	sc := bufio.NewScanner(c.in)
	for {
		if _, err := io.WriteString(c.out, prompt); err != nil {
			return fmt.Errorf("console: write prompt: %w", err)
		}
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return fmt.Errorf("console: read input: %w", err)
			}
			// EOF: finish the prompt line.
			_, _ = io.WriteString(c.out, "\n")
			return nil
		}
		if err := ctx.Err(); err != nil {
			return nil
		}

		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if c.isExit(line) {
			return c.say(c.farewell)
		}
		if err := c.say(r.Respond(ctx, line)...); err != nil {
			return err
		}
	}
}

func (c *Console) isExit(line string) bool {
	return slices.Contains(c.exit, strings.ToLower(line))
}

func (c *Console) say(lines ...string) error {
	for _, l := range lines {
		if _, err := fmt.Fprintln(c.out, botPrefix+l); err != nil {
			return fmt.Errorf("console: write reply: %w", err)
		}
	}
	return nil
}
