package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"imagestudio/internal/domain"
	"imagestudio/internal/studio"
)

// REPL is the studio's line-oriented command loop.
type REPL struct {
	in           io.Reader
	out          io.Writer
	err          io.Writer
	ctrl         *studio.Controller
	theme        studio.Theme
	defaultScale string
	commands     map[string]Command
	ordered      []Command
	running      bool
	quiet        bool

	watchMu sync.Mutex
	seen    map[string]domain.JobStatus
}

// Config wires a REPL.
type Config struct {
	In           io.Reader
	Out          io.Writer
	Err          io.Writer
	Controller   *studio.Controller
	Theme        *studio.Theme
	DefaultScale string
	// Quiet suppresses the banner and prompt, for piped input.
	Quiet bool
}

// New builds a REPL. Output writers are serialized so status updates from
// polling goroutines do not interleave with command output.
func New(cfg *Config) *REPL {
	theme := studio.DefaultTheme
	if cfg.Theme != nil {
		theme = *cfg.Theme
	}
	scale := cfg.DefaultScale
	if !domain.ValidScale(scale) {
		scale = domain.DefaultScale
	}
	mu := &sync.Mutex{}
	r := &REPL{
		in:           cfg.In,
		out:          &lockedWriter{mu: mu, w: cfg.Out},
		err:          &lockedWriter{mu: mu, w: cfg.Err},
		ctrl:         cfg.Controller,
		theme:        theme,
		defaultScale: scale,
		quiet:        cfg.Quiet,
		commands:     make(map[string]Command),
		seen:         make(map[string]domain.JobStatus),
	}
	r.registerCommands()
	return r
}

// Run reads commands until quit or EOF. Polling is torn down on return.
func (r *REPL) Run(ctx context.Context) error {
	r.running = true
	defer r.ctrl.Close()
	cancel := r.ctrl.Subscribe(r.announce)
	defer cancel()

	r.printWelcome()

	done := make(chan struct{})
	defer close(done)
	lines, readErr := r.readLines(done)

	for r.running {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		r.printPrompt()

		var line string
		select {
		case <-ctx.Done():
			return ctx.Err()
		case text, ok := <-lines:
			if !ok {
				return <-readErr
			}
			line = strings.TrimSpace(text)
		}
		if line == "" {
			continue
		}

		if err := r.execute(ctx, line); err != nil {
			fmt.Fprintf(r.err, "Error: %s\n", studio.UserMessage(err))
		}
	}

	return nil
}

// readLines scans input on its own goroutine so Run can return on context
// cancellation while a read is blocked. The goroutine exits once done is
// closed, except while it is blocked in Read on input that never closes.
func (r *REPL) readLines(done <-chan struct{}) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		errc <- scanner.Err()
	}()
	return lines, errc
}

func (r *REPL) execute(ctx context.Context, line string) error {
	parts := parseCommand(line)
	if len(parts) == 0 {
		return nil
	}

	cmdName := strings.ToLower(parts[0])
	args := parts[1:]

	cmd, ok := r.commands[cmdName]
	if !ok {
		return fmt.Errorf("unknown command: %s (type 'help' for available commands)", cmdName)
	}

	return cmd.Execute(ctx, r, args)
}

// Stop ends the loop after the current command.
func (r *REPL) Stop() {
	r.running = false
}

func (r *REPL) printWelcome() {
	if r.quiet {
		return
	}
	fmt.Fprintln(r.out, "image studio interactive mode")
	fmt.Fprintln(r.out, "Type 'help' for available commands, 'quit' to exit.")
	fmt.Fprintln(r.out)
}

func (r *REPL) printPrompt() {
	if r.quiet {
		return
	}
	fmt.Fprint(r.out, "studio> ")
}

// announce prints a line when a job finishes, so the user does not have to
// keep listing.
func (r *REPL) announce() {
	cards := r.ctrl.Cards()

	r.watchMu.Lock()
	var lines []string
	for _, card := range cards {
		prev, ok := r.seen[card.ID]
		r.seen[card.ID] = card.Status
		if ok && prev == card.Status {
			continue
		}
		if card.Status == domain.StatusCompleted || card.Status == domain.StatusFailed {
			lines = append(lines, fmt.Sprintf("job %s: %s", card.ID, card.Status))
		}
	}
	r.watchMu.Unlock()

	for _, line := range lines {
		fmt.Fprintf(r.out, "\n%s\n", line)
	}
}

func parseCommand(line string) []string {
	var parts []string
	var current strings.Builder
	inQuotes := false
	quoteChar := rune(0)

	for _, ch := range line {
		switch {
		case ch == '"' || ch == '\'':
			if inQuotes && ch == quoteChar {
				inQuotes = false
				quoteChar = 0
			} else if !inQuotes {
				inQuotes = true
				quoteChar = ch
			} else {
				current.WriteRune(ch)
			}
		case (ch == ' ' || ch == '\t') && !inQuotes:
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(ch)
		}
	}

	if current.Len() > 0 {
		parts = append(parts, current.String())
	}

	return parts
}

type lockedWriter struct {
	mu *sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
