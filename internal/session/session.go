// Package session implements the interactive line-command editing session
// that drives a draft Store and its AI Assistant.
package session

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/jonathan/skillfolio/internal/assist"
	"github.com/jonathan/skillfolio/internal/draft"
	"github.com/jonathan/skillfolio/internal/handoff"
	"github.com/jonathan/skillfolio/internal/observability"
	"github.com/jonathan/skillfolio/internal/types"
)

// Prompt is printed before each command is read.
const Prompt = "> "

// Options configures a Session.
type Options struct {
	// Handoff sends the draft to the templating stage on continue. Nil prints the JSON instead.
	Handoff *handoff.Client
	// TemplateID is used by continue when no template is given.
	TemplateID int
	// Verbose prints the progress bar after every edit.
	Verbose bool
}

// Session is one in-memory editing session.
type Session struct {
	id         string
	store      *draft.Store
	assistant  *assist.Assistant
	handoff    *handoff.Client
	templateID int
	verbose    bool

	outMu sync.Mutex
	out   io.Writer

	pending sync.WaitGroup
}

// New creates a session over store and assistant writing to out.
func New(store *draft.Store, assistant *assist.Assistant, out io.Writer, opts *Options) *Session {
	if opts == nil {
		opts = &Options{}
	}
	templateID := opts.TemplateID
	if templateID == 0 {
		templateID = 1
	}
	return &Session{
		id:         uuid.New().String(),
		store:      store,
		assistant:  assistant,
		handoff:    opts.Handoff,
		templateID: templateID,
		verbose:    opts.Verbose,
		out:        out,
	}
}

// ID returns the session identifier used in logs.
func (s *Session) ID() string {
	return s.id
}

// Store returns the draft being edited.
func (s *Session) Store() *draft.Store {
	return s.store
}

// Run reads commands from in until quit, EOF or ctx is done. Command errors
// are printed and never end the session. Outstanding AI requests are waited
// for before Run returns.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	log.Printf("[session] %s started (policy %s)", s.id, s.assistant.Policy())
	defer log.Printf("[session] %s ended", s.id)
	defer s.Wait()

	s.printf("skillfolio session %s. Type 'help' for commands.\n", s.id[:8])

	scanner := bufio.NewScanner(in)
	for {
		s.printf("%s", Prompt)
		if !scanner.Scan() {
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		quit, err := s.Execute(ctx, scanner.Text())
		if err != nil {
			s.printf("error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
	return scanner.Err()
}

// Wait blocks until every AI request started by the session has reported.
func (s *Session) Wait() {
	s.pending.Wait()
}

// Execute runs one command line. It reports whether the session should end.
func (s *Session) Execute(ctx context.Context, line string) (bool, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false, nil
	}

	verb, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	cmd, ok := commands[strings.ToLower(verb)]
	if !ok {
		return false, fmt.Errorf("unknown command %q (try 'help')", verb)
	}
	if cmd.quit {
		return true, nil
	}
	return false, cmd.run(ctx, s, rest)
}

// printf writes to the session output. Async notifications share this lock.
//
//nolint:errcheck
func (s *Session) printf(format string, args ...any) {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	fmt.Fprintf(s.out, format, args...)
}

// render buffers Printer output so a box is never split by a notification.
func (s *Session) render(fn func(p *observability.Printer)) {
	var buf bytes.Buffer
	fn(observability.NewPrinter(&buf))
	s.printf("%s", buf.String())
}

// edited reports a successful edit.
func (s *Session) edited(what string) {
	if s.verbose {
		s.printf("%s\n", what)
		s.render(func(p *observability.Printer) { p.PrintProgress(s.store.Progress()) })
		return
	}
	s.printf("%s (progress %d%%)\n", what, s.store.Progress())
}

// notify prints a non-blocking AI notification.
func (s *Session) notify(format string, args ...any) {
	s.printf("[ai] "+format+"\n", args...)
}

func (s *Session) startAI() {
	s.pending.Add(1)
}

// reportAI prints the settled state of one AI request.
func (s *Session) reportAI(outcome assist.Outcome) {
	field, sug, err := outcome.Field, outcome.Suggestion, outcome.Err
	switch {
	case errors.Is(err, assist.ErrInFlight):
		s.notify("%s: request already in progress", field)
	case err != nil:
		s.notify("%s: %v", field, err)
	case sug.Status == types.SuggestionLoading:
		s.notify("%s: superseded by a newer request", field)
	case sug.Status == types.SuggestionAvailable:
		s.notify("%s: suggestion ready (accept %s | dismiss %s)", field, field, field)
	case field == types.FieldKeySkills:
		if len(sug.Skills) == 0 {
			s.notify("%s: no skills suggested", field)
			return
		}
		s.notify("%s: added %s", field, strings.Join(sug.Skills, ", "))
	case sug.Text == "":
		s.notify("%s: no change suggested", field)
	default:
		s.notify("%s: applied", field)
	}
}
