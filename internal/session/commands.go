package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/skillfolio/internal/assist"
	"github.com/jonathan/skillfolio/internal/handoff"
	"github.com/jonathan/skillfolio/internal/observability"
	"github.com/jonathan/skillfolio/internal/schemas"
	"github.com/jonathan/skillfolio/internal/types"
)

// Usage lists the session commands.
const Usage = `Commands:
  set personal.<field> <value>            fullName, email, phone, location
  set <section>[<i>].<field> <value>      education, projects, certificates
  add <education|projects|certificates>   append an empty entry
  add-skill <text>                        append a skill
  remove-skill <i>                        remove the skill at index i
  summary <text>                          replace the summary
  focus name                              start the form at the name field
  improve <summary|skills|project-<i>>    ask the AI service for one field
  improve-all                             ask for every assisted field at once
  accept <field>                          apply an AI suggestion
  dismiss <field>                         discard an AI suggestion or error
  status                                  show progress and AI state
  show                                    show the draft
  continue [template-id]                  finish and hand off to templating
  help                                    show this help
  quit                                    leave the session`

type command struct {
	run  func(ctx context.Context, s *Session, args string) error
	quit bool
}

var commands = map[string]command{
	"set":          {run: cmdSet},
	"add":          {run: cmdAdd},
	"add-skill":    {run: cmdAddSkill},
	"remove-skill": {run: cmdRemoveSkill},
	"summary":      {run: cmdSummary},
	"focus":        {run: cmdFocus},
	"improve":      {run: cmdImprove},
	"improve-all":  {run: cmdImproveAll},
	"accept":       {run: cmdAccept},
	"dismiss":      {run: cmdDismiss},
	"status":       {run: cmdStatus},
	"show":         {run: cmdShow},
	"continue":     {run: cmdContinue},
	"help":         {run: cmdHelp},
	"quit":         {quit: true},
	"exit":         {quit: true},
}

// target is the left-hand side of a set command.
type target struct {
	section types.Section
	index   int
	field   string
}

func (t target) String() string {
	if t.section.IsList() {
		return fmt.Sprintf("%s[%d].%s", t.section, t.index, t.field)
	}
	return fmt.Sprintf("%s.%s", t.section, t.field)
}

// parseTarget accepts "personal.<field>" and "<section>[<i>].<field>".
func parseTarget(s string) (target, error) {
	head, field, ok := strings.Cut(s, ".")
	if !ok || field == "" {
		return target{}, fmt.Errorf("invalid target %q (want section.field or section[i].field)", s)
	}

	name, idx, hasIndex := strings.Cut(head, "[")
	section, err := types.ParseSection(name)
	if err != nil {
		return target{}, err
	}

	t := target{section: section, field: field}
	if !section.IsList() {
		if hasIndex {
			return target{}, fmt.Errorf("section %q takes no index", section)
		}
		return t, nil
	}

	if !hasIndex || !strings.HasSuffix(idx, "]") {
		return target{}, fmt.Errorf("section %q needs an index, e.g. %s[0].%s", section, section, field)
	}
	t.index, err = strconv.Atoi(strings.TrimSuffix(idx, "]"))
	if err != nil {
		return target{}, fmt.Errorf("invalid index in %q", s)
	}
	return t, nil
}

func cmdSet(_ context.Context, s *Session, args string) error {
	path, value, _ := strings.Cut(args, " ")
	value = strings.TrimLeft(value, " \t")
	t, err := parseTarget(path)
	if err != nil {
		return err
	}

	switch {
	case t.section == types.SectionPersonal:
		err = s.store.UpdatePersonal(t.field, value)
	case t.section.IsList():
		err = s.store.UpdateListItem(t.section, t.index, t.field, value)
	default:
		return fmt.Errorf("use 'summary' or 'add-skill' to edit %s", t.section)
	}
	if err != nil {
		return err
	}
	s.edited("updated " + t.String())
	return nil
}

func cmdAdd(_ context.Context, s *Session, args string) error {
	section, err := types.ParseSection(args)
	if err != nil {
		return err
	}
	i, err := s.store.AddListItem(section)
	if err != nil {
		return err
	}
	s.edited(fmt.Sprintf("added %s[%d]", section, i))
	return nil
}

func cmdAddSkill(_ context.Context, s *Session, args string) error {
	if !s.store.AddSkill(args) {
		s.printf("ignored empty skill\n")
		return nil
	}
	s.edited("added skill " + strings.TrimSpace(args))
	return nil
}

func cmdRemoveSkill(_ context.Context, s *Session, args string) error {
	i, err := strconv.Atoi(args)
	if err != nil {
		return fmt.Errorf("invalid skill index %q", args)
	}
	if !s.store.RemoveSkill(i) {
		s.printf("no skill at index %d\n", i)
		return nil
	}
	s.edited(fmt.Sprintf("removed skill %d", i))
	return nil
}

func cmdSummary(_ context.Context, s *Session, args string) error {
	s.store.SetSummary(args)
	s.edited("updated summary")
	return nil
}

func cmdFocus(_ context.Context, s *Session, args string) error {
	if args != "name" {
		return fmt.Errorf("only 'focus name' is supported")
	}
	s.store.SetProgressFloor(types.MilestoneName)
	s.edited("editing name")
	return nil
}

func cmdImprove(ctx context.Context, s *Session, args string) error {
	field, err := types.ParseFieldKey(args)
	if err != nil {
		return err
	}

	s.notify("%s: improving...", field)
	s.startAI()
	s.assistant.ImproveAsync(ctx, field, func(sug types.Suggestion, err error) {
		defer s.pending.Done()
		s.reportAI(assist.Outcome{Field: field, Suggestion: sug, Err: err})
	})
	return nil
}

func cmdImproveAll(ctx context.Context, s *Session, _ string) error {
	s.notify("improving all fields...")
	s.startAI()
	go func() {
		defer s.pending.Done()
		for _, outcome := range s.assistant.ImproveAll(ctx) {
			s.reportAI(outcome)
		}
	}()
	return nil
}

func cmdAccept(_ context.Context, s *Session, args string) error {
	field, err := types.ParseFieldKey(args)
	if err != nil {
		return err
	}
	if err := s.assistant.Accept(field); err != nil {
		return err
	}
	s.edited("accepted " + string(field))
	return nil
}

func cmdDismiss(_ context.Context, s *Session, args string) error {
	field, err := types.ParseFieldKey(args)
	if err != nil {
		return err
	}
	s.assistant.Dismiss(field)
	s.printf("dismissed %s\n", field)
	return nil
}

func cmdStatus(_ context.Context, s *Session, _ string) error {
	suggestions := s.assistant.Tracker().Snapshot()
	s.render(func(p *observability.Printer) {
		p.PrintProgress(s.store.Progress())
		p.PrintSuggestions(suggestions)
	})
	if len(suggestions) == 0 {
		s.printf("no AI activity\n")
	}
	return nil
}

func cmdShow(_ context.Context, s *Session, _ string) error {
	d, progress := s.store.Draft(), s.store.Progress()
	s.render(func(p *observability.Printer) { p.PrintDraft(d, progress) })
	return nil
}

// cmdContinue validates the draft, completes progress and hands it off.
func cmdContinue(ctx context.Context, s *Session, args string) error {
	templateID := s.templateID
	if args != "" {
		id, err := strconv.Atoi(args)
		if err != nil {
			return fmt.Errorf("invalid template id %q", args)
		}
		templateID = id
	}
	if templateID < 1 || templateID > types.TemplateCount {
		return fmt.Errorf("template id must be between 1 and %d", types.TemplateCount)
	}

	if err := schemas.ValidateDraft(s.store.Draft()); err != nil {
		return fmt.Errorf("draft is not ready: %w", err)
	}

	req, err := handoff.NewRequest(templateID, s.store.Continue())
	if err != nil {
		return err
	}
	s.edited("draft complete")

	if s.handoff == nil {
		data, err := json.MarshalIndent(req, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal draft: %w", err)
		}
		s.printf("%s\n", data)
		return nil
	}

	preview, err := s.handoff.Preview(ctx, req)
	if err != nil {
		return err
	}
	s.render(func(p *observability.Printer) { p.PrintPreview(templateID, preview.Text) })
	return nil
}

func cmdHelp(_ context.Context, s *Session, _ string) error {
	s.printf("%s\n", Usage)
	return nil
}
