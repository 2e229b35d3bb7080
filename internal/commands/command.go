package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/sandeepkv93/taskmaster/internal/model"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeToggle Type = "toggle"
	TypeDelete Type = "delete"
	TypeEdit   Type = "edit"
	TypeNote   Type = "note"
	TypeFilter Type = "filter"
	TypeStats  Type = "stats"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// TargetSelected refers to the todo under the cursor.
const TargetSelected = "selected"

const dueLayout = "2006-01-02"

type AddArgs struct {
	Draft model.Draft
}

type TargetArgs struct {
	Target string
}

type EditArgs struct {
	Target string
	Patch  model.Patch
}

type NoteArgs struct {
	Target string
	Notes  string
}

type FilterArgs struct {
	Filter model.Filter
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Toggle *TargetArgs
	Delete *TargetArgs
	Edit   *EditArgs
	Note   *NoteArgs
	Filter *FilterArgs
}

// Parser turns palette input into commands. Loc is the zone due dates
// are interpreted in.
type Parser struct {
	Loc *time.Location
}

func (p Parser) Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return p.parseAdd(input, args)
	case TypeToggle, "done":
		return parseTarget(input, TypeToggle, args)
	case TypeDelete, "rm":
		return parseTarget(input, TypeDelete, args)
	case TypeEdit:
		return p.parseEdit(input, args)
	case TypeNote:
		return parseNote(input, args)
	case TypeFilter, "show":
		return parseFilter(input, args)
	case TypeStats:
		return Command{Type: TypeStats, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func (p Parser) parseAdd(raw string, args []string) (Command, error) {
	attrs, err := p.parseAttributes(args)
	if err != nil {
		return Command{}, err
	}
	if attrs.text == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a text"}
	}
	d := model.Draft{
		Text:     attrs.text,
		Priority: model.PriorityMedium,
		Category: model.CategoryPersonal,
		DueDate:  attrs.due,
		Tags:     attrs.tags,
	}
	if attrs.priority != nil {
		d.Priority = *attrs.priority
	}
	if attrs.category != nil {
		d.Category = *attrs.category
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Draft: d}}, nil
}

func parseTarget(raw string, typ Type, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires exactly one target", typ)}
	}
	target := &TargetArgs{Target: normalizeTarget(args[0])}
	cmd := Command{Type: typ, Raw: raw}
	if typ == TypeToggle {
		cmd.Toggle = target
	} else {
		cmd.Delete = target
	}
	return cmd, nil
}

func (p Parser) parseEdit(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "edit requires a target and at least one change"}
	}
	attrs, err := p.parseAttributes(args[1:])
	if err != nil {
		return Command{}, err
	}
	patch := model.Patch{
		Priority:     attrs.priority,
		Category:     attrs.category,
		DueDate:      attrs.due,
		ClearDueDate: attrs.clearDue,
	}
	if attrs.text != "" {
		text := attrs.text
		patch.Text = &text
	}
	if attrs.tags != nil {
		tags := attrs.tags
		patch.Tags = &tags
	}
	if patch.IsEmpty() {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "edit requires at least one change"}
	}
	return Command{Type: TypeEdit, Raw: raw, Edit: &EditArgs{Target: normalizeTarget(args[0]), Patch: patch}}, nil
}

func parseNote(raw string, args []string) (Command, error) {
	if len(args) < 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "note requires a target"}
	}
	notes := strings.TrimSpace(strings.Join(args[1:], " "))
	return Command{Type: TypeNote, Raw: raw, Note: &NoteArgs{Target: normalizeTarget(args[0]), Notes: notes}}, nil
}

func parseFilter(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "filter requires one of: all, active, completed"}
	}
	f, err := model.ParseFilter(args[0])
	if err != nil {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: err.Error()}
	}
	return Command{Type: TypeFilter, Raw: raw, Filter: &FilterArgs{Filter: f}}, nil
}

type attributes struct {
	text     string
	priority *model.Priority
	category *model.Category
	due      *time.Time
	clearDue bool
	tags     []string
}

// parseAttributes splits tokens into free text and markers:
// !priority, @category, due:YYYY-MM-DD (or due:none) and #tag.
func (p Parser) parseAttributes(args []string) (attributes, error) {
	var out attributes
	words := make([]string, 0, len(args))
	for _, arg := range args {
		lower := strings.ToLower(arg)
		switch {
		case len(arg) > 1 && strings.HasPrefix(arg, "!"):
			prio, err := model.ParsePriority(arg[1:])
			if err != nil {
				return attributes{}, &CommandError{Code: ErrCodeInvalidArgument, Message: err.Error()}
			}
			out.priority = &prio
		case len(arg) > 1 && strings.HasPrefix(arg, "@"):
			cat, err := model.ParseCategory(arg[1:])
			if err != nil {
				return attributes{}, &CommandError{Code: ErrCodeInvalidArgument, Message: err.Error()}
			}
			out.category = &cat
		case strings.HasPrefix(lower, "due:"):
			value := strings.TrimSpace(arg[len("due:"):])
			if strings.EqualFold(value, "none") {
				out.clearDue = true
				out.due = nil
				continue
			}
			due, err := p.parseDue(value)
			if err != nil {
				return attributes{}, err
			}
			out.due = &due
			out.clearDue = false
		case len(arg) > 1 && strings.HasPrefix(arg, "#"):
			out.tags = append(out.tags, arg[1:])
		default:
			words = append(words, arg)
		}
	}
	out.text = strings.TrimSpace(strings.Join(words, " "))
	return out, nil
}

func (p Parser) parseDue(value string) (time.Time, error) {
	loc := p.Loc
	if loc == nil {
		loc = time.Local
	}
	due, err := time.ParseInLocation(dueLayout, value, loc)
	if err != nil {
		return time.Time{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("due date must look like %s, got %q", dueLayout, value)}
	}
	return due, nil
}

func normalizeTarget(raw string) string {
	if strings.EqualFold(raw, TargetSelected) {
		return TargetSelected
	}
	return raw
}
