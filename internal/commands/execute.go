package commands

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/taskmaster/internal/model"
)

type Result struct {
	Message string
}

type Handlers struct {
	Add    func(AddArgs) (Result, error)
	Toggle func(TargetArgs) (Result, error)
	Delete func(TargetArgs) (Result, error)
	Edit   func(EditArgs) (Result, error)
	Note   func(NoteArgs) (Result, error)
	Filter func(FilterArgs) (Result, error)
	Stats  func() (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Add(*cmd.Add)
	case TypeToggle:
		if handlers.Toggle == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Toggle(*cmd.Toggle)
	case TypeDelete:
		if handlers.Delete == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Delete(*cmd.Delete)
	case TypeEdit:
		if handlers.Edit == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Edit(*cmd.Edit)
	case TypeNote:
		if handlers.Note == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Note(*cmd.Note)
	case TypeFilter:
		if handlers.Filter == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Filter(*cmd.Filter)
	case TypeStats:
		if handlers.Stats == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Stats()
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

func missing(t Type) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", t)}
}

// ResolveTarget maps a target to a todo id: "selected" yields selectedID,
// an exact id wins, and anything else must be a unique id prefix.
func ResolveTarget(target, selectedID string, todos []model.Todo) (string, error) {
	if target == TargetSelected {
		if selectedID == "" {
			return "", &CommandError{Code: ErrCodeInvalidArgument, Message: "no todo selected"}
		}
		return selectedID, nil
	}
	for _, t := range todos {
		if t.ID == target {
			return t.ID, nil
		}
	}
	match := ""
	for _, t := range todos {
		if !strings.HasPrefix(t.ID, target) {
			continue
		}
		if match != "" {
			return "", &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("ambiguous target: %s", target)}
		}
		match = t.ID
	}
	if match == "" {
		return "", &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("no todo matches: %s", target)}
	}
	return match, nil
}
