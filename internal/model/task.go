package model

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

var (
	ErrInvalidPriority = errors.New("model: invalid todo priority")
	ErrInvalidCategory = errors.New("model: invalid todo category")
	ErrInvalidFilter   = errors.New("model: invalid filter")
	ErrEmptyText       = errors.New("model: todo text is required")
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// AllPriorities lists every priority in display order.
var AllPriorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

func ParsePriority(raw string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(raw)))
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, raw)
	}
	return p, nil
}

type Category string

const (
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
	CategoryShopping Category = "shopping"
	CategoryHealth   Category = "health"
	CategoryOther    Category = "other"
)

// AllCategories lists every category in display order.
var AllCategories = []Category{CategoryWork, CategoryPersonal, CategoryShopping, CategoryHealth, CategoryOther}

func (c Category) IsValid() bool {
	switch c {
	case CategoryWork, CategoryPersonal, CategoryShopping, CategoryHealth, CategoryOther:
		return true
	default:
		return false
	}
}

func ParseCategory(raw string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, raw)
	}
	return c, nil
}

type Todo struct {
	ID          string     `json:"id"`
	Text        string     `json:"text"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Color       Color      `json:"color"`
	Priority    Priority   `json:"priority"`
	Category    Category   `json:"category"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
}

func (t Todo) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: todo id is required")
	}
	if strings.TrimSpace(t.Text) == "" {
		return ErrEmptyText
	}
	if !t.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, t.Priority)
	}
	if !t.Category.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, t.Category)
	}
	if t.CreatedAt.IsZero() {
		return errors.New("model: todo createdAt is required")
	}
	if t.Completed && t.CompletedAt == nil {
		return errors.New("model: completedAt is required when todo is completed")
	}
	if !t.Completed && t.CompletedAt != nil {
		return errors.New("model: completedAt must be nil when todo is active")
	}
	return nil
}

func (t Todo) Clone() Todo {
	out := t
	out.CompletedAt = cloneTime(t.CompletedAt)
	out.DueDate = cloneTime(t.DueDate)
	if t.Tags != nil {
		out.Tags = slices.Clone(t.Tags)
	}
	return out
}

func (t Todo) IsOverdue(now time.Time) bool {
	return !t.Completed && t.DueDate != nil && t.DueDate.Before(now)
}

func cloneTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	tm := *v
	return &tm
}

// Draft is the payload of a create intent. Identity, creation time and
// colour are derived by the store.
type Draft struct {
	Text     string
	Priority Priority
	Category Category
	DueDate  *time.Time
	Notes    string
	Tags     []string
}

// Patch is a partial update: nil fields are left untouched.
type Patch struct {
	Text         *string
	Priority     *Priority
	Category     *Category
	Completed    *bool
	DueDate      *time.Time
	ClearDueDate bool
	Notes        *string
	Tags         *[]string
}

func (p Patch) IsEmpty() bool {
	return p.Text == nil && p.Priority == nil && p.Category == nil && p.Completed == nil &&
		p.DueDate == nil && !p.ClearDueDate && p.Notes == nil && p.Tags == nil
}
