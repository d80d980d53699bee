package domain

import "time"

// Kind distinguishes the three work-item tables that share the tracking shape
type Kind string

const (
	KindAction           Kind = "action"
	KindCorrectiveAction Kind = "corrective_action"
	KindSubAction        Kind = "sub_action"
)

// Status represents the lifecycle state of a work item
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCanceled   Status = "canceled"
	StatusAborted    Status = "aborted"
)

// TerminalStatuses returns the terminal-status set for a kind. Corrective
// actions additionally terminate on Aborted.
func TerminalStatuses(kind Kind) []Status {
	if kind == KindCorrectiveAction {
		return []Status{StatusCompleted, StatusCanceled, StatusAborted}
	}
	return []Status{StatusCompleted, StatusCanceled}
}

// IsTerminal reports whether the status is terminal for the given kind
func IsTerminal(kind Kind, status Status) bool {
	for _, s := range TerminalStatuses(kind) {
		if s == status {
			return true
		}
	}
	return false
}

// TrackedItem is the shared shape the overdue sweep and deadline pass work
// against, so the logic exists once instead of per kind.
type TrackedItem interface {
	ItemID() string
	ItemKind() Kind
	Label() string
	CurrentStatus() Status
	DueAt() *time.Time
	IsOverdue() bool
	CreatorID() string
	AssigneeID() *string
	ReportRef() string
}

// Action is a follow-up task attached to a report
type Action struct {
	ID           string     `json:"id" gorm:"primaryKey"`
	ReportID     string     `json:"report_id" gorm:"index;not null"`
	Title        string     `json:"title" gorm:"not null"`
	Status       Status     `json:"status" gorm:"index;default:not_started"`
	DueDate      *time.Time `json:"due_date,omitempty" gorm:"index"`
	Overdue      bool       `json:"overdue" gorm:"index;default:false"`
	CreatedByID  string     `json:"created_by_id" gorm:"index;not null"`
	AssignedToID *string    `json:"assigned_to_id,omitempty" gorm:"index"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (a *Action) ItemID() string        { return a.ID }
func (a *Action) Label() string         { return a.Title }
func (a *Action) ItemKind() Kind        { return KindAction }
func (a *Action) CurrentStatus() Status { return a.Status }
func (a *Action) DueAt() *time.Time     { return a.DueDate }
func (a *Action) IsOverdue() bool       { return a.Overdue }
func (a *Action) CreatorID() string     { return a.CreatedByID }
func (a *Action) AssigneeID() *string   { return a.AssignedToID }
func (a *Action) ReportRef() string     { return a.ReportID }

// CorrectiveAction is a remediation task attached to a report
type CorrectiveAction struct {
	ID           string     `json:"id" gorm:"primaryKey"`
	ReportID     string     `json:"report_id" gorm:"index;not null"`
	Title        string     `json:"title" gorm:"not null"`
	Status       Status     `json:"status" gorm:"index;default:not_started"`
	DueDate      *time.Time `json:"due_date,omitempty" gorm:"index"`
	Overdue      bool       `json:"overdue" gorm:"index;default:false"`
	CreatedByID  string     `json:"created_by_id" gorm:"index;not null"`
	AssignedToID *string    `json:"assigned_to_id,omitempty" gorm:"index"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (a *CorrectiveAction) ItemID() string        { return a.ID }
func (a *CorrectiveAction) Label() string         { return a.Title }
func (a *CorrectiveAction) ItemKind() Kind        { return KindCorrectiveAction }
func (a *CorrectiveAction) CurrentStatus() Status { return a.Status }
func (a *CorrectiveAction) DueAt() *time.Time     { return a.DueDate }
func (a *CorrectiveAction) IsOverdue() bool       { return a.Overdue }
func (a *CorrectiveAction) CreatorID() string     { return a.CreatedByID }
func (a *CorrectiveAction) AssigneeID() *string   { return a.AssignedToID }
func (a *CorrectiveAction) ReportRef() string     { return a.ReportID }

// SubAction is a child step of an Action. The due date is optional; the
// report reference is denormalized from the parent so routing never needs a
// join.
type SubAction struct {
	ID           string     `json:"id" gorm:"primaryKey"`
	ActionID     string     `json:"action_id" gorm:"index;not null"`
	ReportID     string     `json:"report_id" gorm:"index;not null"`
	Title        string     `json:"title" gorm:"not null"`
	Status       Status     `json:"status" gorm:"index;default:not_started"`
	DueDate      *time.Time `json:"due_date,omitempty" gorm:"index"`
	Overdue      bool       `json:"overdue" gorm:"index;default:false"`
	CreatedByID  string     `json:"created_by_id" gorm:"index;not null"`
	AssignedToID *string    `json:"assigned_to_id,omitempty" gorm:"index"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (a *SubAction) ItemID() string        { return a.ID }
func (a *SubAction) Label() string         { return a.Title }
func (a *SubAction) ItemKind() Kind        { return KindSubAction }
func (a *SubAction) CurrentStatus() Status { return a.Status }
func (a *SubAction) DueAt() *time.Time     { return a.DueDate }
func (a *SubAction) IsOverdue() bool       { return a.Overdue }
func (a *SubAction) CreatorID() string     { return a.CreatedByID }
func (a *SubAction) AssigneeID() *string   { return a.AssignedToID }
func (a *SubAction) ReportRef() string     { return a.ReportID }
