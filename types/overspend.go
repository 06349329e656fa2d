package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Charge is a single statement line item. MemberID is empty when the charge
// cannot be attributed to a household member.
type Charge struct {
	MemberID    string          `json:"memberId,omitempty" yaml:"memberId"`
	Amount      decimal.Decimal `json:"amount" yaml:"amount"`
	Date        time.Time       `json:"date" yaml:"date"`
	Description string          `json:"description,omitempty" yaml:"description"`
}

type ProjectStatus string

const (
	ProjectStatusPendingApproval ProjectStatus = "pending_approval"
	ProjectStatusActive          ProjectStatus = "active"
	ProjectStatusOnHold          ProjectStatus = "on_hold"
	ProjectStatusCompleted       ProjectStatus = "completed"
)

func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectStatusPendingApproval, ProjectStatusActive, ProjectStatusOnHold, ProjectStatusCompleted:
		return true
	}
	return false
}

type TaskStatus string

const (
	TaskStatusPendingApproval TaskStatus = "pending_approval"
	TaskStatusActive          TaskStatus = "active"
	TaskStatusCompleted       TaskStatus = "completed"
	TaskStatusDismissed       TaskStatus = "dismissed"
	TaskStatusOverdue         TaskStatus = "overdue"
)

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPendingApproval, TaskStatusActive, TaskStatusCompleted, TaskStatusDismissed, TaskStatusOverdue:
		return true
	}
	return false
}

// IsTerminal reports whether no further task transition is possible.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusDismissed
}

type TaskPriority string

const (
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityNormal TaskPriority = "normal"
)

// Payment is one entry in a project's repayment ledger.
type Payment struct {
	ID         string          `json:"id"`
	Amount     decimal.Decimal `json:"amount"`
	Date       time.Time       `json:"date"`
	Week       int             `json:"week"`
	RecordedBy string          `json:"recordedBy,omitempty"`
}

// AccountabilityProject is one member's repayment obligation for one statement.
type AccountabilityProject struct {
	ID                    string          `json:"id"`
	HouseholdID           string          `json:"householdId"`
	StatementID           string          `json:"statementId"`
	MemberID              string          `json:"memberId"`
	MemberName            string          `json:"memberName"`
	OriginalChargeAmount  decimal.Decimal `json:"originalChargeAmount"`
	ResponsibilityPercent decimal.Decimal `json:"responsibilityPercent"`
	ResponsibilityAmount  decimal.Decimal `json:"responsibilityAmount"`
	WeeklyContribution    decimal.Decimal `json:"weeklyContribution"`
	WeekCount             int             `json:"weekCount"`
	Status                ProjectStatus   `json:"status"`
	RequiresApproval      bool            `json:"requiresApproval"`
	ApprovedBy            []string        `json:"approvedBy"`
	ApprovalDate          *time.Time      `json:"approvalDate,omitempty"`
	Payments              []Payment       `json:"payments"`
	TotalCollected        decimal.Decimal `json:"totalCollected"`
	CompletedAt           *time.Time      `json:"completedAt,omitempty"`
	CreatedAt             time.Time       `json:"createdAt"`
	UpdatedAt             time.Time       `json:"updatedAt"`
}

// PaymentTask is the reminder for one installment week. ProjectID is a
// back-reference only.
type PaymentTask struct {
	ID           string          `json:"id"`
	ProjectID    string          `json:"projectId"`
	HouseholdID  string          `json:"householdId"`
	AssignedTo   string          `json:"assignedTo"`
	WeekNumber   int             `json:"weekNumber"`
	WeeklyAmount decimal.Decimal `json:"weeklyAmount"`
	DueDate      time.Time       `json:"dueDate"`
	Status       TaskStatus      `json:"status"`
	Priority     TaskPriority    `json:"priority"`
	CompletedAt  *time.Time      `json:"completedAt,omitempty"`
	DismissedBy  string          `json:"dismissedBy,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// ProjectWithTasks is the detail read model for a single project.
type ProjectWithTasks struct {
	AccountabilityProject
	Tasks []PaymentTask `json:"tasks"`
}

// MemberOverspendSummary aggregates one member's projects.
type MemberOverspendSummary struct {
	MemberID            string          `json:"memberId"`
	MemberName          string          `json:"memberName"`
	ProjectCount        int             `json:"projectCount"`
	TotalResponsibility decimal.Decimal `json:"totalResponsibility"`
	TotalCollected      decimal.Decimal `json:"totalCollected"`
}

// OverspendSummary is computed on demand from all of a household's projects.
type OverspendSummary struct {
	TotalProjects       int                                `json:"totalProjects"`
	ActiveProjects      int                                `json:"activeProjects"`
	PendingApproval     int                                `json:"pendingApproval"`
	TotalResponsibility decimal.Decimal                    `json:"totalResponsibility"`
	TotalCollected      decimal.Decimal                    `json:"totalCollected"`
	ByMember            map[string]*MemberOverspendSummary `json:"byMember"`
}

// Statement is a submitted credit-card statement.
type Statement struct {
	ID             string     `json:"id"`
	HouseholdID    string     `json:"householdId"`
	CardID         string     `json:"cardId"`
	StatementDate  time.Time  `json:"statementDate"`
	Charges        []Charge   `json:"charges"`
	Processed      bool       `json:"processed"`
	ProcessedAt    *time.Time `json:"processedAt,omitempty"`
	FlaggedMembers []string   `json:"flaggedMembers,omitempty"`
	SubmittedBy    string     `json:"submittedBy"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// Request payloads

type StatementSubmission struct {
	CardID        string    `json:"cardId" binding:"required"`
	StatementDate time.Time `json:"statementDate" binding:"required"`
	Charges       []Charge  `json:"charges"`
}

type ProjectStatusUpdate struct {
	Status ProjectStatus `json:"status" binding:"required"`
}

type PaymentCreate struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Week   int             `json:"week"`
	Date   *time.Time      `json:"date,omitempty"`
}
