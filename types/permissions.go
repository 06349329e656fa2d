package types

// Action represents an operation that can be performed on a resource.
type Action string

// Resource represents a type of entity that can be accessed.
type Resource string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"

	ActionApprove       Action = "approve"
	ActionUpdateStatus  Action = "update_status"
	ActionRecordPayment Action = "record_payment"
	ActionComplete      Action = "complete"
	ActionDismiss       Action = "dismiss"
)

const (
	ResourceStatement Resource = "statement"
	ResourceProject   Resource = "project"
	ResourceTask      Resource = "task"
	ResourceSummary   Resource = "summary"
)

// String returns the string representation of an Action.
func (a Action) String() string {
	return string(a)
}

// String returns the string representation of a Resource.
func (r Resource) String() string {
	return string(r)
}
