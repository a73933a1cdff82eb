package domain

// Role represents user role in the system
type Role string

const (
	RoleMember Role = "MEMBER"
	RoleFC     Role = "FC"
	RoleAdmin  Role = "ADMIN"
)

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	switch r {
	case RoleMember, RoleFC, RoleAdmin:
		return true
	}
	return false
}

// OperationContext is where the loss happened
type OperationContext string

const (
	ContextSolo  OperationContext = "solo"
	ContextFleet OperationContext = "fleet"
)

// IsValid reports whether c is solo or fleet
func (c OperationContext) IsValid() bool {
	return c == ContextSolo || c == ContextFleet
}

// ClaimStatus is derived from the process log, never stored.
type ClaimStatus string

const (
	StatusPending  ClaimStatus = "pending"
	StatusApproved ClaimStatus = "approved"
	StatusDenied   ClaimStatus = "denied"
	StatusPaid     ClaimStatus = "paid"
)

// IsValid reports whether s is a known claim status
func (s ClaimStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusDenied, StatusPaid:
		return true
	}
	return false
}

// IsTerminal reports whether no further lifecycle event may follow
func (s ClaimStatus) IsTerminal() bool {
	return s == StatusDenied || s == StatusPaid
}

// EventKind is the kind of a process log entry
type EventKind string

const (
	EventCreated EventKind = "created"
	EventApprove EventKind = "approve"
	EventDeny    EventKind = "deny"
	EventPay     EventKind = "pay"
	// EventComment is an audit-only note; it never changes status.
	EventComment EventKind = "comment"
)

// FleetStatus is independent of claim status
type FleetStatus string

const (
	FleetActive    FleetStatus = "active"
	FleetCompleted FleetStatus = "completed"
	FleetCancelled FleetStatus = "cancelled"
)

// IsValid reports whether s is a known fleet status
func (s FleetStatus) IsValid() bool {
	switch s {
	case FleetActive, FleetCompleted, FleetCancelled:
		return true
	}
	return false
}
