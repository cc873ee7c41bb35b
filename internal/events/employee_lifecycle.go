package events

import "time"

const EmployeeLifecycleTopic = "staff.employee.lifecycle.v1"

const (
	EmployeeCreated = "employee.created"
	EmployeeUpdated = "employee.updated"
	EmployeeDeleted = "employee.deleted"
)

type EmployeeEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	EmployeeID uint      `json:"employee_id"`
	UserID     uint      `json:"user_id"`
	Department string    `json:"department"`
	Role       string    `json:"role"`
	OccurredAt time.Time `json:"occurred_at"`
}
