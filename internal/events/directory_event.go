package events

import "time"

const DirectoryTopic = "hr.employee.directory.v1"

const (
	EmployeeLockToggled = "employee_lock_toggled"
	EmployeeDeleted     = "employee_deleted"
	EmployeeUpdated     = "employee_updated"
)

// DirectoryEvent dikirim lewat outbox setiap kali data karyawan di directory berubah.
// Locked hanya terisi untuk employee_lock_toggled, Permanent untuk employee_deleted.
type DirectoryEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	EmployeeID string    `json:"employee_id"`
	ActorID    string    `json:"actor_id,omitempty"`
	Locked     *bool     `json:"locked,omitempty"`
	Permanent  bool      `json:"permanent,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
