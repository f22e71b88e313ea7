package models

import (
	"time"
)

// AuditEvent records one state transition on an enrollment or payment.
// Writing it is best-effort: the transition it describes never fails
// because the audit row could not be written.
type AuditEvent struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action" gorm:"not null"`
	Entity    string    `json:"entity" gorm:"not null"`
	EntityID  string    `json:"entityId"`
	Metadata  string    `json:"metadata"`
	CreatedAt time.Time `json:"createdAt"`
}
