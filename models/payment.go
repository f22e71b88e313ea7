package models

import (
	"time"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
)

// Payment is one attempted external transaction. ExternalSessionID is the
// provider-assigned checkout session id and doubles as the idempotency key
// for webhook deliveries. Status moves one way: PENDING to COMPLETED or
// FAILED, then never again.
type Payment struct {
	ID                    string        `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID                string        `json:"userId" gorm:"type:uuid;not null;index"`
	ClassID               string        `json:"classId" gorm:"type:uuid;not null;index"`
	Amount                int64         `json:"amount" gorm:"not null"`
	Currency              string        `json:"currency" gorm:"type:varchar(3)"`
	ExternalSessionID     string        `json:"externalSessionId" gorm:"uniqueIndex;not null"`
	ExternalTransactionID *string       `json:"externalTransactionId"`
	Status                PaymentStatus `json:"status" gorm:"type:varchar(20);default:'PENDING'"`
	PaidAt                *time.Time    `json:"paidAt"`
	CreatedAt             time.Time     `json:"createdAt"`
	UpdatedAt             time.Time     `json:"updatedAt"`
}
