package models

import (
	"time"
)

type EnrollmentStatus string

const (
	EnrollmentPending   EnrollmentStatus = "PENDING"
	EnrollmentConfirmed EnrollmentStatus = "CONFIRMED"
	EnrollmentAttended  EnrollmentStatus = "ATTENDED"
	EnrollmentCompleted EnrollmentStatus = "COMPLETED"
	EnrollmentCancelled EnrollmentStatus = "CANCELLED"
	EnrollmentMissed    EnrollmentStatus = "MISSED"
)

// ActiveEnrollmentStatuses are every status except CANCELLED: at most one
// enrollment per (user, class) may be in one of these at a time.
var ActiveEnrollmentStatuses = []EnrollmentStatus{
	EnrollmentPending,
	EnrollmentConfirmed,
	EnrollmentAttended,
	EnrollmentCompleted,
	EnrollmentMissed,
}

// SeatHoldingStatuses are the statuses that count against a class's
// capacity. A PENDING (unpaid) enrollment does not hold a seat.
var SeatHoldingStatuses = []EnrollmentStatus{
	EnrollmentConfirmed,
	EnrollmentAttended,
	EnrollmentCompleted,
}

type Enrollment struct {
	ID          string           `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID      string           `json:"userId" gorm:"type:uuid;not null;index"`
	ClassID     string           `json:"classId" gorm:"type:uuid;not null;index"`
	Status      EnrollmentStatus `json:"status" gorm:"type:varchar(20);default:'PENDING'"`
	EnrolledAt  time.Time        `json:"enrolledAt"`
	ConfirmedAt *time.Time       `json:"confirmedAt"`
	PaymentID   *string          `json:"paymentId" gorm:"type:uuid"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

type EnrollRequest struct {
	ClassID string `json:"classId" binding:"required,uuid"`
}

type AttendanceUpdate struct {
	Status EnrollmentStatus `json:"status" binding:"required,oneof=ATTENDED COMPLETED MISSED"`
}
