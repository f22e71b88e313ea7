package models

import (
	"time"
)

type ClassStatus string

const (
	ClassScheduled ClassStatus = "SCHEDULED"
	ClassLive      ClassStatus = "LIVE"
	ClassCompleted ClassStatus = "COMPLETED"
	ClassCancelled ClassStatus = "CANCELLED"
)

// ClassOffering is one schedulable learning session. Price is in the
// smallest currency unit; 0 means the class is free.
type ClassOffering struct {
	ID            string      `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Title         string      `json:"title" gorm:"not null"`
	Description   string      `json:"description"`
	TutorName     string      `json:"tutorName"`
	Price         int64       `json:"price" gorm:"not null;default:0"`
	Currency      string      `json:"currency" gorm:"type:varchar(3);default:'usd'"`
	MaxCapacity   int         `json:"maxCapacity" gorm:"not null"`
	ScheduledTime time.Time   `json:"scheduledTime"`
	Status        ClassStatus `json:"status" gorm:"type:varchar(20);default:'SCHEDULED'"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

type ClassOfferingCreate struct {
	Title         string    `json:"title" binding:"required"`
	Description   string    `json:"description"`
	TutorName     string    `json:"tutorName"`
	Price         int64     `json:"price" binding:"min=0"`
	Currency      string    `json:"currency"`
	MaxCapacity   int       `json:"maxCapacity" binding:"required,min=1"`
	ScheduledTime time.Time `json:"scheduledTime" binding:"required"`
}
