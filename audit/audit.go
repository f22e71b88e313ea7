package audit

import (
	"github.com/Gabriel-on-the-hill/Edutrack-Hub-sub000/models"
	"github.com/Gabriel-on-the-hill/Edutrack-Hub-sub000/utils"

	"gorm.io/gorm"
)

// Sink receives one event per enrollment/payment state transition.
// Record never returns an error: a transition must not fail because its
// audit trail could not be written.
type Sink interface {
	Record(actor, action, entity, entityID, metadata string)
}

type GormSink struct {
	db *gorm.DB
}

func NewGormSink(db *gorm.DB) *GormSink {
	return &GormSink{db: db}
}

func (s *GormSink) Record(actor, action, entity, entityID, metadata string) {
	event := models.AuditEvent{
		Actor:    actor,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Metadata: metadata,
	}
	if err := s.db.Create(&event).Error; err != nil {
		utils.LogError(err, "Could not write audit event "+action+" for "+entity+" "+entityID)
	}
}
