package enrollment

import (
	"time"

	"github.com/Gabriel-on-the-hill/Edutrack-Hub-sub000/audit"
	"github.com/Gabriel-on-the-hill/Edutrack-Hub-sub000/mailer"
	"github.com/Gabriel-on-the-hill/Edutrack-Hub-sub000/payments"

	"gorm.io/gorm"
)

// Service owns the enrollment and payment ledgers: checkout, webhook
// reconciliation, cancellation and attendance. External collaborators are
// injected so every path can be tested with fakes.
type Service struct {
	db       *gorm.DB
	provider payments.Provider
	mailer   mailer.Mailer
	audit    audit.Sink
	now      func() time.Time
}

func NewService(db *gorm.DB, provider payments.Provider, m mailer.Mailer, sink audit.Sink) *Service {
	return &Service{
		db:       db,
		provider: provider,
		mailer:   m,
		audit:    sink,
		now:      time.Now,
	}
}
