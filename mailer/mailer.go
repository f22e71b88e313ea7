package mailer

import (
	"time"
)

// Mailer is the notification collaborator. Every call is best-effort:
// callers log failures and move on, they never roll back state because an
// email did not go out.
type Mailer interface {
	Welcome(to, userName string) error
	EnrollmentConfirmed(to, classTitle string, scheduledTime time.Time) error
	EnrollmentPending(to, classTitle string) error
}
