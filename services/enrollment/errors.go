package enrollment

import (
	"errors"
)

// Sentinel errors form the taxonomy handlers map onto HTTP codes. Storage
// errors never leak raw: anything unexpected from GORM is wrapped into
// ErrTransientStorage before it crosses the service boundary.
var (
	ErrClassNotFound      = errors.New("class not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")

	ErrClassFull        = errors.New("class full")
	ErrAlreadyEnrolled  = errors.New("already enrolled")
	ErrCancelCompleted  = errors.New("cannot cancel a completed enrollment")
	ErrAlreadyCancelled = errors.New("enrollment already cancelled")
	ErrNotConfirmed     = errors.New("enrollment is not confirmed")

	ErrProviderUnavailable = errors.New("payment provider unavailable")
	ErrTransientStorage    = errors.New("storage temporarily unavailable")
)

func transient(err error) error {
	return errors.Join(ErrTransientStorage, err)
}
