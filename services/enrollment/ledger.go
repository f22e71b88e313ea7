package enrollment

import (
	"context"
	"errors"
	"fmt"

	"github.com/Gabriel-on-the-hill/Edutrack-Hub-sub000/models"

	"gorm.io/gorm"
)

func (s *Service) ListForUser(ctx context.Context, userID string) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("enrolled_at DESC").
		Find(&enrollments).Error
	if err != nil {
		return nil, transient(err)
	}
	return enrollments, nil
}

func (s *Service) ListForClass(ctx context.Context, classID string) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	err := s.db.WithContext(ctx).
		Where("class_id = ?", classID).
		Order("enrolled_at ASC").
		Find(&enrollments).Error
	if err != nil {
		return nil, transient(err)
	}
	return enrollments, nil
}

func (s *Service) GetByID(ctx context.Context, enrollmentID string) (*models.Enrollment, error) {
	var e models.Enrollment
	if err := s.db.WithContext(ctx).First(&e, "id = ?", enrollmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, transient(err)
	}
	return &e, nil
}

// Cancel moves an enrollment to CANCELLED. Completed enrollments cannot be
// cancelled and a second cancel is a conflict. Cancelling a paid enrollment
// does not refund the payment; refunds are a separate back-office action.
func (s *Service) Cancel(ctx context.Context, enrollmentID, actor string) (*models.Enrollment, error) {
	var e models.Enrollment

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&e, "id = ?", enrollmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEnrollmentNotFound
			}
			return err
		}
		switch e.Status {
		case models.EnrollmentCompleted:
			return ErrCancelCompleted
		case models.EnrollmentCancelled:
			return ErrAlreadyCancelled
		}
		if err := tx.Model(&e).Update("status", models.EnrollmentCancelled).Error; err != nil {
			return err
		}
		e.Status = models.EnrollmentCancelled
		return nil
	})
	if err != nil {
		return nil, asServiceError(err)
	}

	s.audit.Record(actor, "enrollment.cancelled", "enrollment", e.ID,
		fmt.Sprintf(`{"classId":%q}`, e.ClassID))
	return &e, nil
}

// MarkAttendance records the outcome of a session for one enrollment.
// Only confirmed-or-later enrollments can be marked, which keeps the
// payment-gating invariant: a PENDING (unpaid) enrollment can never slide
// into ATTENDED or COMPLETED.
func (s *Service) MarkAttendance(ctx context.Context, enrollmentID string, status models.EnrollmentStatus, actor string) (*models.Enrollment, error) {
	switch status {
	case models.EnrollmentAttended, models.EnrollmentCompleted, models.EnrollmentMissed:
	default:
		return nil, fmt.Errorf("%w: %q is not an attendance status", ErrNotConfirmed, status)
	}

	var e models.Enrollment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&e, "id = ?", enrollmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEnrollmentNotFound
			}
			return err
		}
		if e.Status != models.EnrollmentConfirmed && e.Status != models.EnrollmentAttended {
			return ErrNotConfirmed
		}
		if err := tx.Model(&e).Update("status", status).Error; err != nil {
			return err
		}
		e.Status = status
		return nil
	})
	if err != nil {
		return nil, asServiceError(err)
	}

	s.audit.Record(actor, "enrollment."+string(status), "enrollment", e.ID,
		fmt.Sprintf(`{"classId":%q}`, e.ClassID))
	return &e, nil
}
