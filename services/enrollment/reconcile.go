package enrollment

import (
	"context"
	"errors"
	"fmt"

	"github.com/Gabriel-on-the-hill/Edutrack-Hub-sub000/models"
	"github.com/Gabriel-on-the-hill/Edutrack-Hub-sub000/payments"
	"github.com/Gabriel-on-the-hill/Edutrack-Hub-sub000/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Reconcile applies one verified provider notification exactly once.
// Delivery is at-least-once and unordered, so everything here is built to
// be re-runnable: an already-final payment is acknowledged without side
// effects, and the actual transition happens under a lock on the payment
// row so two concurrent deliveries cannot both apply it.
//
// A nil return means the event is settled and the provider must stop
// retrying. ErrTransientStorage means the commit failed and a retry is
// wanted.
func (s *Service) Reconcile(ctx context.Context, ev payments.Event) error {
	switch ev.Type {
	case payments.EventPaymentSucceeded:
		return s.reconcileSuccess(ctx, ev)
	case payments.EventPaymentFailed:
		return s.reconcileFailure(ctx, ev)
	default:
		return nil
	}
}

func (s *Service) reconcileSuccess(ctx context.Context, ev payments.Event) error {
	var payment models.Payment
	if err := s.db.WithContext(ctx).First(&payment, "external_session_id = ?", ev.SessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Terminal: retrying cannot make an unknown session appear.
			utils.LogError(nil, "Webhook for unknown payment session "+ev.SessionID)
			return nil
		}
		return transient(err)
	}

	// Idempotence guard: a completed payment is already settled.
	if payment.Status == models.PaymentCompleted {
		return nil
	}
	if payment.Status == models.PaymentFailed {
		// One-way transitions: a success notice cannot resurrect a FAILED
		// payment. Settle the delivery and leave a trace.
		utils.LogError(nil, "Success webhook for already-failed payment "+payment.ID)
		s.audit.Record("system", "payment.conflicting_webhook", "payment", payment.ID,
			fmt.Sprintf(`{"sessionId":%q}`, ev.SessionID))
		return nil
	}

	var (
		confirmed    *models.Enrollment
		overCapacity bool
		class        models.ClassOffering
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var locked models.Payment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&locked, "external_session_id = ?", ev.SessionID).Error; err != nil {
			return err
		}
		// Re-check under the lock: a concurrent duplicate delivery may have
		// won the race between our guard above and this transaction.
		if locked.Status != models.PaymentPending {
			return nil
		}

		now := s.now()
		if err := tx.Model(&locked).Updates(map[string]interface{}{
			"status":                  models.PaymentCompleted,
			"paid_at":                 now,
			"external_transaction_id": ev.TransactionID,
		}).Error; err != nil {
			return err
		}

		lockedClass, err := lockClass(tx, locked.ClassID)
		if err != nil {
			return err
		}
		class = *lockedClass

		var seats int64
		if err := tx.Model(&models.Enrollment{}).
			Where("class_id = ? AND status IN ?", locked.ClassID, models.SeatHoldingStatuses).
			Count(&seats).Error; err != nil {
			return err
		}
		hasSeat := seats < int64(class.MaxCapacity)

		var e models.Enrollment
		findErr := tx.Where("user_id = ? AND class_id = ? AND status IN ?",
			locked.UserID, locked.ClassID, models.ActiveEnrollmentStatuses).First(&e).Error
		switch {
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			// The checkout should have written this row; recreate it so a
			// paid user is never invisible.
			e = models.Enrollment{
				UserID:     locked.UserID,
				ClassID:    locked.ClassID,
				Status:     models.EnrollmentPending,
				EnrolledAt: now,
			}
			if hasSeat {
				e.Status = models.EnrollmentConfirmed
				e.ConfirmedAt = &now
				e.PaymentID = &locked.ID
			}
			if err := tx.Create(&e).Error; err != nil {
				return err
			}
		case findErr != nil:
			return findErr
		default:
			if e.Status != models.EnrollmentPending {
				// Already confirmed or further along; nothing to apply.
				confirmed = nil
				return nil
			}
			if hasSeat {
				if err := tx.Model(&e).Updates(map[string]interface{}{
					"status":       models.EnrollmentConfirmed,
					"confirmed_at": now,
					"payment_id":   locked.ID,
				}).Error; err != nil {
					return err
				}
				e.Status = models.EnrollmentConfirmed
				e.ConfirmedAt = &now
				e.PaymentID = &locked.ID
			}
		}

		if hasSeat && e.Status == models.EnrollmentConfirmed {
			confirmed = &e
		} else {
			overCapacity = true
		}
		payment = locked
		return nil
	})
	if err != nil {
		return transient(err)
	}

	if confirmed != nil {
		s.audit.Record("system", "payment.completed", "payment", payment.ID,
			fmt.Sprintf(`{"sessionId":%q,"transactionId":%q}`, ev.SessionID, ev.TransactionID))
		s.audit.Record("system", "enrollment.confirmed", "enrollment", confirmed.ID,
			fmt.Sprintf(`{"classId":%q,"paymentId":%q}`, payment.ClassID, payment.ID))
		s.sendConfirmation(ctx, payment.UserID, class)
	} else if overCapacity {
		// Money arrived for a seat that no longer exists: keep the payment
		// COMPLETED, leave the enrollment PENDING and flag it for manual
		// resolution (refund or seat swap). Retries cannot free a seat.
		s.audit.Record("system", "enrollment.capacity_exhausted", "payment", payment.ID,
			fmt.Sprintf(`{"classId":%q,"sessionId":%q}`, payment.ClassID, ev.SessionID))
		utils.LogError(nil, "Paid enrollment blocked by capacity for class "+payment.ClassID)
	}

	return nil
}

func (s *Service) reconcileFailure(ctx context.Context, ev payments.Event) error {
	var payment models.Payment
	if err := s.db.WithContext(ctx).First(&payment, "external_session_id = ?", ev.SessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.LogError(nil, "Failure webhook for unknown payment session "+ev.SessionID)
			return nil
		}
		return transient(err)
	}
	if payment.Status != models.PaymentPending {
		// FAILED already applied, or COMPLETED and immutable either way.
		return nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var locked models.Payment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&locked, "external_session_id = ?", ev.SessionID).Error; err != nil {
			return err
		}
		if locked.Status != models.PaymentPending {
			return nil
		}
		if err := tx.Model(&locked).Update("status", models.PaymentFailed).Error; err != nil {
			return err
		}
		// Release the user's pending claim so re-enrollment is possible.
		return tx.Model(&models.Enrollment{}).
			Where("user_id = ? AND class_id = ? AND status = ?",
				locked.UserID, locked.ClassID, models.EnrollmentPending).
			Update("status", models.EnrollmentCancelled).Error
	})
	if err != nil {
		return transient(err)
	}

	s.audit.Record("system", "payment.failed", "payment", payment.ID,
		fmt.Sprintf(`{"sessionId":%q}`, ev.SessionID))
	return nil
}

func (s *Service) sendConfirmation(ctx context.Context, userID string, class models.ClassOffering) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		utils.LogErrorWithUser(userID, err, "Could not load user for confirmation email")
		return
	}
	if err := s.mailer.EnrollmentConfirmed(user.Email, class.Title, class.ScheduledTime); err != nil {
		utils.LogErrorWithUser(userID, err, "Could not send enrollment confirmation email")
	}
}
