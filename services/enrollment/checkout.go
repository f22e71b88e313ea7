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

// EnrollResult is what POST /enroll returns: the enrollment plus, for paid
// classes, the hosted checkout URL the user must be redirected to.
type EnrollResult struct {
	Enrollment      models.Enrollment `json:"enrollment"`
	RequiresPayment bool              `json:"requiresPayment"`
	CheckoutURL     string            `json:"checkoutUrl,omitempty"`
}

// InitiateEnrollment decides the enrollment path for a (user, class) pair.
// Free classes confirm immediately; paid classes get a PENDING enrollment,
// a PENDING payment and a checkout session. If the session cannot be
// created, no rows are written at all.
//
// The capacity and duplicate checks run twice: once up front for fast
// feedback, then again inside the transaction under a lock on the class
// row, which is what actually enforces them against concurrent requests.
func (s *Service) InitiateEnrollment(ctx context.Context, userID, classID string) (*EnrollResult, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, transient(err)
	}
	if !user.Enable {
		return nil, ErrUserNotFound
	}

	var class models.ClassOffering
	if err := s.db.WithContext(ctx).First(&class, "id = ?", classID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, transient(err)
	}
	if class.Status == models.ClassCancelled {
		return nil, ErrClassNotFound
	}

	if err := s.checkSeatAndDuplicate(s.db.WithContext(ctx), class, userID); err != nil {
		return nil, err
	}

	if class.Price == 0 {
		return s.enrollFree(ctx, user, class)
	}
	return s.enrollPaid(ctx, user, class)
}

// checkSeatAndDuplicate evaluates the ordered preconditions: capacity
// first, then the single-active-enrollment rule. Capacity counts only
// confirmed-or-later enrollments.
func (s *Service) checkSeatAndDuplicate(tx *gorm.DB, class models.ClassOffering, userID string) error {
	var seats int64
	if err := tx.Model(&models.Enrollment{}).
		Where("class_id = ? AND status IN ?", class.ID, models.SeatHoldingStatuses).
		Count(&seats).Error; err != nil {
		return transient(err)
	}
	if seats >= int64(class.MaxCapacity) {
		return ErrClassFull
	}

	var existing models.Enrollment
	err := tx.Where("user_id = ? AND class_id = ? AND status IN ?",
		userID, class.ID, models.ActiveEnrollmentStatuses).First(&existing).Error
	if err == nil {
		return ErrAlreadyEnrolled
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return transient(err)
	}
	return nil
}

func (s *Service) enrollFree(ctx context.Context, user models.User, class models.ClassOffering) (*EnrollResult, error) {
	now := s.now()
	enrollment := models.Enrollment{
		UserID:      user.ID,
		ClassID:     class.ID,
		Status:      models.EnrollmentConfirmed,
		EnrolledAt:  now,
		ConfirmedAt: &now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locked, err := lockClass(tx, class.ID)
		if err != nil {
			return err
		}
		if err := s.checkSeatAndDuplicate(tx, *locked, user.ID); err != nil {
			return err
		}
		return tx.Create(&enrollment).Error
	})
	if err != nil {
		return nil, asServiceError(err)
	}

	s.audit.Record(user.ID, "enrollment.confirmed", "enrollment", enrollment.ID,
		fmt.Sprintf(`{"classId":%q,"paid":false}`, class.ID))
	if mailErr := s.mailer.EnrollmentConfirmed(user.Email, class.Title, class.ScheduledTime); mailErr != nil {
		utils.LogErrorWithUser(user.ID, mailErr, "Could not send enrollment confirmation email")
	}

	return &EnrollResult{Enrollment: enrollment, RequiresPayment: false}, nil
}

func (s *Service) enrollPaid(ctx context.Context, user models.User, class models.ClassOffering) (*EnrollResult, error) {
	// The provider call happens before the transaction so no lock is held
	// during network I/O, and its failure leaves nothing behind.
	session, err := s.provider.CreateCheckoutSession(ctx, payments.SessionRequest{
		Amount:      class.Price,
		Currency:    class.Currency,
		ClassID:     class.ID,
		UserID:      user.ID,
		Description: class.Title,
	})
	if err != nil {
		utils.LogErrorWithUser(user.ID, err, "Checkout session creation failed for class "+class.ID)
		return nil, errors.Join(ErrProviderUnavailable, err)
	}

	now := s.now()
	enrollment := models.Enrollment{
		UserID:     user.ID,
		ClassID:    class.ID,
		Status:     models.EnrollmentPending,
		EnrolledAt: now,
	}
	payment := models.Payment{
		UserID:            user.ID,
		ClassID:           class.ID,
		Amount:            class.Price,
		Currency:          class.Currency,
		ExternalSessionID: session.ID,
		Status:            models.PaymentPending,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locked, err := lockClass(tx, class.ID)
		if err != nil {
			return err
		}
		if err := s.checkSeatAndDuplicate(tx, *locked, user.ID); err != nil {
			return err
		}
		if err := tx.Create(&enrollment).Error; err != nil {
			return err
		}
		return tx.Create(&payment).Error
	})
	if err != nil {
		return nil, asServiceError(err)
	}

	s.audit.Record(user.ID, "enrollment.pending", "enrollment", enrollment.ID,
		fmt.Sprintf(`{"classId":%q,"sessionId":%q}`, class.ID, session.ID))
	s.audit.Record(user.ID, "payment.pending", "payment", payment.ID,
		fmt.Sprintf(`{"sessionId":%q,"amount":%d}`, session.ID, class.Price))
	if mailErr := s.mailer.EnrollmentPending(user.Email, class.Title); mailErr != nil {
		utils.LogErrorWithUser(user.ID, mailErr, "Could not send pending enrollment email")
	}

	return &EnrollResult{
		Enrollment:      enrollment,
		RequiresPayment: true,
		CheckoutURL:     session.URL,
	}, nil
}

func lockClass(tx *gorm.DB, classID string) (*models.ClassOffering, error) {
	var class models.ClassOffering
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&class, "id = ?", classID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}
	return &class, nil
}

// asServiceError keeps taxonomy errors as-is and wraps everything else as
// transient storage failure.
func asServiceError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrClassFull),
		errors.Is(err, ErrAlreadyEnrolled),
		errors.Is(err, ErrClassNotFound),
		errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrEnrollmentNotFound),
		errors.Is(err, ErrCancelCompleted),
		errors.Is(err, ErrAlreadyCancelled),
		errors.Is(err, ErrNotConfirmed),
		errors.Is(err, ErrTransientStorage):
		return err
	default:
		return transient(err)
	}
}
