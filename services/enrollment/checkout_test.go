package enrollment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Gabriel-on-the-hill/Edutrack-Hub-sub000/models"
	"github.com/Gabriel-on-the-hill/Edutrack-Hub-sub000/testutils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fixture struct {
	svc      *Service
	mock     sqlmock.Sqlmock
	provider *testutils.ProviderFake
	mailer   *testutils.MailerSpy
	sink     *testutils.AuditSpy
	cleanup  func()
}

func newFixture(t *testing.T) *fixture {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	provider := &testutils.ProviderFake{}
	mail := &testutils.MailerSpy{}
	sink := &testutils.AuditSpy{}
	return &fixture{
		svc:      NewService(gormDB, provider, mail, sink),
		mock:     mock,
		provider: provider,
		mailer:   mail,
		sink:     sink,
		cleanup:  cleanup,
	}
}

func userRows(id string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "email", "password", "user_name", "role", "enable"}).
		AddRow(id, "student@example.com", "hash", "student", "USER", true)
}

func classRows(id string, price int64, capacity int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "description", "tutor_name", "price", "currency", "max_capacity", "scheduled_time", "status"}).
		AddRow(id, "Algebra 101", "Intro algebra", "Ms. Park", price, "usd", capacity, time.Now(), "SCHEDULED")
}

func countRows(n int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"count"}).AddRow(n)
}

func enrollmentRows(id, userID, classID string, status models.EnrollmentStatus) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "class_id", "status", "enrolled_at"}).
		AddRow(id, userID, classID, string(status), time.Now())
}

func (f *fixture) expectUserAndClass(price int64, capacity int) {
	f.mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
		WithArgs("user-1", 1).
		WillReturnRows(userRows("user-1"))
	f.mock.ExpectQuery(`SELECT \* FROM "class_offerings" WHERE id = \$1`).
		WithArgs("class-1", 1).
		WillReturnRows(classRows("class-1", price, capacity))
}

func TestInitiateEnrollment_FreeClass_ConfirmsImmediately(t *testing.T) {
	f := newFixture(t)
	defer f.cleanup()

	f.expectUserAndClass(0, 10)
	f.mock.ExpectQuery(`SELECT count\(\*\) FROM "enrollments"`).WillReturnRows(countRows(0))
	f.mock.ExpectQuery(`SELECT \* FROM "enrollments" WHERE user_id = \$1`).
		WillReturnError(gorm.ErrRecordNotFound)

	f.mock.ExpectBegin()
	f.mock.ExpectQuery(`SELECT \* FROM "class_offerings" WHERE id = \$1 (.+) FOR UPDATE`).
		WillReturnRows(classRows("class-1", 0, 10))
	f.mock.ExpectQuery(`SELECT count\(\*\) FROM "enrollments"`).WillReturnRows(countRows(0))
	f.mock.ExpectQuery(`SELECT \* FROM "enrollments" WHERE user_id = \$1`).
		WillReturnError(gorm.ErrRecordNotFound)
	f.mock.ExpectQuery(`INSERT INTO "enrollments" (.+) RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("enrollment-1"))
	f.mock.ExpectCommit()

	result, err := f.svc.InitiateEnrollment(context.Background(), "user-1", "class-1")

	assert.NoError(t, err)
	assert.False(t, result.RequiresPayment)
	assert.Empty(t, result.CheckoutURL)
	assert.Equal(t, models.EnrollmentConfirmed, result.Enrollment.Status)
	assert.NotNil(t, result.Enrollment.ConfirmedAt)
	assert.Nil(t, result.Enrollment.PaymentID)
	assert.Equal(t, 0, f.provider.CreateCalls, "free classes must not touch the payment provider")
	assert.Equal(t, 1, f.mailer.ConfirmedCalls)
	assert.True(t, f.sink.Has("enrollment.confirmed"))
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestInitiateEnrollment_PaidClass_CreatesPendingPair(t *testing.T) {
	f := newFixture(t)
	defer f.cleanup()

	f.expectUserAndClass(5000, 10)
	f.mock.ExpectQuery(`SELECT count\(\*\) FROM "enrollments"`).WillReturnRows(countRows(0))
	f.mock.ExpectQuery(`SELECT \* FROM "enrollments" WHERE user_id = \$1`).
		WillReturnError(gorm.ErrRecordNotFound)

	f.mock.ExpectBegin()
	f.mock.ExpectQuery(`SELECT \* FROM "class_offerings" WHERE id = \$1 (.+) FOR UPDATE`).
		WillReturnRows(classRows("class-1", 5000, 10))
	f.mock.ExpectQuery(`SELECT count\(\*\) FROM "enrollments"`).WillReturnRows(countRows(0))
	f.mock.ExpectQuery(`SELECT \* FROM "enrollments" WHERE user_id = \$1`).
		WillReturnError(gorm.ErrRecordNotFound)
	f.mock.ExpectQuery(`INSERT INTO "enrollments" (.+) RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("enrollment-1"))
	f.mock.ExpectQuery(`INSERT INTO "payments" (.+) RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("payment-1"))
	f.mock.ExpectCommit()

	result, err := f.svc.InitiateEnrollment(context.Background(), "user-1", "class-1")

	assert.NoError(t, err)
	assert.True(t, result.RequiresPayment)
	assert.Equal(t, "https://checkout.example/cs_test_session", result.CheckoutURL)
	assert.Equal(t, models.EnrollmentPending, result.Enrollment.Status)
	assert.Equal(t, 1, f.provider.CreateCalls)
	assert.Equal(t, 0, f.mailer.ConfirmedCalls, "no confirmation before the payment lands")
	assert.True(t, f.sink.Has("payment.pending"))
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestInitiateEnrollment_SessionFailure_WritesNothing(t *testing.T) {
	f := newFixture(t)
	defer f.cleanup()
	f.provider.CreateErr = errors.New("provider timeout")

	f.expectUserAndClass(5000, 10)
	f.mock.ExpectQuery(`SELECT count\(\*\) FROM "enrollments"`).WillReturnRows(countRows(0))
	f.mock.ExpectQuery(`SELECT \* FROM "enrollments" WHERE user_id = \$1`).
		WillReturnError(gorm.ErrRecordNotFound)

	result, err := f.svc.InitiateEnrollment(context.Background(), "user-1", "class-1")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrProviderUnavailable)
	// No transaction was opened, so no enrollment or payment row exists.
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestInitiateEnrollment_ClassFull_Conflict(t *testing.T) {
	f := newFixture(t)
	defer f.cleanup()

	f.expectUserAndClass(0, 1)
	f.mock.ExpectQuery(`SELECT count\(\*\) FROM "enrollments"`).WillReturnRows(countRows(1))

	result, err := f.svc.InitiateEnrollment(context.Background(), "user-1", "class-1")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrClassFull)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestInitiateEnrollment_AlreadyEnrolled_Conflict(t *testing.T) {
	f := newFixture(t)
	defer f.cleanup()

	f.expectUserAndClass(0, 10)
	f.mock.ExpectQuery(`SELECT count\(\*\) FROM "enrollments"`).WillReturnRows(countRows(3))
	f.mock.ExpectQuery(`SELECT \* FROM "enrollments" WHERE user_id = \$1`).
		WillReturnRows(enrollmentRows("enrollment-1", "user-1", "class-1", models.EnrollmentConfirmed))

	result, err := f.svc.InitiateEnrollment(context.Background(), "user-1", "class-1")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestInitiateEnrollment_ConcurrentFill_RejectedInTransaction(t *testing.T) {
	f := newFixture(t)
	defer f.cleanup()

	// Pre-check sees a free seat, but by the time the transaction locks the
	// class row another enrollment has taken it.
	f.expectUserAndClass(0, 1)
	f.mock.ExpectQuery(`SELECT count\(\*\) FROM "enrollments"`).WillReturnRows(countRows(0))
	f.mock.ExpectQuery(`SELECT \* FROM "enrollments" WHERE user_id = \$1`).
		WillReturnError(gorm.ErrRecordNotFound)

	f.mock.ExpectBegin()
	f.mock.ExpectQuery(`SELECT \* FROM "class_offerings" WHERE id = \$1 (.+) FOR UPDATE`).
		WillReturnRows(classRows("class-1", 0, 1))
	f.mock.ExpectQuery(`SELECT count\(\*\) FROM "enrollments"`).WillReturnRows(countRows(1))
	f.mock.ExpectRollback()

	result, err := f.svc.InitiateEnrollment(context.Background(), "user-1", "class-1")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrClassFull)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestInitiateEnrollment_CancelledClass_NotFound(t *testing.T) {
	f := newFixture(t)
	defer f.cleanup()

	f.mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
		WillReturnRows(userRows("user-1"))
	rows := sqlmock.NewRows([]string{"id", "title", "price", "max_capacity", "status"}).
		AddRow("class-1", "Algebra 101", 0, 10, "CANCELLED")
	f.mock.ExpectQuery(`SELECT \* FROM "class_offerings" WHERE id = \$1`).
		WillReturnRows(rows)

	_, err := f.svc.InitiateEnrollment(context.Background(), "user-1", "class-1")
	assert.ErrorIs(t, err, ErrClassNotFound)
}

func TestInitiateEnrollment_UnknownClass_NotFound(t *testing.T) {
	f := newFixture(t)
	defer f.cleanup()

	f.mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
		WillReturnRows(userRows("user-1"))
	f.mock.ExpectQuery(`SELECT \* FROM "class_offerings" WHERE id = \$1`).
		WillReturnError(gorm.ErrRecordNotFound)

	_, err := f.svc.InitiateEnrollment(context.Background(), "user-1", "class-1")
	assert.ErrorIs(t, err, ErrClassNotFound)
}
