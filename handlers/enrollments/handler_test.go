package enrollments

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/Gabriel-on-the-hill/Edutrack-Hub-sub000/services/enrollment"
	"github.com/Gabriel-on-the-hill/Edutrack-Hub-sub000/testutils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

const (
	testUserID  = "11111111-1111-1111-1111-111111111111"
	testClassID = "22222222-2222-2222-2222-222222222222"
	otherUserID = "33333333-3333-3333-3333-333333333333"
)

func TestMain(m *testing.M) {
	testutils.InitTestMain()
	os.Exit(m.Run())
}

// authAs injects the claims the JWT middleware would normally extract.
func authAs(userID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", role)
		c.Next()
	}
}

func setupHandler(t *testing.T, userID, role string) (*gin.Engine, sqlmock.Sqlmock, *testutils.MailerSpy, func()) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	provider := &testutils.ProviderFake{}
	mail := &testutils.MailerSpy{}
	sink := &testutils.AuditSpy{}
	h := NewHandler(enrollment.NewService(gormDB, provider, mail, sink))

	r := testutils.SetupTestRouter()
	auth := authAs(userID, role)
	r.POST("/enroll", auth, h.Enroll)
	r.GET("/enrollments", auth, h.ListMine)
	r.DELETE("/enrollments/:id", auth, h.Cancel)
	return r, mock, mail, cleanup
}

func enrollBody(classID string) []byte {
	body, _ := json.Marshal(map[string]string{"classId": classID})
	return body
}

func TestEnroll_FreeClass_Returns201(t *testing.T) {
	r, mock, mail, cleanup := setupHandler(t, testUserID, "USER")
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "user_name", "role", "enable"}).
			AddRow(testUserID, "student@example.com", "student", "USER", true))
	mock.ExpectQuery(`SELECT \* FROM "class_offerings" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "price", "currency", "max_capacity", "status"}).
			AddRow(testClassID, "Algebra 101", 0, "usd", 10, "SCHEDULED"))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "enrollments"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT \* FROM "enrollments" WHERE user_id = \$1`).
		WillReturnError(gorm.ErrRecordNotFound)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "class_offerings" WHERE id = \$1 (.+) FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "price", "currency", "max_capacity", "status"}).
			AddRow(testClassID, "Algebra 101", 0, "usd", 10, "SCHEDULED"))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "enrollments"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT \* FROM "enrollments" WHERE user_id = \$1`).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectQuery(`INSERT INTO "enrollments" (.+) RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("enrollment-1"))
	mock.ExpectCommit()

	req, _ := http.NewRequest(http.MethodPost, "/enroll", bytes.NewBuffer(enrollBody(testClassID)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusCreated, resp.Code)

	var result enrollment.EnrollResult
	err := json.Unmarshal(resp.Body.Bytes(), &result)
	assert.NoError(t, err)
	assert.False(t, result.RequiresPayment)
	assert.Equal(t, 1, mail.ConfirmedCalls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnroll_InvalidBody_Returns400(t *testing.T) {
	r, mock, _, cleanup := setupHandler(t, testUserID, "USER")
	defer cleanup()

	req, _ := http.NewRequest(http.MethodPost, "/enroll", bytes.NewBuffer([]byte(`{"classId":"not-a-uuid"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnroll_UnknownClass_Returns404(t *testing.T) {
	r, mock, _, cleanup := setupHandler(t, testUserID, "USER")
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "enable"}).
			AddRow(testUserID, "student@example.com", true))
	mock.ExpectQuery(`SELECT \* FROM "class_offerings" WHERE id = \$1`).
		WillReturnError(gorm.ErrRecordNotFound)

	req, _ := http.NewRequest(http.MethodPost, "/enroll", bytes.NewBuffer(enrollBody(testClassID)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnroll_ClassFull_Returns409(t *testing.T) {
	r, mock, _, cleanup := setupHandler(t, testUserID, "USER")
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "enable"}).
			AddRow(testUserID, "student@example.com", true))
	mock.ExpectQuery(`SELECT \* FROM "class_offerings" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "price", "max_capacity", "status"}).
			AddRow(testClassID, "Algebra 101", 0, 1, "SCHEDULED"))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "enrollments"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	req, _ := http.NewRequest(http.MethodPost, "/enroll", bytes.NewBuffer(enrollBody(testClassID)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnroll_StorageFailure_Returns503(t *testing.T) {
	r, mock, _, cleanup := setupHandler(t, testUserID, "USER")
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
		WillReturnError(assert.AnError)

	req, _ := http.NewRequest(http.MethodPost, "/enroll", bytes.NewBuffer(enrollBody(testClassID)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListMine_ReturnsEnrollments(t *testing.T) {
	r, mock, _, cleanup := setupHandler(t, testUserID, "USER")
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "enrollments" WHERE user_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "class_id", "status"}).
			AddRow("enrollment-1", testUserID, testClassID, "CONFIRMED").
			AddRow("enrollment-2", testUserID, otherUserID, "PENDING"))

	req, _ := http.NewRequest(http.MethodGet, "/enrollments", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var body []map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &body)
	assert.Len(t, body, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancel_SomeoneElsesEnrollment_Returns403(t *testing.T) {
	r, mock, _, cleanup := setupHandler(t, testUserID, "USER")
	defer cleanup()

	enrollmentID := "44444444-4444-4444-4444-444444444444"
	mock.ExpectQuery(`SELECT \* FROM "enrollments" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "class_id", "status"}).
			AddRow(enrollmentID, otherUserID, testClassID, "CONFIRMED"))

	req, _ := http.NewRequest(http.MethodDelete, "/enrollments/"+enrollmentID, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusForbidden, resp.Code)
	// Ownership is rejected before any write is attempted.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancel_AsAdmin_Succeeds(t *testing.T) {
	r, mock, _, cleanup := setupHandler(t, testUserID, "ADMIN")
	defer cleanup()

	enrollmentID := "44444444-4444-4444-4444-444444444444"
	mock.ExpectQuery(`SELECT \* FROM "enrollments" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "class_id", "status"}).
			AddRow(enrollmentID, otherUserID, testClassID, "PENDING"))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "enrollments" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "class_id", "status"}).
			AddRow(enrollmentID, otherUserID, testClassID, "PENDING"))
	mock.ExpectExec(`UPDATE "enrollments" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	req, _ := http.NewRequest(http.MethodDelete, "/enrollments/"+enrollmentID, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancel_InvalidID_Returns400(t *testing.T) {
	r, mock, _, cleanup := setupHandler(t, testUserID, "USER")
	defer cleanup()

	req, _ := http.NewRequest(http.MethodDelete, "/enrollments/not-a-uuid", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
