package enrollments

import (
	"errors"
	"net/http"

	"github.com/Gabriel-on-the-hill/Edutrack-Hub-sub000/models"
	"github.com/Gabriel-on-the-hill/Edutrack-Hub-sub000/services/enrollment"
	"github.com/Gabriel-on-the-hill/Edutrack-Hub-sub000/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	service *enrollment.Service
}

func NewHandler(service *enrollment.Service) *Handler {
	return &Handler{service: service}
}

// @Summary Enroll in a class
// @Description Enroll the authenticated user in a class. Free classes confirm immediately; paid classes return a checkout URL.
// @Tags enrollments
// @Accept json
// @Produce json
// @Param enrollment body models.EnrollRequest true "Class to enroll in"
// @Security BearerAuth
// @Success 201 {object} enrollment.EnrollResult
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: Class not found"
// @Failure 409 {object} map[string]string "error: class full / already enrolled"
// @Failure 503 {object} map[string]string "error: Temporary failure, retry"
// @Router /enroll [post]
func (h *Handler) Enroll(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req models.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	result, err := h.service.InitiateEnrollment(c.Request.Context(), userID.(string), req.ClassID)
	if err != nil {
		h.renderEnrollError(c, userID, err)
		return
	}

	utils.LogSuccessWithUser(userID, "Enrollment initiated for class "+req.ClassID)
	c.JSON(http.StatusCreated, result)
}

func (h *Handler) renderEnrollError(c *gin.Context, userID interface{}, err error) {
	switch {
	case errors.Is(err, enrollment.ErrClassNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Class not found"})
	case errors.Is(err, enrollment.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, enrollment.ErrClassFull):
		c.JSON(http.StatusConflict, gin.H{"error": "Class full"})
	case errors.Is(err, enrollment.ErrAlreadyEnrolled):
		c.JSON(http.StatusConflict, gin.H{"error": "Already enrolled in this class"})
	case errors.Is(err, enrollment.ErrProviderUnavailable),
		errors.Is(err, enrollment.ErrTransientStorage):
		utils.LogErrorWithUser(userID, err, "Enrollment failed on a transient error")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Temporary failure, please retry"})
	default:
		utils.LogErrorWithUser(userID, err, "Enrollment failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error processing enrollment"})
	}
}

// @Summary List my enrollments
// @Description List every enrollment of the authenticated user
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Enrollment
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /enrollments [get]
func (h *Handler) ListMine(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	enrollments, err := h.service.ListForUser(c.Request.Context(), userID.(string))
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Error listing enrollments")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing enrollments"})
		return
	}

	c.JSON(http.StatusOK, enrollments)
}

// @Summary List enrollments for a class
// @Description List every enrollment of one class (admin only)
// @Tags enrollments
// @Produce json
// @Param id path string true "Class ID"
// @Security BearerAuth
// @Success 200 {array} models.Enrollment
// @Failure 400 {object} map[string]string "error: Invalid class ID"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /classes/{id}/enrollments [get]
func (h *Handler) ListForClass(c *gin.Context) {
	classID := c.Param("id")
	if _, err := uuid.Parse(classID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid class ID"})
		return
	}

	enrollments, err := h.service.ListForClass(c.Request.Context(), classID)
	if err != nil {
		utils.LogError(err, "Error listing enrollments for class "+classID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing enrollments"})
		return
	}

	c.JSON(http.StatusOK, enrollments)
}

// @Summary Cancel an enrollment
// @Description Cancel an enrollment. Owners can cancel their own; admins can cancel any. Completed enrollments cannot be cancelled.
// @Tags enrollments
// @Produce json
// @Param id path string true "Enrollment ID"
// @Security BearerAuth
// @Success 200 {object} models.Enrollment
// @Failure 400 {object} map[string]string "error: Invalid enrollment ID"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 403 {object} map[string]string "error: Not your enrollment"
// @Failure 404 {object} map[string]string "error: Enrollment not found"
// @Failure 409 {object} map[string]string "error: Cannot cancel"
// @Router /enrollments/{id} [delete]
func (h *Handler) Cancel(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	enrollmentID := c.Param("id")
	if _, err := uuid.Parse(enrollmentID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid enrollment ID"})
		return
	}

	existing, err := h.service.GetByID(c.Request.Context(), enrollmentID)
	if err != nil {
		if errors.Is(err, enrollment.ErrEnrollmentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Enrollment not found"})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Temporary failure, please retry"})
		return
	}

	role, _ := c.Get("role")
	if existing.UserID != userID.(string) && role != string(models.AdminRole) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to cancel this enrollment"})
		return
	}

	cancelled, err := h.service.Cancel(c.Request.Context(), enrollmentID, userID.(string))
	if err != nil {
		switch {
		case errors.Is(err, enrollment.ErrCancelCompleted):
			c.JSON(http.StatusConflict, gin.H{"error": "Cannot cancel a completed enrollment"})
		case errors.Is(err, enrollment.ErrAlreadyCancelled):
			c.JSON(http.StatusConflict, gin.H{"error": "Enrollment already cancelled"})
		case errors.Is(err, enrollment.ErrEnrollmentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Enrollment not found"})
		default:
			utils.LogErrorWithUser(userID, err, "Error cancelling enrollment")
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Temporary failure, please retry"})
		}
		return
	}

	utils.LogSuccessWithUser(userID, "Enrollment cancelled: "+enrollmentID)
	c.JSON(http.StatusOK, cancelled)
}

// @Summary Record attendance
// @Description Mark a confirmed enrollment as attended, completed or missed (admin only)
// @Tags enrollments
// @Accept json
// @Produce json
// @Param id path string true "Enrollment ID"
// @Param attendance body models.AttendanceUpdate true "Attendance outcome"
// @Security BearerAuth
// @Success 200 {object} models.Enrollment
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 404 {object} map[string]string "error: Enrollment not found"
// @Failure 409 {object} map[string]string "error: Enrollment is not confirmed"
// @Router /enrollments/{id}/attendance [patch]
func (h *Handler) MarkAttendance(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	enrollmentID := c.Param("id")
	if _, err := uuid.Parse(enrollmentID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid enrollment ID"})
		return
	}

	var input models.AttendanceUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	updated, err := h.service.MarkAttendance(c.Request.Context(), enrollmentID, input.Status, userID.(string))
	if err != nil {
		switch {
		case errors.Is(err, enrollment.ErrEnrollmentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Enrollment not found"})
		case errors.Is(err, enrollment.ErrNotConfirmed):
			c.JSON(http.StatusConflict, gin.H{"error": "Enrollment is not confirmed"})
		default:
			utils.LogErrorWithUser(userID, err, "Error recording attendance")
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Temporary failure, please retry"})
		}
		return
	}

	c.JSON(http.StatusOK, updated)
}
