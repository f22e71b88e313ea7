package payments

import (
	"errors"
	"io"
	"net/http"

	"github.com/Gabriel-on-the-hill/Edutrack-Hub-sub000/payments"
	"github.com/Gabriel-on-the-hill/Edutrack-Hub-sub000/services/enrollment"
	"github.com/Gabriel-on-the-hill/Edutrack-Hub-sub000/utils"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	provider payments.Provider
	service  *enrollment.Service
}

func NewHandler(provider payments.Provider, service *enrollment.Service) *Handler {
	return &Handler{provider: provider, service: service}
}

// @Summary Payment provider webhook
// @Description Receive payment notifications. Delivery is at-least-once: a 200 means the event is settled, a 500 asks the provider to retry.
// @Tags payments
// @Accept json
// @Produce json
// @Success 200 {object} map[string]bool "received: true"
// @Failure 400 {object} map[string]string "error: Signature verification failed"
// @Failure 500 {object} map[string]string "error: Temporary failure"
// @Router /webhooks/payment [post]
func (h *Handler) Webhook(c *gin.Context) {
	const MaxBodyBytes = int64(65536)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Could not read the request body"})
		return
	}

	// Authenticity comes first: nothing is parsed or looked up until the
	// signature checks out.
	event, err := h.provider.VerifyEvent(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, payments.ErrInvalidSignature) {
			utils.LogError(err, "Webhook signature verification failed")
			c.JSON(http.StatusBadRequest, gin.H{"error": "Signature verification failed"})
			return
		}
		utils.LogError(err, "Webhook payload rejected")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed event"})
		return
	}

	if err := h.service.Reconcile(c.Request.Context(), event); err != nil {
		// Retryable: the idempotence guard makes redelivery safe.
		utils.LogError(err, "Webhook reconciliation failed, asking the provider to retry")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Temporary failure"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
