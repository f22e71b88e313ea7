package routes

import (
	handler "github.com/Gabriel-on-the-hill/Edutrack-Hub-sub000/handlers/payments"
	"github.com/Gabriel-on-the-hill/Edutrack-Hub-sub000/payments"
	"github.com/Gabriel-on-the-hill/Edutrack-Hub-sub000/services/enrollment"

	"github.com/gin-gonic/gin"
)

func PaymentsRoutes(r *gin.Engine, provider payments.Provider, service *enrollment.Service) {
	webhookHandler := handler.NewHandler(provider, service)

	// No auth middleware: the signature check inside the handler is the
	// authentication for provider-originated calls.
	r.POST("/webhooks/payment", webhookHandler.Webhook)
}
