package routes

import (
	"time"

	"github.com/Gabriel-on-the-hill/Edutrack-Hub-sub000/audit"
	"github.com/Gabriel-on-the-hill/Edutrack-Hub-sub000/db"
	"github.com/Gabriel-on-the-hill/Edutrack-Hub-sub000/mailer"
	"github.com/Gabriel-on-the-hill/Edutrack-Hub-sub000/middleware"
	"github.com/Gabriel-on-the-hill/Edutrack-Hub-sub000/payments"
	"github.com/Gabriel-on-the-hill/Edutrack-Hub-sub000/services/enrollment"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter wires the external collaborators (payment provider, mailer,
// audit sink) into the services and mounts every route group.
func SetupRouter() *gin.Engine {
	provider := payments.NewStripeProvider()
	mail := mailer.NewSMTPMailer()
	sink := audit.NewGormSink(db.DB)
	service := enrollment.NewService(db.DB, provider, mail, sink)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Stripe-Signature"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimit(middleware.NewMemoryCounter(), 120, time.Minute))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	PingRoutes(r)
	AuthRoutes(r, mail)
	ClassesRoutes(r, service)
	EnrollmentsRoutes(r, service)
	PaymentsRoutes(r, provider, service)

	return r
}
