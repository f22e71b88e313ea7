package routes

import (
	"github.com/Gabriel-on-the-hill/Edutrack-Hub-sub000/handlers/classes"
	"github.com/Gabriel-on-the-hill/Edutrack-Hub-sub000/handlers/enrollments"
	"github.com/Gabriel-on-the-hill/Edutrack-Hub-sub000/middleware"
	"github.com/Gabriel-on-the-hill/Edutrack-Hub-sub000/services/enrollment"

	"github.com/gin-gonic/gin"
)

func ClassesRoutes(r *gin.Engine, service *enrollment.Service) {
	enrollmentHandler := enrollments.NewHandler(service)

	// Public catalog
	r.GET("/classes", classes.GetAllClasses)
	r.GET("/classes/:id", classes.GetClassByID)

	// Admin back office
	adminRoutes := r.Group("/classes")
	adminRoutes.Use(middleware.JWTAuth())
	adminRoutes.Use(middleware.AdminAuth())
	{
		adminRoutes.POST("", classes.CreateClass)
		adminRoutes.PUT("/:id", classes.UpdateClass)
		adminRoutes.DELETE("/:id", classes.CancelClass)
		adminRoutes.GET("/:id/enrollments", enrollmentHandler.ListForClass)
	}
}
