package routes

import (
	"github.com/Gabriel-on-the-hill/Edutrack-Hub-sub000/handlers/enrollments"
	"github.com/Gabriel-on-the-hill/Edutrack-Hub-sub000/middleware"
	"github.com/Gabriel-on-the-hill/Edutrack-Hub-sub000/services/enrollment"

	"github.com/gin-gonic/gin"
)

func EnrollmentsRoutes(r *gin.Engine, service *enrollment.Service) {
	handler := enrollments.NewHandler(service)

	r.POST("/enroll", middleware.JWTAuth(), handler.Enroll)

	enrollmentRoutes := r.Group("/enrollments")
	enrollmentRoutes.Use(middleware.JWTAuth())
	{
		enrollmentRoutes.GET("", handler.ListMine)
		enrollmentRoutes.DELETE("/:id", handler.Cancel)
		enrollmentRoutes.PATCH("/:id/attendance", middleware.AdminAuth(), handler.MarkAttendance)
	}
}
