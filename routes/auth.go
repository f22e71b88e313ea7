package routes

import (
	"github.com/Gabriel-on-the-hill/Edutrack-Hub-sub000/handlers/auth"
	"github.com/Gabriel-on-the-hill/Edutrack-Hub-sub000/mailer"

	"github.com/gin-gonic/gin"
)

func AuthRoutes(r *gin.Engine, m mailer.Mailer) {
	handler := auth.NewHandler(m)

	r.POST("/register", handler.Register)
	r.POST("/login", handler.Login)
}
