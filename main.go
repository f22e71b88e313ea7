package main

import (
	"log"
	"os"

	"github.com/Gabriel-on-the-hill/Edutrack-Hub-sub000/db"
	"github.com/Gabriel-on-the-hill/Edutrack-Hub-sub000/routes"

	"github.com/gin-gonic/gin"
)

// @title EduTrack Hub API
// @version 1.0
// @description Tutoring marketplace backend: class catalog, enrollment, payments and attendance
// @host localhost:8080
// @BasePath /
// @SecurityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter the JWT with the Bearer prefix: Bearer <JWT>
func main() {
	gin.SetMode(gin.ReleaseMode)

	db.InitDB()

	r := routes.SetupRouter()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Error starting the server:", err)
	}
}
