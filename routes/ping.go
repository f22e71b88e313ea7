package routes

import (
	"github.com/Gabriel-on-the-hill/Edutrack-Hub-sub000/handlers/ping"

	"github.com/gin-gonic/gin"
)

func PingRoutes(r *gin.Engine) {
	r.GET("/ping", ping.Ping)
}
