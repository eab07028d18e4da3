package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/annomania/annomania-api/internal/handlers/response"
)

func Hello(c *gin.Context) {
	response.RespondOK(c, gin.H{"message": "annomania api"})
}

func HealthCheck(c *gin.Context) {
	response.RespondOK(c, gin.H{"status": "ok"})
}
