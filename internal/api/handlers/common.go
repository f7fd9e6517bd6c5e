package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every non-form error.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthCheck godoc
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
