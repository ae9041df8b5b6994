package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/coursewiz/internal/gateway"
)

// respondError writes the flat error envelope with the status that matches err.
func respondError(c *gin.Context, err error) {
	c.JSON(gateway.StatusCode(err), gin.H{"error": err.Error()})
}

func respondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// postOnly answers every non-POST method on a generation route.
func postOnly(c *gin.Context) {
	c.Header("Allow", http.MethodPost)
	c.AbortWithStatusJSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
