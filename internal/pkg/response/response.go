package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON writes the payload as-is. The /upload and /ask bodies are a
// frozen wire contract, so success replies carry no envelope.
func JSON(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func Error(c *gin.Context, status int, code int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
