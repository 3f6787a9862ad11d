package router

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/wedplan/backend/internal/models"
)

// URLMiddleware sets the URL the backend is reachable at on the request
// context. Resource links in responses are built from it.
func URLMiddleware() gin.HandlerFunc {
	url := os.Getenv("API_URL")

	return func(c *gin.Context) {
		c.Set("baseURL", url)
		c.Set(string(models.DBContextURL), url)
	}
}
