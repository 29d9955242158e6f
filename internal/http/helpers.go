package http

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// parseIDParam extracts an integer path parameter, responding with 400
// on malformed input.
func parseIDParam(c *gin.Context, name string) (int, bool) {
	raw := c.Param(name)
	id, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name + " parameter"})
		return 0, false
	}
	return id, true
}

func respondInternalError(c *gin.Context, err error, operation string) {
	log.Printf("HTTP: %s failed: %v", operation, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to " + operation})
}
