package controllers

import (
	"log"
	"net/http"

	"Scrawl/services/apperr"
	"Scrawl/utils"

	"github.com/gin-gonic/gin"
)

// @Summary Endpoint just pings the server
// @Description Returns a basic message
// @Tags test
// @Produce json
// @Success 200 {object} object{message=string}
// @Router /ping [get]
func Ping(c *gin.Context) {
	c.JSON(200, gin.H{"message": "pong"})
}

// respondError translates a service error into its HTTP response.
// Unclassified errors are logged here and surface as a bare 500.
func respondError(c *gin.Context, err error) {
	status := apperr.Status(err)
	if status == http.StatusInternalServerError {
		log.Printf("Internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"error": apperr.Message(err)})
}

// pairParams pulls and validates the two account UUIDs every
// relationship route carries.
func pairParams(c *gin.Context) (string, string, bool) {
	first := c.Param("uuid")
	second := c.Param("uuid2")
	if !utils.ValidUUID(first) || !utils.ValidUUID(second) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "both path parameters must be valid UUIDs"})
		return "", "", false
	}
	return first, second, true
}
