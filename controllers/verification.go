package controllers

import (
	"net/http"

	"Scrawl/services/verification"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Verification happens by following a link from an email, so this has to
// be a GET even though it mutates backend state.

// @Summary Consume a verification address
// @Description Marks the owning account verified and retires the address
// @Tags verification
// @Produce json
// @Param address path string true "Verification address from the email link"
// @Success 204
// @Failure 404 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /verification/{address} [get]
func ConsumeVerification(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := verification.Consume(c.Request.Context(), db, c.Param("address")); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
