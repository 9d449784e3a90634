package controllers

import (
	"net/http"

	"Scrawl/services/relationships"
	"Scrawl/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// @Summary Get the accounts blocked by an account
// @Description Returns the UUIDs this account has blocked
// @Tags blocks
// @Produce json
// @Param uuid path string true "Account UUID"
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {array} string
// @Failure 403 {object} object{error=string}
// @Router /account/{uuid}/blocks [get]
// @Security ApiKeyAuth
func ListBlocked(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountUUID := c.Param("uuid")
		if !utils.ValidUUID(accountUUID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "the path parameter must be a valid UUID"})
			return
		}

		blocked, err := relationships.ListBlocked(c.Request.Context(), db, accountUUID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, blocked)
	}
}

// @Summary Block an account
// @Description Creates a block and removes any friendship or pending request between the two accounts
// @Tags blocks
// @Produce json
// @Param uuid path string true "Blocker account UUID"
// @Param uuid2 path string true "Blocked account UUID"
// @Param Authorization header string true "Bearer JWT token"
// @Success 201 {object} object{message=string}
// @Failure 400 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /account/{uuid}/blocks/{uuid2} [post]
// @Security ApiKeyAuth
func CreateBlock(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		blocker, blocked, ok := pairParams(c)
		if !ok {
			return
		}

		if err := relationships.CreateBlock(c.Request.Context(), db, blocker, blocked); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "blocked the account"})
	}
}

// @Summary Remove a block
// @Description Deletes a block from the blocker's side; nothing is restored
// @Tags blocks
// @Produce json
// @Param uuid path string true "Blocker account UUID"
// @Param uuid2 path string true "Blocked account UUID"
// @Param Authorization header string true "Bearer JWT token"
// @Success 204
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /account/{uuid}/blocks/{uuid2} [delete]
// @Security ApiKeyAuth
func RemoveBlock(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		blocker, blocked, ok := pairParams(c)
		if !ok {
			return
		}

		if err := relationships.RemoveBlock(c.Request.Context(), db, blocker, blocked); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
