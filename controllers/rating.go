package controllers

import (
	"net/http"
	"strconv"

	"Scrawl/middleware"
	"Scrawl/services/ratings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ratingRequest struct {
	Rating int `json:"rating" binding:"required"`
}

// entryKeyParams parses the :id/:stream/:index triple every rating
// route carries.
func entryKeyParams(c *gin.Context) (ratings.EntryKey, bool) {
	gameID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "game id must be a positive integer"})
		return ratings.EntryKey{}, false
	}
	stream, err := strconv.ParseUint(c.Param("stream"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "stream must be a positive integer"})
		return ratings.EntryKey{}, false
	}
	index, err := strconv.ParseUint(c.Param("index"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "index must be a positive integer"})
		return ratings.EntryKey{}, false
	}
	return ratings.EntryKey{
		GameID: uint(gameID),
		Stream: uint(stream),
		Index:  uint(index),
	}, true
}

// @Summary Rate an entry
// @Description Records a 1-5 rating of one broken telephone entry by the authenticated account
// @Tags game
// @Accept json
// @Produce json
// @Param id path integer true "Game ID"
// @Param stream path integer true "Stream index"
// @Param index path integer true "Entry index within the stream"
// @Param rating body object{rating=integer} true "Score between 1 and 5"
// @Param Authorization header string true "Bearer JWT token"
// @Success 201 {object} object{message=string}
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /game/rate/{id}/{stream}/{index} [post]
// @Security ApiKeyAuth
func SubmitRating(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := middleware.TokenClaims(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		key, ok := entryKeyParams(c)
		if !ok {
			return
		}
		var body ratingRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be a number between 1 and 5"})
			return
		}

		if err := ratings.SubmitRating(c.Request.Context(), db, claims.UUID, key, body.Rating); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "rated the entry"})
	}
}

// @Summary Replace a rating
// @Description Updates the authenticated account's existing rating of an entry in place
// @Tags game
// @Accept json
// @Produce json
// @Param id path integer true "Game ID"
// @Param stream path integer true "Stream index"
// @Param index path integer true "Entry index within the stream"
// @Param rating body object{rating=integer} true "New score between 1 and 5"
// @Param Authorization header string true "Bearer JWT token"
// @Success 204
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /game/rate/{id}/{stream}/{index} [put]
// @Security ApiKeyAuth
func ReplaceRating(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := middleware.TokenClaims(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		key, ok := entryKeyParams(c)
		if !ok {
			return
		}
		var body ratingRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be a number between 1 and 5"})
			return
		}

		if err := ratings.ReplaceRating(c.Request.Context(), db, claims.UUID, key, body.Rating); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary Delete a rating
// @Description Removes the authenticated account's rating of an entry and backs it out of the totals
// @Tags game
// @Produce json
// @Param id path integer true "Game ID"
// @Param stream path integer true "Stream index"
// @Param index path integer true "Entry index within the stream"
// @Param Authorization header string true "Bearer JWT token"
// @Success 204
// @Failure 404 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /game/rate/{id}/{stream}/{index} [delete]
// @Security ApiKeyAuth
func DeleteRating(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := middleware.TokenClaims(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		key, ok := entryKeyParams(c)
		if !ok {
			return
		}

		if err := ratings.DeleteRating(c.Request.Context(), db, claims.UUID, key); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
