package controllers

import (
	"net/http"

	"Scrawl/services/relationships"
	"Scrawl/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// @Summary Get a list of an account's friends
// @Description Returns the UUIDs of every friend of the account
// @Tags friends
// @Produce json
// @Param uuid path string true "Account UUID"
// @Success 200 {array} string
// @Failure 404 {object} object{error=string}
// @Router /account/{uuid}/friends [get]
func ListFriends(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountUUID := c.Param("uuid")
		if !utils.ValidUUID(accountUUID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "the path parameter must be a valid UUID"})
			return
		}

		friends, err := relationships.ListFriends(c.Request.Context(), db, accountUUID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, friends)
	}
}

// @Summary Get an account's unresolved friend requests
// @Description Returns every pending request the account is part of, on either side
// @Tags friends
// @Produce json
// @Param uuid path string true "Account UUID"
// @Success 200 {array} object{uuid=string,incoming=boolean}
// @Failure 404 {object} object{error=string}
// @Router /account/{uuid}/friends/pending [get]
func ListPendingFriendships(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountUUID := c.Param("uuid")
		if !utils.ValidUUID(accountUUID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "the path parameter must be a valid UUID"})
			return
		}

		pending, err := relationships.ListPending(c.Request.Context(), db, accountUUID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, pending)
	}
}

// @Summary Send a friend request
// @Description Creates a pending friendship from the first account to the second
// @Tags friends
// @Produce json
// @Param uuid path string true "Sender account UUID"
// @Param uuid2 path string true "Receiver account UUID"
// @Param Authorization header string true "Bearer JWT token"
// @Success 201 {object} object{message=string}
// @Failure 400 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /account/{uuid}/friends/{uuid2} [post]
// @Security ApiKeyAuth
func RequestFriendship(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sender, receiver, ok := pairParams(c)
		if !ok {
			return
		}

		if err := relationships.RequestFriendship(c.Request.Context(), db, sender, receiver); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "created a friendship request"})
	}
}

// @Summary Accept a friend request
// @Description Converts a pending request sent by the second account into a friendship
// @Tags friends
// @Produce json
// @Param uuid path string true "Acceptor account UUID"
// @Param uuid2 path string true "Original sender account UUID"
// @Param Authorization header string true "Bearer JWT token"
// @Success 201 {object} object{message=string}
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /account/{uuid}/friends/{uuid2}/pending [post]
// @Security ApiKeyAuth
func AcceptFriendship(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		acceptor, sender, ok := pairParams(c)
		if !ok {
			return
		}

		if err := relationships.AcceptFriendship(c.Request.Context(), db, acceptor, sender); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "created a friendship"})
	}
}

// @Summary Decline a friend request
// @Description Deletes a pending request sent by the second account without creating a friendship
// @Tags friends
// @Produce json
// @Param uuid path string true "Decliner account UUID"
// @Param uuid2 path string true "Original sender account UUID"
// @Param Authorization header string true "Bearer JWT token"
// @Success 204
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /account/{uuid}/friends/{uuid2}/pending [delete]
// @Security ApiKeyAuth
func DeclineFriendship(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		decliner, sender, ok := pairParams(c)
		if !ok {
			return
		}

		if err := relationships.DeclineFriendship(c.Request.Context(), db, decliner, sender); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary Remove a friend
// @Description Deletes the friendship between the two accounts, from either side
// @Tags friends
// @Produce json
// @Param uuid path string true "Account UUID"
// @Param uuid2 path string true "Friend account UUID"
// @Param Authorization header string true "Bearer JWT token"
// @Success 204
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /account/{uuid}/friends/{uuid2} [delete]
// @Security ApiKeyAuth
func RemoveFriendship(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		account, friend, ok := pairParams(c)
		if !ok {
			return
		}

		if err := relationships.RemoveFriendship(c.Request.Context(), db, account, friend); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
