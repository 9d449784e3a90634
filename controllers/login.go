package controllers

import (
	"net/http"
	"strings"

	"Scrawl/middleware"
	"Scrawl/services/accounts"
	"Scrawl/services/apperr"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// @Summary Log into an existing account
// @Description Exchanges valid credentials for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body object{email=string,password=string} true "Account credentials"
// @Success 201 {object} object{accessToken=string}
// @Failure 400 {object} object{error=string}
// @Failure 401 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /login [post]
func Login(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body loginRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "you must provide both an email and password"})
			return
		}

		// minimum input sanitizing
		if strings.TrimSpace(body.Email) == "" || strings.TrimSpace(body.Password) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "you must provide both an email and password"})
			return
		}

		account, err := accounts.CheckCredentials(c.Request.Context(), db, body.Email, body.Password)
		if err != nil {
			// only rejected credentials become a 401; a database fault
			// must not look like a wrong password
			if apperr.Is(err, apperr.KindForbidden) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
				return
			}
			respondError(c, err)
			return
		}

		token, err := middleware.CreateAccessToken(account)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"accessToken": token})
	}
}
