package controllers

import (
	"net/http"
	"net/mail"

	game_constants "Scrawl/constants/game"
	models "Scrawl/models/postgres"
	"Scrawl/services/accounts"
	"Scrawl/services/verification"
	"Scrawl/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type registerRequest struct {
	Email    string `json:"email" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type settingsRequest struct {
	Email    *string `json:"email"`
	Name     *string `json:"name"`
	About    *string `json:"about"`
	Password *string `json:"password"`
}

// @Summary Register a new account
// @Description Creates an unverified account and issues an email verification
// @Tags account
// @Accept json
// @Produce json
// @Param account body object{email=string,name=string,password=string} true "New account data"
// @Success 201 {object} object{message=string,uuid=string}
// @Failure 400 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /account [post]
func RegisterAccount(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body registerRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email, name and password are all required"})
			return
		}
		if _, err := mail.ParseAddress(body.Email); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email address is not valid"})
			return
		}

		account, err := accounts.Register(c.Request.Context(), db, body.Email, body.Name, body.Password)
		if err != nil {
			respondError(c, err)
			return
		}

		address, err := verification.Issue(c.Request.Context(), db, account.UUID)
		if err != nil {
			respondError(c, err)
			return
		}

		// TODO: hand the address to the mailer instead of echoing it once
		// the SMTP relay is provisioned
		c.JSON(http.StatusCreated, gin.H{
			"message":      "registration succeeded, please verify your email",
			"uuid":         account.UUID,
			"verification": address,
		})
	}
}

// @Summary Get an account's shortened public info
// @Description Returns the minimal subset used in server and friend listings
// @Tags account
// @Produce json
// @Param uuid path string true "Account UUID"
// @Success 200 {object} object{name=string,type=integer}
// @Failure 404 {object} object{error=string}
// @Router /account/{uuid} [get]
func GetAccountShortened(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		account, err := utils.FindAccount(db.WithContext(c.Request.Context()), c.Param("uuid"))
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"name": account.Name,
			"type": account.UserType,
		})
	}
}

// @Summary Get an account's public profile statistics
// @Description Returns the data shown on the public profile page
// @Tags account
// @Produce json
// @Param uuid path string true "Account UUID"
// @Success 200 {object} object{name=string,about=string,games_played=integer,total_rating=integer,total_friends=integer}
// @Failure 404 {object} object{error=string}
// @Router /account/{uuid}/profile [get]
func GetAccountStatistics(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		account, err := utils.FindAccount(db.WithContext(c.Request.Context()), c.Param("uuid"))
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"name":           account.Name,
			"type":           account.UserType,
			"about":          account.About,
			"date_generated": account.DateGenerated,
			"games_played":   counterValue(account.GamesPlayed),
			"total_rating":   counterValue(account.TotalRating),
			"total_friends":  counterValue(account.TotalFriends),
		})
	}
}

// @Summary Get an account's private settings info
// @Description Returns private data for the owner's settings page
// @Tags account
// @Produce json
// @Param uuid path string true "Account UUID"
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {object} object{email=string}
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /account/{uuid}/profile/settings [get]
// @Security ApiKeyAuth
func GetAccountPersonalInfo(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		account, err := utils.FindAccount(db.WithContext(c.Request.Context()), c.Param("uuid"))
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"email": account.Email})
	}
}

// @Summary Search accounts by name
// @Description Returns up to 10 accounts whose names contain the search term
// @Tags account
// @Produce json
// @Param name path string true "Name fragment"
// @Success 200 {array} object{uuid=string,name=string}
// @Failure 404 {object} object{error=string}
// @Router /account/search/{name} [get]
func SearchAccountsByName(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var matches []models.Account
		err := db.WithContext(c.Request.Context()).
			Select("uuid", "name").
			Where("name ILIKE ?", "%"+c.Param("name")+"%").
			Limit(game_constants.MaxSearchResults).
			Find(&matches).Error
		if err != nil {
			respondError(c, err)
			return
		}
		if len(matches) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "cannot find any accounts with that name"})
			return
		}

		results := make([]gin.H, len(matches))
		for i, account := range matches {
			results[i] = gin.H{"uuid": account.UUID, "name": account.Name}
		}
		c.JSON(http.StatusOK, results)
	}
}

// @Summary Change an account's settings
// @Description Applies a settings change; an email change issues a new verification and defers everything else
// @Tags account
// @Accept json
// @Produce json
// @Param uuid path string true "Account UUID"
// @Param Authorization header string true "Bearer JWT token"
// @Param settings body object{email=string,name=string,about=string,password=string} false "Settings to change"
// @Success 200 {object} object{message=string}
// @Success 204
// @Failure 400 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /account/{uuid}/profile/settings [put]
// @Security ApiKeyAuth
func UpdateAccountSettings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body settingsRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed settings body"})
			return
		}
		if body.Email != nil {
			if _, err := mail.ParseAddress(*body.Email); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "email address is not valid"})
				return
			}
		}

		accountUUID := c.Param("uuid")
		change := accounts.SettingsChange{
			Email:    body.Email,
			Name:     body.Name,
			About:    body.About,
			Password: body.Password,
		}

		if err := accounts.UpdateSettings(c.Request.Context(), db, accountUUID, change); err != nil {
			respondError(c, err)
			return
		}

		if change.EmailChanged() {
			address, err := verification.Issue(c.Request.Context(), db, accountUUID)
			if err != nil {
				respondError(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{
				"message":      "changed email; no other settings are changed until the new address is verified",
				"verification": address,
			})
			return
		}

		c.Status(http.StatusNoContent)
	}
}

// @Summary Delete an account
// @Description Removes the account; archived entries keep working with the contributor nullified
// @Tags account
// @Produce json
// @Param uuid path string true "Account UUID"
// @Param Authorization header string true "Bearer JWT token"
// @Success 204
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /account/{uuid} [delete]
// @Security ApiKeyAuth
func DeleteAccount(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := accounts.Delete(c.Request.Context(), db, c.Param("uuid")); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func counterValue(counter *int) int {
	if counter == nil {
		return 0
	}
	return *counter
}
