package controllers

import (
	"errors"
	"net/http"
	"strconv"

	game_constants "Scrawl/constants/game"
	models "Scrawl/models/postgres"
	"Scrawl/services/ratings"
	"Scrawl/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// @Summary Get the most recent archived game
// @Description Returns the newest broken telephone game in the archive
// @Tags game
// @Produce json
// @Success 200 {object} object{game_id=integer}
// @Failure 404 {object} object{error=string}
// @Router /game [get]
func GetMostRecentGame(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var game models.BrokenTelephoneGame
		err := db.WithContext(c.Request.Context()).
			Order("game_id DESC").
			First(&game).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "cannot find any more recent games"})
				return
			}
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, game)
	}
}

// @Summary Get a page of recent games
// @Description Returns up to 10 archived games per page, newest first
// @Tags game
// @Produce json
// @Param page path integer true "Page number, starting at 0"
// @Success 200 {array} object{game_id=integer}
// @Failure 404 {object} object{error=string}
// @Router /game/page/{page} [get]
func GetRecentGames(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := strconv.Atoi(c.Param("page"))
		if err != nil || page < 0 {
			page = 0
		}

		var games []models.BrokenTelephoneGame
		err = db.WithContext(c.Request.Context()).
			Order("game_id DESC").
			Limit(game_constants.GamesPerPage).
			Offset(game_constants.GamesPerPage * page).
			Find(&games).Error
		if err != nil {
			respondError(c, err)
			return
		}
		if len(games) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "cannot find any more recent games"})
			return
		}
		c.JSON(http.StatusOK, games)
	}
}

// @Summary Get the full entry list of a game
// @Description Returns every entry of one archived game, ordered by stream and index
// @Tags game
// @Produce json
// @Param id path integer true "Game ID"
// @Success 200 {array} object{game_id=integer,stream=integer,index=integer}
// @Failure 404 {object} object{error=string}
// @Router /game/{id} [get]
func GetGameDetails(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		gameID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "game id must be a positive integer"})
			return
		}

		var entries []models.BrokenTelephoneEntry
		err = db.WithContext(c.Request.Context()).
			Where("game_id = ?", uint(gameID)).
			Order("stream, index").
			Find(&entries).Error
		if err != nil {
			respondError(c, err)
			return
		}
		if len(entries) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "no game with that ID exists"})
			return
		}
		c.JSON(http.StatusOK, entries)
	}
}

// @Summary Get the first drawing of a game
// @Description Returns the earliest image entry of a game, for archive previews
// @Tags game
// @Produce json
// @Param id path integer true "Game ID"
// @Success 200 {object} object{game_id=integer,stream=integer,index=integer}
// @Failure 404 {object} object{error=string}
// @Router /game/drawing/{id} [get]
func GetFirstDrawing(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		gameID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "game id must be a positive integer"})
			return
		}

		var entry models.BrokenTelephoneEntry
		err = db.WithContext(c.Request.Context()).
			Where("game_id = ? AND content_type = ?", uint(gameID), models.ContentTypeImage).
			Order("stream, index").
			First(&entry).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "no drawing exists for that game"})
				return
			}
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, entry)
	}
}

// @Summary Get an account's recent entries
// @Description Returns the newest contributions an account made across all games
// @Tags game
// @Produce json
// @Param uuid path string true "Account UUID"
// @Success 200 {array} object{game_id=integer,stream=integer,index=integer}
// @Failure 404 {object} object{error=string}
// @Router /game/account/recent/{uuid} [get]
func GetRecentAccountEntries(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountUUID := c.Param("uuid")
		if !utils.ValidUUID(accountUUID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "the path parameter must be a valid UUID"})
			return
		}

		var entries []models.BrokenTelephoneEntry
		err := db.WithContext(c.Request.Context()).
			Where("account_uuid = ?", accountUUID).
			Order("game_id DESC").
			Limit(game_constants.RecentEntriesLimit).
			Find(&entries).Error
		if err != nil {
			respondError(c, err)
			return
		}
		if len(entries) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "that account has no entries"})
			return
		}
		c.JSON(http.StatusOK, entries)
	}
}

// @Summary Get an account's ratings within one game
// @Description Returns the scores the account gave inside the game; scoped to the owner
// @Tags game
// @Produce json
// @Param uuid path string true "Account UUID"
// @Param id path integer true "Game ID"
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {array} object{entry_stream=integer,entry_index=integer,rating=integer}
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /game/account/ratings/{uuid}/{id} [get]
// @Security ApiKeyAuth
func GetPersonalRatings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountUUID := c.Param("uuid")
		if !utils.ValidUUID(accountUUID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "the path parameter must be a valid UUID"})
			return
		}
		gameID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "game id must be a positive integer"})
			return
		}

		personal, err := ratings.PersonalRatings(c.Request.Context(), db, accountUUID, uint(gameID))
		if err != nil {
			respondError(c, err)
			return
		}

		results := make([]gin.H, len(personal))
		for i, r := range personal {
			results[i] = gin.H{
				"entry_stream": r.EntryStream,
				"entry_index":  r.EntryIndex,
				"rating":       r.Rating,
			}
		}
		c.JSON(http.StatusOK, results)
	}
}
