package routes

import (
	"Scrawl/controllers"
	"Scrawl/middleware"
	"Scrawl/services/rooms"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, db *gorm.DB, roomsClient *rooms.RoomsClient) {
	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/")

	api.GET("/ping", controllers.Ping)

	api.POST("/login", controllers.Login(db))

	// the verification link arrives by email, so it stays unauthenticated
	api.GET("/verification/:address", controllers.ConsumeVerification(db))

	// room discovery, read-only out of the room directory
	roomsGroup := api.Group("/rooms")
	{
		roomsGroup.GET("", controllers.ListRooms(roomsClient))
		roomsGroup.GET("/:id", controllers.GetRoom(roomsClient))
		roomsGroup.GET("/private/:key", controllers.GetPrivateRoom(roomsClient))
	}

	account := api.Group("/account")
	{
		account.POST("", controllers.RegisterAccount(db))

		account.GET("/:uuid", controllers.GetAccountShortened(db))
		account.GET("/:uuid/profile", controllers.GetAccountStatistics(db))
		account.GET("/:uuid/friends", controllers.ListFriends(db))
		account.GET("/search/:name", controllers.SearchAccountsByName(db))

		// everything below acts on someone's account, so it needs a token
		// plus ownership of the :uuid in the path
		owned := account.Group("")
		owned.Use(middleware.VerifyJWT, middleware.RequireOwner)
		{
			owned.GET("/:uuid/profile/settings", controllers.GetAccountPersonalInfo(db))
			owned.PUT("/:uuid/profile/settings", controllers.UpdateAccountSettings(db))
			owned.DELETE("/:uuid", controllers.DeleteAccount(db))

			owned.GET("/:uuid/friends/pending", controllers.ListPendingFriendships(db))
			owned.GET("/:uuid/blocks", controllers.ListBlocked(db))

			// relationship mutations additionally require a verified email
			verified := owned.Group("")
			verified.Use(middleware.RequireVerified)
			{
				verified.POST("/:uuid/friends/:uuid2", controllers.RequestFriendship(db))
				verified.DELETE("/:uuid/friends/:uuid2", controllers.RemoveFriendship(db))
				verified.POST("/:uuid/friends/:uuid2/pending", controllers.AcceptFriendship(db))
				verified.DELETE("/:uuid/friends/:uuid2/pending", controllers.DeclineFriendship(db))
				verified.POST("/:uuid/blocks/:uuid2", controllers.CreateBlock(db))
				verified.DELETE("/:uuid/blocks/:uuid2", controllers.RemoveBlock(db))
			}
		}
	}

	game := api.Group("/game")
	{
		game.GET("", controllers.GetMostRecentGame(db))
		game.GET("/page/:page", controllers.GetRecentGames(db))
		game.GET("/drawing/:id", controllers.GetFirstDrawing(db))
		game.GET("/:id", controllers.GetGameDetails(db))
		game.GET("/account/recent/:uuid", controllers.GetRecentAccountEntries(db))

		game.GET("/account/ratings/:uuid/:id",
			middleware.VerifyJWT, middleware.RequireOwner, controllers.GetPersonalRatings(db))

		// the rater comes from the token subject, not the URL
		rate := game.Group("/rate")
		rate.Use(middleware.VerifyJWT, middleware.RequireVerified)
		{
			rate.POST("/:id/:stream/:index", controllers.SubmitRating(db))
			rate.PUT("/:id/:stream/:index", controllers.ReplaceRating(db))
			rate.DELETE("/:id/:stream/:index", controllers.DeleteRating(db))
		}
	}
}
