package controllers

import (
	"net/http"

	"Scrawl/services/rooms"

	"github.com/gin-gonic/gin"
)

// @Summary List active public rooms
// @Description Returns every public room currently registered in the room directory
// @Tags rooms
// @Produce json
// @Success 200 {array} object{room_id=string,room_name=string,host_name=string,current_count=integer,max_players=integer}
// @Failure 404 {object} object{error=string}
// @Router /rooms [get]
func ListRooms(rc *rooms.RoomsClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := rc.ListPublicRooms()
		if err != nil {
			respondError(c, err)
			return
		}
		if len(list) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "did not find any active public rooms"})
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// @Summary Get one public room
// @Description Returns the details of a public room by id
// @Tags rooms
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} object{room_id=string,room_name=string,host_name=string,current_count=integer,max_players=integer}
// @Failure 404 {object} object{error=string}
// @Router /rooms/{id} [get]
func GetRoom(rc *rooms.RoomsClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		room, err := rc.GetRoom(c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, room)
	}
}

// @Summary Get a private room by its join key
// @Description Looks up a private room using the key shared out of band
// @Tags rooms
// @Produce json
// @Param key path string true "Private room key"
// @Success 200 {object} object{room_id=string,room_name=string,host_name=string,current_count=integer,max_players=integer}
// @Failure 404 {object} object{error=string}
// @Router /rooms/private/{key} [get]
func GetPrivateRoom(rc *rooms.RoomsClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		room, err := rc.FindPrivateRoom(c.Param("key"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, room)
	}
}
