package rooms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	redis_models "Scrawl/models/redis"
	"Scrawl/services/apperr"

	"github.com/redis/go-redis/v9"
)

// Room documents are registered by the realtime game servers under
// "room:{id}"; this backend reads them for the discovery endpoints and
// never writes.

// RoomsClient handles room directory lookups.
type RoomsClient struct {
	client *redis.Client
	ctx    context.Context
}

// NewRoomsClient creates a new room directory client.
func NewRoomsClient(addr string, db int) *RoomsClient {
	var client *redis.Client
	if addr != "localhost:6379" {
		log.Println("Connecting to remote room directory...")
		opt, err := redis.ParseURL(addr)
		if err != nil {
			panic("Error parsing room directory URL")
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr: addr,
			DB:   db,
		})
	}
	return &RoomsClient{
		client: client,
		ctx:    context.Background(),
	}
}

func formatRoomKey(roomID string) string {
	return fmt.Sprintf("room:%s", roomID)
}

// GetRoom retrieves one public room by id.
func (rc *RoomsClient) GetRoom(roomID string) (*redis_models.Room, error) {
	data, err := rc.client.Get(rc.ctx, formatRoomKey(roomID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("no room with that ID exists")
		}
		return nil, fmt.Errorf("error getting room data: %v", err)
	}

	var room redis_models.Room
	if err := json.Unmarshal(data, &room); err != nil {
		return nil, fmt.Errorf("error unmarshaling room data: %v", err)
	}
	if room.Private {
		return nil, apperr.NotFound("no room with that ID exists")
	}
	// never leak the join key on the public lookup
	room.PrivateKey = ""
	return &room, nil
}

// ListPublicRooms scans the directory for every public room.
func (rc *RoomsClient) ListPublicRooms() ([]redis_models.Room, error) {
	rooms := []redis_models.Room{}

	iter := rc.client.Scan(rc.ctx, 0, "room:*", 100).Iterator()
	for iter.Next(rc.ctx) {
		data, err := rc.client.Get(rc.ctx, iter.Val()).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue // expired between scan and get
			}
			return nil, fmt.Errorf("error getting room data: %v", err)
		}

		var room redis_models.Room
		if err := json.Unmarshal(data, &room); err != nil {
			log.Printf("Skipping malformed room document at %s: %v", iter.Val(), err)
			continue
		}
		if room.Private {
			continue
		}
		room.PrivateKey = ""
		rooms = append(rooms, room)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("error scanning room directory: %v", err)
	}
	return rooms, nil
}

// FindPrivateRoom looks a private room up by its join key.
func (rc *RoomsClient) FindPrivateRoom(privateKey string) (*redis_models.Room, error) {
	iter := rc.client.Scan(rc.ctx, 0, "room:*", 100).Iterator()
	for iter.Next(rc.ctx) {
		data, err := rc.client.Get(rc.ctx, iter.Val()).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return nil, fmt.Errorf("error getting room data: %v", err)
		}

		var room redis_models.Room
		if err := json.Unmarshal(data, &room); err != nil {
			continue
		}
		if room.Private && room.PrivateKey == privateKey {
			return &room, nil
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("error scanning room directory: %v", err)
	}
	return nil, apperr.NotFound("no room with that key exists")
}
