package rooms

import (
	"fmt"
	"log"
)

// InitRooms initializes the room directory connection and verifies it.
func InitRooms(addr string, db int) (*RoomsClient, error) {
	rc := NewRoomsClient(addr, db)

	err := rc.client.Ping(rc.ctx).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to room directory: %v", err)
	}

	log.Println("Successfully connected to room directory")
	return rc, nil
}

// CloseRooms gracefully closes the room directory connection.
func CloseRooms(rc *RoomsClient) error {
	if err := rc.client.Close(); err != nil {
		return fmt.Errorf("error closing room directory connection: %v", err)
	}
	return nil
}
