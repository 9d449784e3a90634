package redis

// Room is an ephemeral game room document kept in the room directory.
// Rooms are registered by the realtime game servers; this backend only
// reads them for discovery.
type Room struct {
	RoomID       string `json:"room_id"`
	RoomName     string `json:"room_name"`
	HostName     string `json:"host_name"`
	CurrentCount int    `json:"current_count"`
	MaxPlayers   int    `json:"max_players"`
	Private      bool   `json:"private"`
	PrivateKey   string `json:"private_key,omitempty"`
}
