package models

import "time"

// Room is an ephemeral 1:1 session. It is created with exactly two members;
// membership can shrink when a peer leaves but never grows.
type Room struct {
	RoomID    string    `json:"roomId"`
	Members   []string  `json:"members"`
	CreatedAt time.Time `json:"createdAt"`
}
