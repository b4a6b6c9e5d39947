package domain

import "time"

// RoomInfo is a room as presented on the API surface.
type RoomInfo struct {
	Code      string    `json:"code"`
	Live      bool      `json:"live"`
	Viewers   int       `json:"viewers"`
	CreatedAt time.Time `json:"created_at"`
}
