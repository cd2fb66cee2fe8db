package models

import "time"

// LiveSession tracks one live compute connection.
type LiveSession struct {
	ID           string    `json:"id"`
	Generation   uint64    `json:"generation"` // latest generation requested by the client
	Requests     int       `json:"requests"`
	Superseded   int       `json:"superseded"`
	StartedAt    time.Time `json:"startedAt"`
	LastAccessed time.Time `json:"lastAccessed"`
}

// NewLiveSession creates a session with no requests yet.
func NewLiveSession(id string) *LiveSession {
	now := time.Now()
	return &LiveSession{
		ID:           id,
		StartedAt:    now,
		LastAccessed: now,
	}
}
