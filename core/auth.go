package core

import "time"

// Challenge represents a pending wallet sign-in round-trip
type Challenge struct {
	ID        string    // Unique identifier for the challenge
	NetworkID string    // Network the sign-in was requested on
	IssuedAt  time.Time // When the challenge was created
	ExpiresAt time.Time // When the challenge expires
}

// AuthData is what the wallet hands back after a successful sign-in
type AuthData struct {
	AccountID string   `json:"accountId,omitempty"`
	AllKeys   []string `json:"allKeys,omitempty"`
}

// SessionStatus is the persisted view of the user's wallet session
type SessionStatus struct {
	IsSignedIn bool      `json:"isSignedIn"`
	AccountID  string    `json:"accountId,omitempty"`
	Balance    string    `json:"balance,omitempty"`
	AllKeys    []string  `json:"allKeys,omitempty"`
	UpdatedAt  time.Time `json:"updatedAt,omitempty"`
}
