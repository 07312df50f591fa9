package pkg

import "github.com/google/uuid"

// GenerateSessionID returns a fresh opaque identifier binding a client to
// one game instance across requests.
func GenerateSessionID() string {
	return uuid.NewString()
}
