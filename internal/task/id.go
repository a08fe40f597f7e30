package task

import "github.com/google/uuid"

// NewID returns a UUIDv7: a millisecond timestamp followed by random bits,
// so IDs are unique within a session and sort roughly by creation time.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
