package util

import (
	"github.com/google/uuid"
)

// NewEventID returns a random UUID for outgoing events. It falls back to
// uuid.Nil's string form only if the system entropy source fails.
func NewEventID() string {
	id, err := uuid.NewRandom()
	if err != nil {
		return uuid.Nil.String()
	}
	return id.String()
}
