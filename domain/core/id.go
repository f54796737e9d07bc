package core

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ID is a unique identifier for domain entities
type ID string

// ReportID identifies one generated analysis report
type ReportID = ID

// NewID generates a new unique identifier
func NewID() ID {
	return ID(uuid.New().String())
}

func (id ID) String() string {
	return string(id)
}

func (id ID) IsEmpty() bool {
	return strings.TrimSpace(string(id)) == ""
}

// Now returns the current time in UTC, truncated to milliseconds for
// stable serialization
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
