// Package model defines the persisted entities of the service.
package model

import (
	"time"

	"github.com/lexel/strdb/internal/analyzer"
)

// StringRecord is a submitted string together with its derived properties.
// Records are content-addressed: ID is the SHA-256 hex digest of Value,
// equals Properties.ContentHash, and never changes after creation. Two
// submissions of the same value collide on ID, which is the dedup mechanism.
type StringRecord struct {
	ID         string                  `json:"id"`
	Value      string                  `json:"value"`
	Properties analyzer.PropertyBundle `json:"properties"`
	CreatedAt  time.Time               `json:"created_at"`
}

// NewStringRecord analyzes value and builds the record for it.
func NewStringRecord(value string) *StringRecord {
	props := analyzer.Analyze(value)
	return &StringRecord{
		ID:         props.ContentHash,
		Value:      value,
		Properties: props,
		CreatedAt:  time.Now().UTC(),
	}
}
