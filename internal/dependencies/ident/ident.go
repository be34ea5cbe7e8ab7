package ident

import "github.com/google/uuid"

// Generator produces unique opaque identifiers
type Generator interface {
	// NewID returns a new id of the form "<prefix>_<unique>"
	NewID(prefix string) string
}

// UUIDGenerator produces ids from time-ordered UUIDv7 values
type UUIDGenerator struct{}

// New creates a new UUIDGenerator
func New() *UUIDGenerator {
	return &UUIDGenerator{}
}

// NewID returns prefix joined to a fresh UUIDv7
func (g *UUIDGenerator) NewID(prefix string) string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	if prefix == "" {
		return id.String()
	}
	return prefix + "_" + id.String()
}
