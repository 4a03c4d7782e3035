// Package service defines the interfaces shared between the engine and its collaborators.
package service

import "context"

// PatternStore defines the contract for the persistent learning store.
type PatternStore interface {
	// Learned mappings
	Lookup(pattern string) (string, bool)
	Learn(ctx context.Context, pattern, code string) error
	Mappings() map[string]string

	// Counters
	RecordUsage(ctx context.Context, code string) error
	Confidence(code string) int
	Usage(code string) int

	// Unknown patterns seen in this process
	MarkUnknown(pattern string)
	Unknowns() []string

	// Custom catalog codes
	Codes() []string
	AddCode(ctx context.Context, code string) error

	// Persistence
	Load(ctx context.Context) error
	Save(ctx context.Context) error
}

// StoreStats summarises the contents of a learning store.
type StoreStats struct {
	Patterns    int
	Codes       int
	Unknowns    int
	CustomCodes int
	TotalUsage  int
}
