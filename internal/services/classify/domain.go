// Package classify decides which answer path a question belongs to: the
// deterministic gate first, the letter classifier only when the gate cannot
package classify

import (
	"context"

	"shopkeeper/internal/oracle"
)

// Category is the routing label for a question
type Category string

const (
	CategoryStartup Category = "startup"
	CategoryPolicy  Category = "policy"
	CategoryTrend   Category = "trend"
	CategoryUnknown Category = "unknown"
)

// ParseCategory maps a wire value to a Category, unknown on anything else
func ParseCategory(s string) Category {
	switch Category(s) {
	case CategoryStartup, CategoryPolicy, CategoryTrend:
		return Category(s)
	default:
		return CategoryUnknown
	}
}

// Generator is the generation oracle port
type Generator interface {
	Generate(ctx context.Context, messages []oracle.Message, maxTokens int, deterministic bool) (string, error)
}
