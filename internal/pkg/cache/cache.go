// Package cache is a small key/value cache used in front of the rule stores.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Cache defines the interface for caching operations.
type Cache interface {
	// Get retrieves a value from the cache.
	// Returns the value and a boolean indicating whether the key was found.
	Get(ctx context.Context, key string) (any, bool)

	// Set adds a value to the cache with the specified expiration.
	// A zero expiration uses the cache default.
	Set(ctx context.Context, key string, value any, expiration time.Duration)

	// Delete removes a key from the cache.
	Delete(ctx context.Context, key string)

	// DeleteByPrefix removes all keys with the given prefix.
	DeleteByPrefix(ctx context.Context, prefix string)

	// Flush removes all items from the cache.
	Flush(ctx context.Context)
}

// Key prefixes for cached pricing data.
const (
	PrefixMealPrices    = "meal_prices:v1"
	PrefixDiscountRules = "discount_rules:v1"
)

// GenerateKey creates a cache key from a prefix and a set of parameters
// joined with colons.
func GenerateKey(prefix string, params ...any) string {
	parts := make([]string, len(params)+1)
	parts[0] = prefix

	for i, param := range params {
		parts[i+1] = fmt.Sprintf("%v", param)
	}

	return strings.Join(parts, ":")
}
