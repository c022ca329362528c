package ports

import "context"

// Serializer runs fn so that no two functions submitted under the same key
// execute concurrently.
type Serializer interface {
	Do(ctx context.Context, key string, fn func(ctx context.Context) error) error
}
