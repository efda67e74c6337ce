package fixture

import "context"

// Repository exposes fixture read operations. The core never mutates
// fixtures; the backing source reloads wholesale when the feed changes.
type Repository interface {
	ListAll(ctx context.Context) ([]Fixture, error)
	ListByLeague(ctx context.Context, league string) ([]Fixture, error)
}
