package league

import "context"

// Repository describes league lookups needed by use cases.
type Repository interface {
	List(ctx context.Context) ([]League, error)
	GetByCode(ctx context.Context, code string) (League, bool, error)
}
