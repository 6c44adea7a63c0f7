package ports

import (
	"context"

	"github.com/sawa-shop/storefront-service/internal/domain/catalog"
)

// TagBackend resolves a batch of tag ids in one upstream call. Unknown
// ids are simply absent from the result.
type TagBackend interface {
	BatchResolveTags(ctx context.Context, tagIDs []string) ([]*catalog.Tag, error)
}
