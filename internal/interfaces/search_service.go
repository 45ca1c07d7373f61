package interfaces

import (
	"context"

	"github.com/ternarybob/reperio/internal/models"
)

// SearchService is the single operation the pipeline exposes upward:
// synchronous from the caller's perspective, internally concurrent.
// Per-source failures never fail the call; only context cancellation or
// an invalid request produce an error.
type SearchService interface {
	Search(ctx context.Context, req models.SearchRequest) (*models.SearchResult, error)
}
