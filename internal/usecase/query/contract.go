package query

import (
	"context"

	"github.com/kailas-cloud/docchat/internal/domain/search/request"
	"github.com/kailas-cloud/docchat/internal/domain/search/result"
)

// Ranker ranks the documents of a single collection.
type Ranker interface {
	TopDocuments(ctx context.Context, req *request.TopDocuments) ([]result.Hit, error)
}
