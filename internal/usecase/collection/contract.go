package collection

import (
	"context"

	domcol "github.com/kailas-cloud/docchat/internal/domain/collection"
	"github.com/kailas-cloud/docchat/internal/domain/document"
)

// Lister reads the collection list from the document service.
type Lister interface {
	ListCollections(ctx context.Context) ([]domcol.Collection, error)
}

// DocumentLister reads one page of documents in a collection.
type DocumentLister interface {
	ListDocuments(ctx context.Context, req document.ListRequest) ([]document.Document, error)
}
