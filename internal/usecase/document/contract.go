package document

import (
	"context"

	domdoc "github.com/kailas-cloud/docchat/internal/domain/document"
	"github.com/kailas-cloud/docchat/internal/transport/docservice"
)

// Store is the document side of the document service.
type Store interface {
	ListDocuments(ctx context.Context, req domdoc.ListRequest) ([]domdoc.Document, error)
	AddDocument(ctx context.Context, req domdoc.AddRequest) (docservice.AddResult, error)
}
