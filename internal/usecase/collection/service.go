package collection

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/docchat/internal/domain"
	domcol "github.com/kailas-cloud/docchat/internal/domain/collection"
	"github.com/kailas-cloud/docchat/internal/domain/document"
)

// Service exposes collections fetched fresh from the document service on every call.
type Service struct {
	lister Lister
	docs   DocumentLister
}

// New creates a collection service.
func New(lister Lister, docs DocumentLister) *Service {
	return &Service{lister: lister, docs: docs}
}

// List returns all collections in server order, each with an empty document list.
func (s *Service) List(ctx context.Context) ([]domcol.Collection, error) {
	cols, err := s.lister.ListCollections(ctx)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return cols, nil
}

// Get returns one collection with the first page of its documents.
func (s *Service) Get(ctx context.Context, name string) (domcol.Collection, error) {
	if strings.TrimSpace(name) == "" {
		return domcol.Collection{}, domain.NewValidationError("collection_name is required")
	}

	req := document.ListRequest{CollectionName: name}
	req.ApplyDefaults()
	docs, err := s.docs.ListDocuments(ctx, req)
	if err != nil {
		return domcol.Collection{}, fmt.Errorf("list documents: %w", err)
	}
	return domcol.Reconstruct(name, docs), nil
}
