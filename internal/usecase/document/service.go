package document

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/docchat/internal/domain"
	domdoc "github.com/kailas-cloud/docchat/internal/domain/document"
	"github.com/kailas-cloud/docchat/internal/transport/docservice"
)

// defaultMaxPages bounds ListAll so a misbehaving cursor cannot loop forever.
const defaultMaxPages = 64

// Service browses and uploads documents within a collection.
type Service struct {
	store    Store
	pageSize int
	maxPages int
}

// New creates a document service.
func New(store Store) *Service {
	return &Service{store: store, pageSize: domdoc.DefaultListLimit, maxPages: defaultMaxPages}
}

// WithPageSize configures the page limit used by ListAll.
func (s *Service) WithPageSize(n int) *Service {
	if n > 0 {
		s.pageSize = n
	}
	return s
}

// WithMaxPages configures the page bound of ListAll.
func (s *Service) WithMaxPages(n int) *Service {
	if n > 0 {
		s.maxPages = n
	}
	return s
}

// List returns one page of documents. Defaults: limit=1024, no prefix, no cursor.
func (s *Service) List(ctx context.Context, req domdoc.ListRequest) ([]domdoc.Document, error) {
	req.ApplyDefaults()
	if err := req.Validate(); err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	docs, err := s.store.ListDocuments(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// ListAll follows the path_gt cursor until a short page is returned.
func (s *Service) ListAll(ctx context.Context, collectionName, pathPrefix string) ([]domdoc.Document, error) {
	req := domdoc.ListRequest{CollectionName: collectionName, PathPrefix: pathPrefix, Limit: s.pageSize}
	var all []domdoc.Document

	for page := 0; page < s.maxPages; page++ {
		docs, err := s.List(ctx, req)
		if err != nil {
			return nil, err
		}
		all = append(all, docs...)
		if len(docs) < req.Limit || len(docs) == 0 {
			return all, nil
		}
		next := docs[len(docs)-1].Path
		if next <= req.PathGT {
			return nil, fmt.Errorf("list documents: cursor did not advance past %q", req.PathGT)
		}
		req.PathGT = next
	}
	return all, nil
}

// Add uploads a document. The returned status is 200 or 201 as answered by the service.
// Adding to an existing path without Overwrite is a rejection, never a success.
func (s *Service) Add(ctx context.Context, req domdoc.AddRequest) (docservice.AddResult, error) {
	req.ApplyDefaults()
	if err := req.Validate(); err != nil {
		return docservice.AddResult{}, domain.NewValidationError(err.Error())
	}

	res, err := s.store.AddDocument(ctx, req)
	if err != nil {
		return docservice.AddResult{}, fmt.Errorf("add document %q: %w", req.Path, err)
	}
	return res, nil
}

// Status looks up the indexing status of the document at path.
func (s *Service) Status(ctx context.Context, collectionName, path string) (domdoc.IndexStatus, error) {
	if path == "" {
		return "", domain.NewValidationError("path is required")
	}

	docs, err := s.List(ctx, domdoc.ListRequest{CollectionName: collectionName, PathPrefix: path, Limit: 16})
	if err != nil {
		return "", err
	}
	for _, d := range docs {
		if d.Path == path {
			return d.IndexStatus, nil
		}
	}
	return "", domain.NewRejected(404, fmt.Sprintf("document %q not found", path))
}
