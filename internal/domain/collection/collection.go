package collection

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/docchat/internal/domain/document"
)

// Collection is a named group of indexed documents (immutable value object).
type Collection struct {
	name      string
	documents []document.Document
}

// New validates the name and creates a Collection with no documents.
func New(name string) (Collection, error) {
	if strings.TrimSpace(name) == "" {
		return Collection{}, fmt.Errorf("collection name is required")
	}
	return Collection{name: name, documents: []document.Document{}}, nil
}

// Reconstruct creates a Collection without validation (response hydration).
func Reconstruct(name string, docs []document.Document) Collection {
	if docs == nil {
		docs = []document.Document{}
	}
	return Collection{name: name, documents: docs}
}

// Name returns the collection name.
func (c Collection) Name() string { return c.name }

// Documents returns the documents in server response order.
func (c Collection) Documents() []document.Document { return c.documents }

// WithDocuments returns a copy of the collection carrying docs.
func (c Collection) WithDocuments(docs []document.Document) Collection {
	return Reconstruct(c.name, append([]document.Document(nil), docs...))
}
