package docchat

import (
	"encoding/base64"

	domdoc "github.com/kailas-cloud/docchat/internal/domain/document"
	"github.com/kailas-cloud/docchat/internal/domain/search/outcome"
)

// Index statuses reported by the document service.
const (
	StatusNotParsed      = string(domdoc.StatusNotParsed)
	StatusParsing        = string(domdoc.StatusParsing)
	StatusNotIndexed     = string(domdoc.StatusNotIndexed)
	StatusIndexing       = string(domdoc.StatusIndexing)
	StatusIndexed        = string(domdoc.StatusIndexed)
	StatusParsingFailed  = string(domdoc.StatusParsingFailed)
	StatusIndexingFailed = string(domdoc.StatusIndexingFailed)
)

// Document is a document stored in a collection.
type Document struct {
	ID         string
	Collection string
	Path       string
	// Metadata values are always slices; single strings become one-element slices.
	Metadata  map[string][]string
	Status    string
	CreatedAt string
	Size      int64
	NumPages  *int
	FileURL   string
}

// Content is the payload of an uploaded document.
type Content struct {
	inner *domdoc.Content
}

// Text creates plain text content.
func Text(s string) Content {
	return Content{inner: domdoc.TextContent(s)}
}

// File creates file content; the service detects the format (PDF, DOCX, ...).
func File(data []byte) Content {
	return Content{inner: domdoc.AutoContent(base64.StdEncoding.EncodeToString(data))}
}

// ListOptions selects a page of documents.
type ListOptions struct {
	Limit      int    // default 1024
	PathPrefix string // only paths starting with this prefix
	After      string // cursor: only paths strictly greater than this
}

// AddDocumentRequest uploads one document.
type AddDocumentRequest struct {
	Collection string
	Path       string
	Content    Content
	// Single-element slices are sent as plain strings.
	Metadata map[string][]string
	// Overwrite replaces an existing document at Path; otherwise the upload is rejected.
	Overwrite bool
}

// AddResult is the service's acknowledgement of an upload.
type AddResult struct {
	Message string
	Created bool // 201 rather than 200
}

// Hit is one ranked document.
type Hit struct {
	Path    string
	Score   float64
	FileURL string
}

// CollectionHits is the ranked answer of one collection.
type CollectionHits struct {
	Collection string
	Hits       []Hit
}

// Answer is the merged result of Ask.
type Answer struct {
	Query string
	// Text is the human-readable summary.
	Text    string
	Results []CollectionHits
	// Errors holds one "<collection>: <reason>" entry per failed collection.
	Errors []string
}

func documentFromDomain(d *domdoc.Document) Document {
	md := make(map[string][]string, len(d.Metadata))
	for k, v := range d.Metadata {
		md[k] = v.Values()
	}
	return Document{
		ID:         d.ID,
		Collection: d.CollectionName,
		Path:       d.Path,
		Metadata:   md,
		Status:     string(d.IndexStatus),
		CreatedAt:  d.CreatedAt,
		Size:       d.Size,
		NumPages:   d.NumPages,
		FileURL:    d.FileURL,
	}
}

func metadataToDomain(md map[string][]string) domdoc.Metadata {
	out := make(domdoc.Metadata, len(md))
	for k, v := range md {
		if len(v) == 1 {
			out[k] = domdoc.String(v[0])
			continue
		}
		out[k] = domdoc.List(v...)
	}
	return out
}

func answerFromOutcome(o *outcome.Outcome, text string) Answer {
	results := make([]CollectionHits, 0, len(o.Results()))
	for _, c := range o.Results() {
		hits := make([]Hit, len(c.Hits()))
		for i, h := range c.Hits() {
			hits[i] = Hit{Path: h.Path(), Score: h.Score(), FileURL: h.FileURL()}
		}
		results = append(results, CollectionHits{Collection: c.Name(), Hits: hits})
	}
	return Answer{Query: o.Query(), Text: text, Results: results, Errors: o.Errors()}
}
