package docservice

import (
	"encoding/json"

	"github.com/kailas-cloud/docchat/internal/domain/document"
)

// Wire shapes of the document service API.

type emptyRequest struct{}

type collectionListResponse struct {
	CollectionNames *[]string `json:"collection_names"`
}

type documentListRequest struct {
	CollectionName string `json:"collection_name"`
	Limit          int    `json:"limit"`
	PathPrefix     string `json:"path_prefix"`
	PathGT         string `json:"path_gt"`
}

type documentListResponse struct {
	Documents *[]document.Document `json:"documents"`
}

type addDocumentRequest struct {
	CollectionName string            `json:"collection_name"`
	Path           string            `json:"path"`
	Content        *document.Content `json:"content"`
	Metadata       document.Metadata `json:"metadata"`
	Overwrite      bool              `json:"overwrite"`
}

type addDocumentResponse struct {
	Message string `json:"message"`
}

type topDocumentsRequest struct {
	CollectionName string `json:"collection_name"`
	Query          string `json:"query"`
	K              int    `json:"k"`
	LatencyMode    string `json:"latency_mode"`
}

type topDocumentsResponse struct {
	Results *[]topDocumentHit `json:"results"`
}

type topDocumentHit struct {
	Path    string   `json:"path"`
	Score   *float64 `json:"score"`
	FileURL string   `json:"file_url"`
}

// errorResponse covers both {"detail": "..."} and {"detail": [{"msg": "..."}, ...]}.
type errorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

type validationProblem struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}
