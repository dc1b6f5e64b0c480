package request

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/docchat/internal/domain/search/mode"
)

// Ranking parameter limits.
const (
	// DefaultTopK is the per-collection result cap used by the chat fan-out.
	DefaultTopK = 5
	MaxTopK     = 2048
)

// TopDocuments is a validated rank-top-documents query against one collection.
type TopDocuments struct {
	collection  string
	query       string
	k           int
	latencyMode mode.LatencyMode
}

// New validates and normalizes ranking parameters.
// Defaults: k=5, latency mode=low.
func New(collection, query string, k int, latencyMode mode.LatencyMode) (TopDocuments, error) {
	if collection == "" {
		return TopDocuments{}, fmt.Errorf("collection_name is required")
	}
	if strings.TrimSpace(query) == "" {
		return TopDocuments{}, fmt.Errorf("query is required")
	}
	if k <= 0 {
		k = DefaultTopK
	}
	if k > MaxTopK {
		return TopDocuments{}, fmt.Errorf("k too large (max %d)", MaxTopK)
	}
	if latencyMode == "" {
		latencyMode = mode.Low
	}
	if !latencyMode.IsValid() {
		return TopDocuments{}, fmt.Errorf("invalid latency mode: %q", latencyMode)
	}
	return TopDocuments{collection: collection, query: query, k: k, latencyMode: latencyMode}, nil
}

// Collection returns the target collection name.
func (r *TopDocuments) Collection() string { return r.collection }

// Query returns the query text.
func (r *TopDocuments) Query() string { return r.query }

// K returns the result cap.
func (r *TopDocuments) K() int { return r.k }

// LatencyMode returns the latency hint.
func (r *TopDocuments) LatencyMode() mode.LatencyMode { return r.latencyMode }
