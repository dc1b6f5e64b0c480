package query

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/kailas-cloud/docchat/internal/domain"
	"github.com/kailas-cloud/docchat/internal/domain/search/mode"
	"github.com/kailas-cloud/docchat/internal/domain/search/outcome"
	"github.com/kailas-cloud/docchat/internal/domain/search/request"
	"github.com/kailas-cloud/docchat/internal/domain/search/result"
	"github.com/kailas-cloud/docchat/internal/metrics"
)

// Options tune the per-collection ranking call.
type Options struct {
	TopK        int
	LatencyMode mode.LatencyMode
}

// Service fans one chat query out to many collections and merges the answers.
type Service struct {
	ranker      Ranker
	topK        int
	latencyMode mode.LatencyMode
}

// New creates a query service. Zero options fall back to k=5, latency mode low.
func New(ranker Ranker, opts Options) *Service {
	if opts.TopK <= 0 {
		opts.TopK = request.DefaultTopK
	}
	if opts.LatencyMode == "" {
		opts.LatencyMode = mode.Low
	}
	return &Service{ranker: ranker, topK: opts.TopK, latencyMode: opts.LatencyMode}
}

// slot holds the answer of one collection, indexed by selection position.
type slot struct {
	hits []result.Hit
	err  error
}

// Submit ranks message against every selected collection concurrently.
// One failing collection never aborts the others; each lands in exactly one
// of the outcome's results or errors, in selection order.
func (s *Service) Submit(ctx context.Context, message string, selected []string) (outcome.Outcome, error) {
	if strings.TrimSpace(message) == "" {
		return outcome.Outcome{}, domain.NewValidationError("message is required")
	}

	names := dedupe(selected)
	if len(names) == 0 {
		return outcome.NoSelection(message, selected), nil
	}

	// Build every request up front so an invalid one fails before any call.
	reqs := make([]request.TopDocuments, len(names))
	for i, name := range names {
		req, err := request.New(name, message, s.topK, s.latencyMode)
		if err != nil {
			return outcome.Outcome{}, domain.NewValidationError(err.Error())
		}
		reqs[i] = req
	}

	metrics.FanOutWidth.Observe(float64(len(names)))

	slots := make([]slot, len(names))
	var wg sync.WaitGroup
	for i := range reqs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			hits, err := s.ranker.TopDocuments(ctx, &reqs[i])
			slots[i] = slot{hits: hits, err: err}
		}(i)
	}
	wg.Wait()

	var (
		results []result.Collection
		errs    []string
	)
	for i, sl := range slots {
		if sl.err != nil {
			metrics.FanOutFailuresTotal.Inc()
			errs = append(errs, collectionError(names[i], sl.err))
			continue
		}
		results = append(results, result.NewCollection(names[i], sl.hits))
	}

	return outcome.New(message, selected, results, errs), nil
}

// collectionError renders "<collection>: <reason>".
func collectionError(name string, err error) string {
	var re *domain.RemoteError
	if errors.As(err, &re) && errors.Is(err, domain.ErrTransport) && re.Cause != nil {
		return fmt.Sprintf("%s: Network error - %v", name, re.Cause)
	}
	return fmt.Sprintf("%s: %s", name, domain.MessageOf(err))
}

// dedupe drops repeated and blank names, keeping first occurrence order.
func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
