package docservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docchat/internal/domain"
	domcol "github.com/kailas-cloud/docchat/internal/domain/collection"
	"github.com/kailas-cloud/docchat/internal/domain/document"
	"github.com/kailas-cloud/docchat/internal/domain/search/request"
	"github.com/kailas-cloud/docchat/internal/domain/search/result"
	"github.com/kailas-cloud/docchat/internal/metrics"
)

// DefaultBaseURL is the public document service endpoint.
const DefaultBaseURL = "https://api.zeroentropy.dev/v1"

// Operation names, used as metric labels.
const (
	OpListCollections = "list_collections"
	OpListDocuments   = "list_documents"
	OpAddDocument     = "add_document"
	OpTopDocuments    = "top_documents"
)

const (
	pathCollectionList = "/collections/get-collection-list"
	pathDocumentList   = "/documents/get-document-info-list"
	pathAddDocument    = "/documents/add-document"
	pathTopDocuments   = "/queries/top-documents"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 32 << 20

// addSuccessMessage is returned when add-document succeeds without a message.
const addSuccessMessage = "Success!"

// Config holds the document service client settings.
// It is read once at startup and never mutated after New.
type Config struct {
	BaseURL string
	APIKey  string
	// Timeout is the whole-request timeout. Zero keeps the transport default (none).
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client talks to the document service over authenticated JSON-over-HTTPS.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *zap.Logger
}

// AddResult is the outcome of a successful add-document call.
type AddResult struct {
	Message string
	// Status is 200 or 201 as returned by the service.
	Status int
}

// New creates a document service client.
func New(cfg *Config) (*Client, error) {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return nil, fmt.Errorf("docservice: base url must be http(s), got %q", cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		http:    httpClient,
		logger:  logger.Named("docservice"),
	}, nil
}

// ListCollections returns every collection visible to the credential.
// Collections carry no documents; list them per collection.
func (c *Client) ListCollections(ctx context.Context) ([]domcol.Collection, error) {
	var resp collectionListResponse
	if err := c.call(ctx, OpListCollections, pathCollectionList, emptyRequest{}, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	if resp.CollectionNames == nil {
		return nil, c.unexpected(OpListCollections, "missing collection_names")
	}

	cols := make([]domcol.Collection, len(*resp.CollectionNames))
	for i, name := range *resp.CollectionNames {
		cols[i] = domcol.Reconstruct(name, nil)
	}
	succeed(OpListCollections)
	return cols, nil
}

// ListDocuments returns one page of documents in a collection, ordered by path.
// Pass the last path as PathGT to fetch the next page.
func (c *Client) ListDocuments(ctx context.Context, req document.ListRequest) ([]document.Document, error) {
	req.ApplyDefaults()
	if err := req.Validate(); err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	body := documentListRequest{
		CollectionName: req.CollectionName,
		Limit:          req.Limit,
		PathPrefix:     req.PathPrefix,
		PathGT:         req.PathGT,
	}
	var resp documentListResponse
	if err := c.call(ctx, OpListDocuments, pathDocumentList, body, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	if resp.Documents == nil {
		return nil, c.unexpected(OpListDocuments, "missing documents")
	}
	succeed(OpListDocuments)
	return *resp.Documents, nil
}

// AddDocument creates a document at a path. With Overwrite false an existing
// path is rejected by the service (409).
func (c *Client) AddDocument(ctx context.Context, req document.AddRequest) (AddResult, error) {
	req.ApplyDefaults()
	if err := req.Validate(); err != nil {
		return AddResult{}, domain.NewValidationError(err.Error())
	}

	body := addDocumentRequest{
		CollectionName: req.CollectionName,
		Path:           req.Path,
		Content:        req.Content,
		Metadata:       req.Metadata,
		Overwrite:      req.Overwrite,
	}
	var resp addDocumentResponse
	status, err := c.do(ctx, OpAddDocument, pathAddDocument, body, &resp, http.StatusOK, http.StatusCreated)
	if err != nil {
		return AddResult{}, err
	}

	msg := resp.Message
	if msg == "" {
		msg = addSuccessMessage
	}
	succeed(OpAddDocument)
	return AddResult{Message: msg, Status: status}, nil
}

// TopDocuments ranks documents of one collection against a query.
// Hits come back in descending score order.
func (c *Client) TopDocuments(ctx context.Context, req *request.TopDocuments) ([]result.Hit, error) {
	body := topDocumentsRequest{
		CollectionName: req.Collection(),
		Query:          req.Query(),
		K:              req.K(),
		LatencyMode:    string(req.LatencyMode()),
	}
	var resp topDocumentsResponse
	if err := c.call(ctx, OpTopDocuments, pathTopDocuments, body, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	if resp.Results == nil {
		return nil, c.unexpected(OpTopDocuments, "missing results")
	}

	hits := make([]result.Hit, 0, len(*resp.Results))
	for _, h := range *resp.Results {
		if h.Score == nil {
			return nil, c.unexpected(OpTopDocuments, "hit without score")
		}
		hits = append(hits, result.New(h.Path, *h.Score, h.FileURL))
	}
	succeed(OpTopDocuments)
	return hits, nil
}

func (c *Client) call(ctx context.Context, op, path string, body, out any, okStatuses ...int) error {
	_, err := c.do(ctx, op, path, body, out, okStatuses...)
	return err
}

// do sends one POST and decodes a success body into out.
// Every failure is returned as a *domain.RemoteError.
func (c *Client) do(ctx context.Context, op, path string, body, out any, okStatuses ...int) (int, error) {
	start := time.Now()
	defer func() {
		metrics.DocServiceRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}()

	payload, err := json.Marshal(body)
	if err != nil {
		return 0, c.fail(op, domain.NewValidationError(fmt.Sprintf("encode request: %v", err)))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, c.fail(op, domain.NewTransportError(err))
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return 0, c.fail(op, domain.NewTransportError(unwrapURLError(err)))
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, c.fail(op, domain.NewTransportError(err))
	}

	if !statusIn(resp.StatusCode, okStatuses) {
		return resp.StatusCode, c.fail(op, decodeError(resp.StatusCode, raw))
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		raw = []byte("{}")
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return resp.StatusCode, c.unexpected(op, "decode body: "+err.Error())
	}

	c.logger.Debug("document service call",
		zap.String("operation", op),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)
	return resp.StatusCode, nil
}

// succeed records a call whose body matched the expected shape.
func succeed(op string) {
	metrics.DocServiceRequestsTotal.WithLabelValues(op, "ok").Inc()
}

func (c *Client) unexpected(op, reason string) error {
	c.logger.Warn("unexpected document service response",
		zap.String("operation", op),
		zap.String("reason", reason),
	)
	return c.fail(op, domain.NewUnexpected())
}

// fail records the outcome metric and logs the failure. The API key is never logged.
func (c *Client) fail(op string, err error) error {
	outcome := "unexpected"
	switch {
	case errors.Is(err, domain.ErrRemoteRejected):
		outcome = "rejected"
	case errors.Is(err, domain.ErrTransport):
		outcome = "transport"
	case errors.Is(err, domain.ErrValidation):
		outcome = "validation"
	}
	metrics.DocServiceRequestsTotal.WithLabelValues(op, outcome).Inc()
	c.logger.Info("document service call failed",
		zap.String("operation", op),
		zap.String("outcome", outcome),
		zap.Int("status", domain.StatusOf(err)),
		zap.Error(err),
	)
	return err
}

// unwrapURLError drops the "Post <url>:" prefix so messages stay short.
func unwrapURLError(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) && ue.Err != nil {
		return ue.Err
	}
	return err
}

func statusIn(status int, allowed []int) bool {
	for _, s := range allowed {
		if s == status {
			return true
		}
	}
	return false
}
