package docchat

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	domcol "github.com/kailas-cloud/docchat/internal/domain/collection"
	domdoc "github.com/kailas-cloud/docchat/internal/domain/document"
	"github.com/kailas-cloud/docchat/internal/domain/search/mode"
	"github.com/kailas-cloud/docchat/internal/domain/search/outcome"
	"github.com/kailas-cloud/docchat/internal/transport/docservice"
	collectionuc "github.com/kailas-cloud/docchat/internal/usecase/collection"
	documentuc "github.com/kailas-cloud/docchat/internal/usecase/document"
	healthuc "github.com/kailas-cloud/docchat/internal/usecase/health"
	queryuc "github.com/kailas-cloud/docchat/internal/usecase/query"
)

const defaultTimeout = 30 * time.Second

// Внутренние интерфейсы для подмены в тестах.
type collectionUseCase interface {
	List(ctx context.Context) ([]domcol.Collection, error)
}

type documentUseCase interface {
	List(ctx context.Context, req domdoc.ListRequest) ([]domdoc.Document, error)
	ListAll(ctx context.Context, collectionName, pathPrefix string) ([]domdoc.Document, error)
	Add(ctx context.Context, req domdoc.AddRequest) (docservice.AddResult, error)
	Status(ctx context.Context, collectionName, path string) (domdoc.IndexStatus, error)
}

type queryUseCase interface {
	Submit(ctx context.Context, message string, selected []string) (outcome.Outcome, error)
}

// Client is the docchat SDK entry point.
type Client struct {
	collSvc   collectionUseCase
	docSvc    documentUseCase
	querySvc  queryUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client authenticated with apiKey. No request is made.
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("docchat: api key required")
	}

	cfg := &clientConfig{timeout: defaultTimeout}
	for _, o := range opts {
		o.apply(cfg)
	}

	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.timeout}
	}

	ds, err := docservice.New(&docservice.Config{
		BaseURL:    cfg.baseURL,
		APIKey:     apiKey,
		HTTPClient: httpClient,
		Logger:     zap.NewNop(),
	})
	if err != nil {
		return nil, fmt.Errorf("docchat: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	return &Client{
		collSvc: collectionuc.New(ds, ds),
		docSvc:  documentuc.New(ds),
		querySvc: queryuc.New(ds, queryuc.Options{
			TopK:        cfg.topK,
			LatencyMode: mode.LatencyMode(cfg.latencyMode),
		}),
		healthSvc: healthuc.New(ds),
		obs:       obs,
	}, nil
}

// Collections returns the names of every collection visible to the key.
func (c *Client) Collections(ctx context.Context) (names []string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("collections", start, err) }()

	cols, err := c.collSvc.List(ctx)
	if err != nil {
		return nil, err
	}
	names = make([]string, len(cols))
	for i, col := range cols {
		names[i] = col.Name()
	}
	return names, nil
}

// Documents returns one page of documents, ordered by path.
func (c *Client) Documents(ctx context.Context, collection string, opts ListOptions) (docs []Document, err error) {
	start := time.Now()
	defer func() { c.obs.observe("documents", start, err) }()

	list, err := c.docSvc.List(ctx, domdoc.ListRequest{
		CollectionName: collection,
		Limit:          opts.Limit,
		PathPrefix:     opts.PathPrefix,
		PathGT:         opts.After,
	})
	if err != nil {
		return nil, err
	}
	return convertDocuments(list), nil
}

// AllDocuments pages through every document under pathPrefix.
func (c *Client) AllDocuments(ctx context.Context, collection, pathPrefix string) (docs []Document, err error) {
	start := time.Now()
	defer func() { c.obs.observe("all_documents", start, err) }()

	list, err := c.docSvc.ListAll(ctx, collection, pathPrefix)
	if err != nil {
		return nil, err
	}
	return convertDocuments(list), nil
}

// AddDocument uploads a document. Indexing continues in the background;
// use WaitIndexed to block until it settles.
func (c *Client) AddDocument(ctx context.Context, req AddDocumentRequest) (res AddResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("add_document", start, err) }()

	out, err := c.docSvc.Add(ctx, domdoc.AddRequest{
		CollectionName: req.Collection,
		Path:           req.Path,
		Content:        req.Content.inner,
		Metadata:       metadataToDomain(req.Metadata),
		Overwrite:      req.Overwrite,
	})
	if err != nil {
		return AddResult{}, err
	}
	return AddResult{Message: out.Message, Created: out.Status == http.StatusCreated}, nil
}

// DocumentStatus returns the current index status of one document.
func (c *Client) DocumentStatus(ctx context.Context, collection, path string) (status string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("document_status", start, err) }()

	st, err := c.docSvc.Status(ctx, collection, path)
	if err != nil {
		return "", err
	}
	return string(st), nil
}

// WaitIndexed polls until the document is indexed or failed, or ctx ends.
func (c *Client) WaitIndexed(ctx context.Context, collection, path string, every time.Duration) (string, error) {
	if every <= 0 {
		every = time.Second
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		st, err := c.docSvc.Status(ctx, collection, path)
		if err != nil {
			return "", err
		}
		if st.Done() {
			return string(st), nil
		}
		select {
		case <-ctx.Done():
			return string(st), ctx.Err()
		case <-ticker.C:
		}
	}
}

// Ask ranks query against each collection concurrently and merges the answers.
// With no collections, Answer.Text asks the caller to select one.
func (c *Client) Ask(ctx context.Context, query string, collections ...string) (ans Answer, err error) {
	start := time.Now()
	defer func() { c.obs.observe("ask", start, err) }()

	o, err := c.querySvc.Submit(ctx, query, collections)
	if err != nil {
		return Answer{}, err
	}
	return answerFromOutcome(&o, queryuc.Format(o)), nil
}

func convertDocuments(list []domdoc.Document) []Document {
	out := make([]Document, len(list))
	for i := range list {
		out[i] = documentFromDomain(&list[i])
	}
	return out
}
