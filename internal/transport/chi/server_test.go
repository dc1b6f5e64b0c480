package chi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	gochi "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docchat/internal/domain/search/outcome"
	"github.com/kailas-cloud/docchat/internal/transport/docservice"
	collectionuc "github.com/kailas-cloud/docchat/internal/usecase/collection"
	documentuc "github.com/kailas-cloud/docchat/internal/usecase/document"
	healthuc "github.com/kailas-cloud/docchat/internal/usecase/health"
	queryuc "github.com/kailas-cloud/docchat/internal/usecase/query"
)

// newTestAPI wires the full stack against a fake document service.
func newTestAPI(t *testing.T, upstream http.HandlerFunc) http.Handler {
	t.Helper()
	fake := httptest.NewServer(upstream)
	t.Cleanup(fake.Close)
	return newAPI(t, fake.URL)
}

func newAPI(t *testing.T, baseURL string) http.Handler {
	t.Helper()
	client, err := docservice.New(&docservice.Config{BaseURL: baseURL, APIKey: "zk-test", Logger: zap.NewNop()})
	if err != nil {
		t.Fatalf("docservice.New: %v", err)
	}

	srv := NewServer(
		collectionuc.New(client, client),
		documentuc.New(client),
		queryuc.New(client, queryuc.Options{}),
		healthuc.New(client),
		zap.NewNop(),
	)
	r := gochi.NewRouter()
	srv.Routes(r)
	return r
}

func reply(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader = http.NoBody
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeJSON[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func assertError(t *testing.T, rr *httptest.ResponseRecorder, status int, msg string) {
	t.Helper()
	if rr.Code != status {
		t.Errorf("status: got %d, want %d", rr.Code, status)
	}
	if got := decodeJSON[errorResponse](t, rr).Error; got != msg {
		t.Errorf("error: got %q, want %q", got, msg)
	}
}

func TestListCollections(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/collections/get-collection-list" {
			t.Errorf("unexpected upstream path %s", r.URL.Path)
		}
		reply(w, http.StatusOK, `{"collection_names":["support-docs","legal-docs"]}`)
	})

	rr := do(t, api, http.MethodGet, "/api/collections", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	resp := decodeJSON[collectionListResponse](t, rr)
	if len(resp.Collections) != 2 || resp.Collections[0].Name != "support-docs" {
		t.Fatalf("collections = %+v", resp.Collections)
	}
	if resp.Collections[1].Documents == nil {
		t.Error("documents should be an empty list, not null")
	}
}

func TestListCollections_PreservesUpstreamStatus(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		reply(w, http.StatusUnauthorized, `{"detail":"Invalid API key"}`)
	})

	assertError(t, do(t, api, http.MethodGet, "/api/collections", ""), http.StatusUnauthorized, "Invalid API key")
}

func TestListCollections_UnexpectedShape(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		reply(w, http.StatusOK, `{"names":[]}`)
	})

	assertError(t, do(t, api, http.MethodGet, "/api/collections", ""),
		http.StatusInternalServerError, "Unexpected response format.")
}

func TestGetCollection(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		reply(w, http.StatusOK, `{"documents":[{"id":"1","collection_name":"docs","path":"a.md","metadata":{},"index_status":"indexed"}]}`)
	})

	rr := do(t, api, http.MethodGet, "/api/collections/docs", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	resp := decodeJSON[collectionResponse](t, rr)
	if resp.Name != "docs" || len(resp.Documents) != 1 || resp.Documents[0].Path != "a.md" {
		t.Errorf("collection = %+v", resp)
	}
}

func TestListDocuments(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["collection_name"] != "docs" || body["limit"] != float64(10) || body["path_prefix"] != "guides/" {
			t.Errorf("upstream body = %v", body)
		}
		reply(w, http.StatusOK, `{"documents":[{"id":"1","collection_name":"docs","path":"guides/a.md","metadata":{"tags":["x","y"]},"index_status":"parsing"}]}`)
	})

	rr := do(t, api, http.MethodGet, "/api/documents?collection_name=docs&limit=10&path_prefix=guides/", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	resp := decodeJSON[documentListResponse](t, rr)
	if len(resp.Documents) != 1 {
		t.Fatalf("documents = %+v", resp.Documents)
	}
	if got := resp.Documents[0].Metadata["tags"].Values(); !reflect.DeepEqual(got, []string{"x", "y"}) {
		t.Errorf("tags = %v", got)
	}
}

func TestListDocuments_Validation(t *testing.T) {
	api := newTestAPI(t, func(_ http.ResponseWriter, _ *http.Request) {
		t.Error("upstream must not be called")
	})

	assertError(t, do(t, api, http.MethodGet, "/api/documents", ""),
		http.StatusBadRequest, "collection_name is required")
	assertError(t, do(t, api, http.MethodGet, "/api/documents?collection_name=docs&limit=abc", ""),
		http.StatusBadRequest, "limit must be a positive integer")
}

func TestAddDocument_StatusPassThrough(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		reply(w, http.StatusCreated, `{"message":"Document added"}`)
	})

	rr := do(t, api, http.MethodPost, "/api/documents",
		`{"collection_name":"docs","path":"a.txt","content":{"type":"text","text":"hello"}}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201", rr.Code)
	}
	if got := decodeJSON[messageResponse](t, rr).Message; got != "Document added" {
		t.Errorf("message = %q", got)
	}
}

func TestAddDocument_Conflict(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		reply(w, http.StatusConflict, `{"detail":"Document already exists"}`)
	})

	assertError(t,
		do(t, api, http.MethodPost, "/api/documents",
			`{"collection_name":"docs","path":"a.txt","content":{"type":"text","text":"hello"}}`),
		http.StatusConflict, "Document already exists")
}

func TestAddDocument_Validation(t *testing.T) {
	api := newTestAPI(t, func(_ http.ResponseWriter, _ *http.Request) {
		t.Error("upstream must not be called")
	})

	tests := []struct {
		body, want string
	}{
		{`{"path":"a.txt","content":{"type":"text","text":"x"}}`, "collection_name is required"},
		{`{"collection_name":"docs","content":{"type":"text","text":"x"}}`, "path is required"},
		{`{"collection_name":"docs","path":"a.txt"}`, "content is required"},
	}
	for _, tt := range tests {
		assertError(t, do(t, api, http.MethodPost, "/api/documents", tt.body), http.StatusBadRequest, tt.want)
	}
}

func TestAddDocument_InvalidBody(t *testing.T) {
	api := newTestAPI(t, func(_ http.ResponseWriter, _ *http.Request) {})

	rr := do(t, api, http.MethodPost, "/api/documents", `{not json`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rr.Code)
	}
}

func TestDocumentStatus(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		reply(w, http.StatusOK, `{"documents":[{"id":"1","collection_name":"docs","path":"a.pdf","metadata":{},"index_status":"indexing_failed"}]}`)
	})

	rr := do(t, api, http.MethodGet, "/api/documents/status?collection_name=docs&path=a.pdf", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	resp := decodeJSON[documentStatusResponse](t, rr)
	if resp.IndexStatus != "indexing_failed" || !resp.Done || !resp.Failed {
		t.Errorf("status = %+v", resp)
	}
}

func TestRank_RefundPolicy(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["k"] != float64(5) || body["latency_mode"] != "low" || body["query"] != "refund policy" {
			t.Errorf("upstream body = %v", body)
		}
		switch body["collection_name"] {
		case "support-docs":
			reply(w, http.StatusOK, `{"results":[{"path":"faq.md","score":0.87,"file_url":"https://files/faq.md"}]}`)
		default:
			reply(w, http.StatusNotFound, `{"detail":"collection not found"}`)
		}
	})

	rr := do(t, api, http.MethodPost, "/api/rank",
		`{"message":"refund policy","selectedCollections":["support-docs","legal-docs"]}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	resp := decodeJSON[rankResponse](t, rr)

	if len(resp.Results) != 1 || resp.Results[0].Collection != "support-docs" {
		t.Fatalf("results = %+v", resp.Results)
	}
	if h := resp.Results[0].Results; len(h) != 1 || h[0].Path != "faq.md" || h[0].Score != 0.87 {
		t.Errorf("hits = %+v", h)
	}
	if !reflect.DeepEqual(resp.Errors, []string{"legal-docs: collection not found"}) {
		t.Errorf("errors = %v", resp.Errors)
	}
	if !reflect.DeepEqual(resp.SelectedCollections, []string{"support-docs", "legal-docs"}) {
		t.Errorf("selected = %v", resp.SelectedCollections)
	}
	if !strings.Contains(resp.Response, "support-docs:\n1. faq.md (Score: 0.87)") {
		t.Errorf("response = %q", resp.Response)
	}
	if resp.Message.Sender != "assistant" || resp.Message.ID == "" || resp.Message.Text != resp.Response {
		t.Errorf("message = %+v", resp.Message)
	}
}

func TestRank_MissingMessage(t *testing.T) {
	api := newTestAPI(t, func(_ http.ResponseWriter, _ *http.Request) {
		t.Error("upstream must not be called")
	})

	assertError(t, do(t, api, http.MethodPost, "/api/rank", `{"selectedCollections":["a"]}`),
		http.StatusBadRequest, "message is required")
}

func TestChat_NoSelection(t *testing.T) {
	api := newTestAPI(t, func(_ http.ResponseWriter, _ *http.Request) {
		t.Error("upstream must not be called")
	})

	rr := do(t, api, http.MethodPost, "/api/chat", `{"message":"hello","selectedCollections":[]}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	resp := decodeJSON[rankResponse](t, rr)
	if resp.Response != outcome.NoSelectionMessage {
		t.Errorf("response = %q", resp.Response)
	}
	if resp.SelectedCollections == nil || len(resp.SelectedCollections) != 0 {
		t.Errorf("selected = %v", resp.SelectedCollections)
	}
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		reply(w, http.StatusOK, `{"collection_names":[]}`)
	})

	rr := do(t, api, http.MethodGet, "/health", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	resp := decodeJSON[healthResponse](t, rr)
	if resp.Status != "ok" || resp.Checks["docservice"] != "ok" {
		t.Errorf("health = %+v", resp)
	}
}

func TestHealth_Unreachable(t *testing.T) {
	fake := httptest.NewServer(http.NotFoundHandler())
	url := fake.URL
	fake.Close()

	rr := do(t, newAPI(t, url), http.MethodGet, "/health", "")
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("status: got %d, want 503", rr.Code)
	}
}

func TestNotFound(t *testing.T) {
	api := newTestAPI(t, func(_ http.ResponseWriter, _ *http.Request) {})

	assertError(t, do(t, api, http.MethodGet, "/nope", ""), http.StatusNotFound, "not found")
}
