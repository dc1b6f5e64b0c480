package document

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/kailas-cloud/docchat/internal/domain"
	domdoc "github.com/kailas-cloud/docchat/internal/domain/document"
	"github.com/kailas-cloud/docchat/internal/transport/docservice"
)

// --- Mocks ---

type mockStore struct {
	pages    map[string][]domdoc.Document // keyed by PathGT
	listErr  error
	listReqs []domdoc.ListRequest

	addRes  docservice.AddResult
	addErr  error
	addReqs []domdoc.AddRequest
}

func (m *mockStore) ListDocuments(_ context.Context, req domdoc.ListRequest) ([]domdoc.Document, error) {
	m.listReqs = append(m.listReqs, req)
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.pages[req.PathGT], nil
}

func (m *mockStore) AddDocument(_ context.Context, req domdoc.AddRequest) (docservice.AddResult, error) {
	m.addReqs = append(m.addReqs, req)
	return m.addRes, m.addErr
}

func docs(paths ...string) []domdoc.Document {
	out := make([]domdoc.Document, len(paths))
	for i, p := range paths {
		out[i] = domdoc.Document{Path: p, IndexStatus: domdoc.StatusIndexed}
	}
	return out
}

// --- Tests ---

func TestList_AppliesDefaults(t *testing.T) {
	store := &mockStore{pages: map[string][]domdoc.Document{"": docs("a.md")}}
	svc := New(store)

	got, err := svc.List(context.Background(), domdoc.ListRequest{CollectionName: "c"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 doc, got %d", len(got))
	}
	if store.listReqs[0].Limit != domdoc.DefaultListLimit {
		t.Errorf("limit = %d", store.listReqs[0].Limit)
	}
}

func TestList_MissingCollection(t *testing.T) {
	store := &mockStore{}
	svc := New(store)

	_, err := svc.List(context.Background(), domdoc.ListRequest{})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(store.listReqs) != 0 {
		t.Error("store should not be called")
	}
}

func TestListAll_FollowsCursor(t *testing.T) {
	page1 := make([]domdoc.Document, 0, domdoc.DefaultListLimit)
	for i := 0; i < domdoc.DefaultListLimit; i++ {
		page1 = append(page1, domdoc.Document{Path: fmt.Sprintf("p%05d", i)})
	}
	last := page1[len(page1)-1].Path
	store := &mockStore{pages: map[string][]domdoc.Document{
		"":   page1,
		last: docs("q1", "q2"),
	}}
	svc := New(store)

	all, err := svc.ListAll(context.Background(), "c", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != domdoc.DefaultListLimit+2 {
		t.Errorf("expected %d docs, got %d", domdoc.DefaultListLimit+2, len(all))
	}
	if len(store.listReqs) != 2 {
		t.Fatalf("expected 2 page requests, got %d", len(store.listReqs))
	}
	if store.listReqs[1].PathGT != last {
		t.Errorf("second cursor = %q, want %q", store.listReqs[1].PathGT, last)
	}
}

func TestListAll_StopsAtMaxPages(t *testing.T) {
	store := &mockStore{pages: map[string][]domdoc.Document{}}
	prev := ""
	for i := 0; i < 5; i++ {
		p := fmt.Sprintf("p%d", i)
		store.pages[prev] = docs(p)
		prev = p
	}
	svc := New(store).WithPageSize(1).WithMaxPages(3)

	all, err := svc.ListAll(context.Background(), "c", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 3 || len(store.listReqs) != 3 {
		t.Errorf("expected 3 docs over 3 requests, got %d over %d", len(all), len(store.listReqs))
	}
}

func TestListAll_CursorMustAdvance(t *testing.T) {
	store := &mockStore{pages: map[string][]domdoc.Document{
		"":  docs("b"),
		"b": docs("a"),
	}}
	svc := New(store).WithPageSize(1)

	if _, err := svc.ListAll(context.Background(), "c", ""); err == nil {
		t.Fatal("expected error for non-advancing cursor")
	}
}

func TestListAll_PropagatesError(t *testing.T) {
	store := &mockStore{listErr: domain.NewRejected(404, "collection not found")}
	svc := New(store)

	_, err := svc.ListAll(context.Background(), "missing", "")
	if domain.StatusOf(err) != 404 {
		t.Errorf("status = %d", domain.StatusOf(err))
	}
}

func TestAdd(t *testing.T) {
	store := &mockStore{addRes: docservice.AddResult{Message: "ok", Status: 201}}
	svc := New(store)

	res, err := svc.Add(context.Background(), domdoc.AddRequest{
		CollectionName: "c", Path: "a.txt", Content: domdoc.TextContent("hi"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != 201 {
		t.Errorf("status = %d", res.Status)
	}
	if store.addReqs[0].Metadata == nil {
		t.Error("metadata should default to empty map")
	}
}

func TestAdd_ConflictPropagates(t *testing.T) {
	store := &mockStore{addErr: domain.NewRejected(409, "document exists")}
	svc := New(store)

	_, err := svc.Add(context.Background(), domdoc.AddRequest{
		CollectionName: "c", Path: "a.txt", Content: domdoc.TextContent("hi"),
	})
	if !errors.Is(err, domain.ErrRemoteRejected) {
		t.Fatalf("expected ErrRemoteRejected, got %v", err)
	}
	if domain.StatusOf(err) != 409 {
		t.Errorf("status = %d", domain.StatusOf(err))
	}
	if domain.MessageOf(err) != "document exists" {
		t.Errorf("message = %q", domain.MessageOf(err))
	}
}

func TestAdd_ValidationNoCall(t *testing.T) {
	store := &mockStore{}
	svc := New(store)

	_, err := svc.Add(context.Background(), domdoc.AddRequest{CollectionName: "c"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if domain.MessageOf(err) != "path is required" {
		t.Errorf("message = %q", domain.MessageOf(err))
	}
	if len(store.addReqs) != 0 {
		t.Error("store should not be called")
	}
}

func TestStatus(t *testing.T) {
	store := &mockStore{pages: map[string][]domdoc.Document{
		"": {
			{Path: "a.md", IndexStatus: domdoc.StatusIndexed},
			{Path: "a.md.bak", IndexStatus: domdoc.StatusParsing},
		},
	}}
	svc := New(store)

	st, err := svc.Status(context.Background(), "c", "a.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st != domdoc.StatusIndexed {
		t.Errorf("status = %q", st)
	}
	if store.listReqs[0].PathPrefix != "a.md" {
		t.Errorf("prefix = %q", store.listReqs[0].PathPrefix)
	}

	_, err = svc.Status(context.Background(), "c", "missing.md")
	if domain.StatusOf(err) != 404 {
		t.Errorf("missing doc status = %d", domain.StatusOf(err))
	}
}
