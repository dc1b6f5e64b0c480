package chi

import (
	"time"

	"github.com/kailas-cloud/docchat/internal/domain/chat"
	domcol "github.com/kailas-cloud/docchat/internal/domain/collection"
	domdoc "github.com/kailas-cloud/docchat/internal/domain/document"
	"github.com/kailas-cloud/docchat/internal/domain/search/outcome"
	"github.com/kailas-cloud/docchat/internal/domain/search/result"
)

type errorResponse struct {
	Error string `json:"error"`
}

type collectionResponse struct {
	Name      string            `json:"name"`
	Documents []domdoc.Document `json:"documents"`
}

type collectionListResponse struct {
	Collections []collectionResponse `json:"collections"`
}

type documentListResponse struct {
	Documents []domdoc.Document `json:"documents"`
}

type documentStatusResponse struct {
	Path        string             `json:"path"`
	IndexStatus domdoc.IndexStatus `json:"index_status"`
	Done        bool               `json:"done"`
	Failed      bool               `json:"failed"`
}

type addDocumentRequest struct {
	CollectionName string          `json:"collection_name"`
	Path           string          `json:"path"`
	Content        *domdoc.Content `json:"content"`
	Metadata       domdoc.Metadata `json:"metadata"`
	Overwrite      bool            `json:"overwrite"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type rankRequest struct {
	Message             string   `json:"message"`
	SelectedCollections []string `json:"selectedCollections"`
}

type hitResponse struct {
	Path    string  `json:"path"`
	Score   float64 `json:"score"`
	FileURL string  `json:"file_url,omitempty"`
}

type collectionResultResponse struct {
	Collection string        `json:"collection"`
	Results    []hitResponse `json:"results"`
}

type chatMessageResponse struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    string    `json:"sender"`
	CreatedAt time.Time `json:"created_at"`
}

type rankResponse struct {
	Response            string                     `json:"response"`
	SelectedCollections []string                   `json:"selectedCollections"`
	Results             []collectionResultResponse `json:"results"`
	Errors              []string                   `json:"errors"`
	Message             chatMessageResponse        `json:"message"`
}

type healthResponse struct {
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks"`
	Version string            `json:"version"`
}

func collectionToResponse(c domcol.Collection) collectionResponse {
	return collectionResponse{Name: c.Name(), Documents: c.Documents()}
}

func hitsToResponse(hits []result.Hit) []hitResponse {
	out := make([]hitResponse, len(hits))
	for i := range hits {
		out[i] = hitResponse{Path: hits[i].Path(), Score: hits[i].Score(), FileURL: hits[i].FileURL()}
	}
	return out
}

func outcomeToResponse(o *outcome.Outcome, msg *chat.Message) rankResponse {
	results := make([]collectionResultResponse, 0, len(o.Results()))
	for _, c := range o.Results() {
		results = append(results, collectionResultResponse{Collection: c.Name(), Results: hitsToResponse(c.Hits())})
	}
	return rankResponse{
		Response:            msg.Text(),
		SelectedCollections: o.Selected(),
		Results:             results,
		Errors:              o.Errors(),
		Message:             messageToResponse(msg),
	}
}

func messageToResponse(m *chat.Message) chatMessageResponse {
	return chatMessageResponse{
		ID:        m.ID(),
		Text:      m.Text(),
		Sender:    string(m.Sender()),
		CreatedAt: m.CreatedAt(),
	}
}
