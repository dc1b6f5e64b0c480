package result

// Hit is a single ranked document within one collection.
type Hit struct {
	path    string
	score   float64
	fileURL string
}

// New creates a search hit.
func New(path string, score float64, fileURL string) Hit {
	return Hit{path: path, score: score, fileURL: fileURL}
}

// Path returns the document path.
func (h *Hit) Path() string { return h.path }

// Score returns the relevance score. Higher is more relevant.
func (h *Hit) Score() float64 { return h.score }

// FileURL returns the resolved retrieval URL, empty if the service sent none.
func (h *Hit) FileURL() string { return h.fileURL }

// Collection pairs a collection name with its hits in server order
// (descending relevance).
type Collection struct {
	name string
	hits []Hit
}

// NewCollection creates a per-collection result.
func NewCollection(name string, hits []Hit) Collection {
	if hits == nil {
		hits = []Hit{}
	}
	return Collection{name: name, hits: hits}
}

// Name returns the collection name.
func (c *Collection) Name() string { return c.name }

// Hits returns the ranked hits.
func (c *Collection) Hits() []Hit { return c.hits }
