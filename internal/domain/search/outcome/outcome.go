package outcome

import "github.com/kailas-cloud/docchat/internal/domain/search/result"

// NoSelectionMessage is returned instead of searching when no collection is selected.
const NoSelectionMessage = "Please select at least one collection to search in."

// Outcome is the aggregated result of one query fanned out to several collections.
// Every distinct selected collection appears in exactly one of Results or Errors,
// unless the selection had no usable name, in which case Info is set.
// Selected keeps the request list as given, duplicates and blanks included.
type Outcome struct {
	query    string
	selected []string
	results  []result.Collection
	errors   []string
	info     string
}

// New creates an outcome. Results and errors must already be in selection order.
func New(query string, selected []string, results []result.Collection, errs []string) Outcome {
	selected = append([]string{}, selected...)
	if results == nil {
		results = []result.Collection{}
	}
	if errs == nil {
		errs = []string{}
	}
	return Outcome{query: query, selected: selected, results: results, errors: errs}
}

// NoSelection creates the informational outcome for a selection with no usable name.
// The selection is still echoed as given.
func NoSelection(query string, selected []string) Outcome {
	o := New(query, selected, nil, nil)
	o.info = NoSelectionMessage
	return o
}

// Query returns the original query text.
func (o *Outcome) Query() string { return o.query }

// Selected returns the selection echoed back unchanged.
func (o *Outcome) Selected() []string { return o.selected }

// Results returns per-collection results in selection order.
func (o *Outcome) Results() []result.Collection { return o.results }

// Errors returns "<collection>: <reason>" strings in selection order.
func (o *Outcome) Errors() []string { return o.errors }

// Info returns the informational message, empty for a real search.
func (o *Outcome) Info() string { return o.info }

// IsInfo reports whether the outcome short-circuited without searching.
func (o *Outcome) IsInfo() bool { return o.info != "" }

// Empty reports whether the search produced neither results nor errors.
func (o *Outcome) Empty() bool { return len(o.results) == 0 && len(o.errors) == 0 }
