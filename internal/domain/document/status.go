package document

// IndexStatus is the indexing lifecycle state reported by the document service.
//
//	not_parsed -> parsing -> not_indexed -> indexing -> indexed
//	                 \-> parsing_failed          \-> indexing_failed
type IndexStatus string

const (
	StatusNotParsed      IndexStatus = "not_parsed"
	StatusParsing        IndexStatus = "parsing"
	StatusNotIndexed     IndexStatus = "not_indexed"
	StatusIndexing       IndexStatus = "indexing"
	StatusIndexed        IndexStatus = "indexed"
	StatusParsingFailed  IndexStatus = "parsing_failed"
	StatusIndexingFailed IndexStatus = "indexing_failed"
)

// Valid reports whether s is a known lifecycle state.
func (s IndexStatus) Valid() bool {
	switch s {
	case StatusNotParsed, StatusParsing, StatusNotIndexed, StatusIndexing,
		StatusIndexed, StatusParsingFailed, StatusIndexingFailed:
		return true
	}
	return false
}

// Failed reports whether s is a failure branch.
func (s IndexStatus) Failed() bool {
	return s == StatusParsingFailed || s == StatusIndexingFailed
}

// Done reports whether s is terminal; polling can stop.
func (s IndexStatus) Done() bool {
	return s == StatusIndexed || s.Failed()
}
