package mode

// LatencyMode is the ranking latency hint passed to the document service.
// Enforcement is entirely server side.
type LatencyMode string

// Latency mode constants.
const (
	// Low trades ranking quality for response time.
	Low  LatencyMode = "low"
	High LatencyMode = "high"
)

// IsValid checks if the mode is one of the supported values.
func (m LatencyMode) IsValid() bool {
	return m == Low || m == High
}
