package docservice

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/kailas-cloud/docchat/internal/domain"
)

// decodeError normalizes a non-success response body.
// A string detail is surfaced verbatim; a list of validation problems is joined with "; ".
// Anything else is an unexpected response and the status is forced to 500.
func decodeError(status int, body []byte) error {
	var parsed errorResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return domain.NewUnexpected()
	}
	detail := bytes.TrimSpace(parsed.Detail)
	if len(detail) == 0 {
		return domain.NewUnexpected()
	}

	switch detail[0] {
	case '"':
		var msg string
		if json.Unmarshal(detail, &msg) == nil && msg != "" {
			return domain.NewRejected(status, msg)
		}
	case '[':
		var problems []validationProblem
		if json.Unmarshal(detail, &problems) == nil && len(problems) > 0 {
			msgs := make([]string, len(problems))
			for i, p := range problems {
				msgs[i] = p.Msg
			}
			return domain.NewRejected(status, strings.Join(msgs, "; "))
		}
	}
	return domain.NewUnexpected()
}
