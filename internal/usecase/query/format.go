package query

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/kailas-cloud/docchat/internal/domain/search/outcome"
)

const noResultsMessage = "No results found for your query."

// Format renders an outcome as the assistant's plain-text reply.
// The output is a pure function of the outcome.
func Format(o outcome.Outcome) string {
	if o.IsInfo() {
		return o.Info()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found results for your query: \"%s\"\n\n", o.Query())

	for _, col := range o.Results() {
		b.WriteString(col.Name())
		b.WriteString(":\n")
		for i, hit := range col.Hits() {
			fmt.Fprintf(&b, "%d. %s (Score: %s)\n", i+1, hit.Path(), formatScore(hit.Score()))
		}
		b.WriteString("\n")
	}

	if errs := o.Errors(); len(errs) > 0 {
		b.WriteString("Errors:\n")
		for _, e := range errs {
			b.WriteString("• ")
			b.WriteString(e)
			b.WriteString("\n")
		}
	}

	if o.Empty() {
		b.WriteString(noResultsMessage)
	}

	return strings.TrimSpace(b.String())
}

// formatScore renders a score with two decimals, rounding the exact binary
// value half away from zero. 0.125 becomes 0.13; 2.675 (stored just below)
// becomes 2.67.
func formatScore(x float64) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return fmt.Sprintf("%.2f", x)
	}

	v := new(big.Float).SetPrec(256).SetFloat64(x)
	neg := v.Signbit()
	v.Abs(v).Mul(v, big.NewFloat(100))

	n, _ := v.Int(nil)
	frac := new(big.Float).SetPrec(256).Sub(v, new(big.Float).SetInt(n))
	if frac.Cmp(big.NewFloat(0.5)) >= 0 {
		n.Add(n, big.NewInt(1))
	}

	digits := n.String()
	for len(digits) < 3 {
		digits = "0" + digits
	}
	out := digits[:len(digits)-2] + "." + digits[len(digits)-2:]
	if neg && n.Sign() != 0 {
		out = "-" + out
	}
	return out
}
