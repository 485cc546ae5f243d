package steps

import (
	"strconv"
	"strings"

	errs "github.com/matzehuels/tiletex/pkg/errors"
)

// Parse reads a single name:low..high token.
//
// Malformed tokens yield INVALID_STEP; bounds that are not integers in
// [0,255] yield INVALID_RANGE. Parse does not check low <= high; that is
// left to [Validate] so all range errors are reported in one place.
func Parse(token string) (Range, error) {
	name, bounds, ok := strings.Cut(token, ":")
	if !ok || strings.Contains(bounds, ":") {
		return Range{}, errs.New(errs.ErrCodeInvalidStep, "malformed step %q (want name:low..high)", token)
	}
	lowStr, highStr, ok := strings.Cut(bounds, "..")
	if !ok || strings.Contains(highStr, "..") {
		return Range{}, errs.New(errs.ErrCodeInvalidStep, "malformed step %q (want name:low..high)", token)
	}

	low, err := parseBound(token, lowStr)
	if err != nil {
		return Range{}, err
	}
	high, err := parseBound(token, highStr)
	if err != nil {
		return Range{}, err
	}
	return Range{Name: name, Low: low, High: high}, nil
}

func parseBound(token, s string) (uint8, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errs.Wrap(errs.ErrCodeInvalidStep, err, "malformed bound %q in step %q", s, token)
	}
	if n < 0 || n > MaxIntensity {
		return 0, errs.New(errs.ErrCodeInvalidRange, "bound %d in step %q is outside 0..%d", n, token, MaxIntensity)
	}
	return uint8(n), nil
}

// ParseAll parses every token and validates the resulting table.
// Tokens may also hold several space-separated steps, as a shell would pass
// them when quoted together.
func ParseAll(tokens []string) (*Table, error) {
	var ranges []Range
	for _, tok := range tokens {
		for _, field := range strings.Fields(tok) {
			r, err := Parse(field)
			if err != nil {
				return nil, err
			}
			ranges = append(ranges, r)
		}
	}
	return Validate(ranges)
}
