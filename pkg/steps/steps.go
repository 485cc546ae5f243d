package steps

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"unicode"

	errs "github.com/matzehuels/tiletex/pkg/errors"
)

// MaxIntensity is the largest grayscale value a table must cover.
const MaxIntensity = 255

// Range maps the inclusive intensity interval [Low, High] to a tile name.
type Range struct {
	Name string
	Low  uint8
	High uint8
}

// String formats the range as name:low..high, the same syntax [Parse] accepts.
func (r Range) String() string {
	return fmt.Sprintf("%s:%d..%d", r.Name, r.Low, r.High)
}

// Contains reports whether v falls inside the range.
func (r Range) Contains(v uint8) bool {
	return v >= r.Low && v <= r.High
}

// Table is a validated partition of [0,255] into tile buckets.
// The zero value is not usable; build one with [Validate] or [ParseAll].
type Table struct {
	provided []Range // input order, for echoing the run parameters
	sorted   []Range // ascending by Low, contiguous over [0,255]
}

// Validate checks that ranges exactly tile [0,255] and returns an immutable Table.
//
// It rejects ranges with Low > High, an empty name, or a name containing
// whitespace, control characters or ':' (INVALID_RANGE),
// intersecting ranges (RANGE_OVERLAP), and missing sub-ranges, including a
// table that does not start at 0 or end at 255 (COVERAGE_GAP). The input slice
// is not modified.
func Validate(ranges []Range) (*Table, error) {
	if len(ranges) == 0 {
		return nil, errs.New(errs.ErrCodeCoverageGap, "no steps given: 0..%d is not covered", MaxIntensity)
	}
	for _, r := range ranges {
		if strings.TrimSpace(r.Name) == "" {
			return nil, errs.New(errs.ErrCodeInvalidRange, "step %q has an empty tile name", r.String())
		}
		if err := checkName(r.Name); err != nil {
			return nil, err
		}
		if r.Low > r.High {
			return nil, errs.New(errs.ErrCodeInvalidRange, "step %s: low %d is greater than high %d", r, r.Low, r.High)
		}
	}

	sorted := slices.Clone(ranges)
	slices.SortStableFunc(sorted, func(a, b Range) int { return int(a.Low) - int(b.Low) })

	if first := sorted[0]; first.Low != 0 {
		return nil, errs.New(errs.ErrCodeCoverageGap, "intensities 0..%d are not covered (first step is %s)", first.Low-1, first)
	}
	for i := 1; i < len(sorted); i++ {
		prev, next := sorted[i-1], sorted[i]
		if next.Low <= prev.High {
			return nil, errs.New(errs.ErrCodeRangeOverlap, "step %s overlaps %s", next, prev)
		}
		if int(next.Low) != int(prev.High)+1 {
			return nil, errs.New(errs.ErrCodeCoverageGap, "intensities %d..%d are not covered (between %s and %s)",
				int(prev.High)+1, int(next.Low)-1, prev, next)
		}
	}
	if last := sorted[len(sorted)-1]; last.High != MaxIntensity {
		return nil, errs.New(errs.ErrCodeCoverageGap, "intensities %d..%d are not covered (last step is %s)", int(last.High)+1, MaxIntensity, last)
	}

	return &Table{provided: slices.Clone(ranges), sorted: sorted}, nil
}

// checkName rejects names that cannot survive the name:low..high token form
// or a single-line comment.
func checkName(name string) error {
	if strings.ContainsRune(name, ':') {
		return errs.New(errs.ErrCodeInvalidRange, "step name %q contains ':'", name)
	}
	for _, c := range name {
		switch {
		case unicode.IsSpace(c):
			return errs.New(errs.ErrCodeInvalidRange, "step name %q contains whitespace", name)
		case unicode.IsControl(c):
			return errs.New(errs.ErrCodeInvalidRange, "step name %q contains control character %U", name, c)
		}
	}
	return nil
}

// Resolve returns the tile name whose range contains v.
// Lookup is a binary search over the sorted ranges.
func (t *Table) Resolve(v uint8) string {
	return t.sorted[t.find(v)].Name
}

// Bucket returns the position of v's range in [Table.Ranges].
func (t *Table) Bucket(v uint8) int {
	return t.find(v)
}

func (t *Table) find(v uint8) int {
	// First range whose Low is above v, minus one. Coverage guarantees i >= 1.
	i := sort.Search(len(t.sorted), func(i int) bool { return t.sorted[i].Low > v })
	return i - 1
}

// Ranges returns the ranges sorted by low bound.
func (t *Table) Ranges() []Range {
	return slices.Clone(t.sorted)
}

// Provided returns the ranges in the order they were given.
func (t *Table) Provided() []Range {
	return slices.Clone(t.provided)
}

// Len returns the number of ranges.
func (t *Table) Len() int {
	return len(t.sorted)
}

// Names returns the distinct tile names in ascending range order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.sorted))
	for _, r := range t.sorted {
		if !slices.Contains(names, r.Name) {
			names = append(names, r.Name)
		}
	}
	return names
}

// Tokens returns the provided ranges formatted as name:low..high tokens.
func (t *Table) Tokens() []string {
	tokens := make([]string, len(t.provided))
	for i, r := range t.provided {
		tokens[i] = r.String()
	}
	return tokens
}

// String reproduces the step list as it was provided, space separated.
func (t *Table) String() string {
	return strings.Join(t.Tokens(), " ")
}
