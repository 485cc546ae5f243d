package steps

import (
	"testing"

	errs "github.com/matzehuels/tiletex/pkg/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		token   string
		want    Range
		wantErr errs.Code
	}{
		{"dirt-1:0..25", Range{"dirt-1", 0, 25}, ""},
		{"grass-1:26..255", Range{"grass-1", 26, 255}, ""},
		{"x:7..7", Range{"x", 7, 7}, ""},
		{"a:9..3", Range{"a", 9, 3}, ""}, // order is checked by Validate
		{"nocolon", Range{}, errs.ErrCodeInvalidStep},
		{"a:b:0..1", Range{}, errs.ErrCodeInvalidStep},
		{"a:0-1", Range{}, errs.ErrCodeInvalidStep},
		{"a:0..1..2", Range{}, errs.ErrCodeInvalidStep},
		{"a:x..1", Range{}, errs.ErrCodeInvalidStep},
		{"a:..1", Range{}, errs.ErrCodeInvalidStep},
		{"a:0..256", Range{}, errs.ErrCodeInvalidRange},
		{"a:-1..5", Range{}, errs.ErrCodeInvalidRange},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := Parse(tt.token)
			if tt.wantErr != "" {
				if code := errs.GetCode(err); code != tt.wantErr {
					t.Fatalf("Parse(%q) code = %q, want %q (err %v)", tt.token, code, tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.token, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.token, got, tt.want)
			}
		})
	}
}

func TestParseRoundTrip(t *testing.T) {
	for _, tok := range []string{"water:0..99", "deep-water:100..255"} {
		r, err := Parse(tok)
		if err != nil {
			t.Fatal(err)
		}
		if r.String() != tok {
			t.Errorf("String() = %q, want %q", r.String(), tok)
		}
	}
}

func TestParseAll(t *testing.T) {
	table, err := ParseAll([]string{"a:0..99 b:100..199", "c:200..255"})
	if err != nil {
		t.Fatalf("ParseAll() error = %v", err)
	}
	if table.Len() != 3 {
		t.Errorf("Len() = %d, want 3", table.Len())
	}

	if _, err := ParseAll([]string{"a:0..99", "c:200..255"}); !errs.Is(err, errs.ErrCodeCoverageGap) {
		t.Errorf("ParseAll() with gap error = %v, want COVERAGE_GAP", err)
	}
	if _, err := ParseAll([]string{"a:0..99", "bogus"}); !errs.Is(err, errs.ErrCodeInvalidStep) {
		t.Errorf("ParseAll() with bad token error = %v, want INVALID_STEP", err)
	}
}
