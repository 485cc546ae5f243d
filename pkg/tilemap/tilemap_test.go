package tilemap

import (
	"math"
	"slices"
	"testing"

	"github.com/matzehuels/tiletex/pkg/blend"
	"github.com/matzehuels/tiletex/pkg/prng"
	"github.com/matzehuels/tiletex/pkg/steps"

	errs "github.com/matzehuels/tiletex/pkg/errors"
)

func abcTable(t *testing.T) *steps.Table {
	t.Helper()
	table, err := steps.ParseAll([]string{"a:0..99", "b:100..199", "c:200..255"})
	if err != nil {
		t.Fatal(err)
	}
	return table
}

// gradient returns a w x h field whose values sweep 0..255 across each row.
func gradient(t *testing.T, w, h int) *Field {
	t.Helper()
	rows := make([][]uint8, h)
	for y := range rows {
		rows[y] = make([]uint8, w)
		for x := range rows[y] {
			rows[y][x] = uint8((x*255/max(1, w-1) + y*7) % 256)
		}
	}
	f, err := NewField(rows)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestNewField(t *testing.T) {
	tests := []struct {
		name    string
		rows    [][]uint8
		wantErr bool
	}{
		{"2x2", [][]uint8{{0, 1}, {2, 3}}, false},
		{"1x1", [][]uint8{{9}}, false},
		{"empty", nil, true},
		{"empty row", [][]uint8{{}}, true},
		{"ragged", [][]uint8{{0, 1}, {2}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewField(tt.rows)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewField() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !errs.Is(err, errs.ErrCodeDimensionMismatch) {
					t.Errorf("NewField() code = %s, want DIMENSION_MISMATCH", errs.GetCode(err))
				}
				return
			}
			if f.Height() != len(tt.rows) || f.Width() != len(tt.rows[0]) {
				t.Errorf("size = %dx%d, want %dx%d", f.Width(), f.Height(), len(tt.rows[0]), len(tt.rows))
			}
		})
	}
}

func TestFieldFromPix(t *testing.T) {
	f, err := FieldFromPix(3, 2, []uint8{1, 2, 3, 4, 5, 6})
	if err != nil {
		t.Fatal(err)
	}
	if f.At(2, 1) != 6 || f.At(0, 1) != 4 {
		t.Errorf("At() wrong: %v", f.pix)
	}
	if got := f.Row(1); !slices.Equal(got, []uint8{4, 5, 6}) {
		t.Errorf("Row(1) = %v", got)
	}
	if _, err := FieldFromPix(3, 2, []uint8{1}); !errs.Is(err, errs.ErrCodeDimensionMismatch) {
		t.Errorf("short buffer error = %v", err)
	}
	if _, err := FieldFromPix(0, 2, nil); !errs.Is(err, errs.ErrCodeDimensionMismatch) {
		t.Errorf("zero width error = %v", err)
	}
	if _, err := FieldFromPix(math.MaxInt/2+1, 2, nil); !errs.Is(err, errs.ErrCodeDimensionMismatch) {
		t.Errorf("oversized field error = %v", err)
	}
}

func TestIndex(t *testing.T) {
	x := NewIndex()
	if id := x.Intern("grass"); id != 1 {
		t.Errorf("Intern(grass) = %d, want 1", id)
	}
	if id := x.Intern("water"); id != 2 {
		t.Errorf("Intern(water) = %d, want 2", id)
	}
	if id := x.Intern("grass"); id != 1 {
		t.Errorf("second Intern(grass) = %d, want 1", id)
	}
	if x.Len() != 2 {
		t.Errorf("Len() = %d, want 2", x.Len())
	}
	if x.Name(2) != "water" || x.Name(0) != "" || x.Name(3) != "" {
		t.Errorf("Name() lookups wrong: %v", x.Names())
	}
	if id, ok := x.Lookup("sand"); ok || id != 0 {
		t.Errorf("Lookup(sand) = %d, %v", id, ok)
	}
}

func TestBuildScenario(t *testing.T) {
	f, err := NewField([][]uint8{{0, 128}, {200, 255}})
	if err != nil {
		t.Fatal(err)
	}
	m, err := Build(f, abcTable(t), blend.Off, prng.New(prng.Explicit(1)))
	if err != nil {
		t.Fatal(err)
	}

	want := [][]int{{1, 2}, {3, 3}}
	got := m.Grid.Rows()
	for y := range want {
		if !slices.Equal(got[y], want[y]) {
			t.Errorf("row %d = %v, want %v", y, got[y], want[y])
		}
	}
	if names := m.Index.Names(); !slices.Equal(names, []string{"a", "b", "c"}) {
		t.Errorf("Index = %v, want [a b c]", names)
	}
}

func TestBuildBoundary(t *testing.T) {
	f, err := NewField([][]uint8{{99, 100}})
	if err != nil {
		t.Fatal(err)
	}
	m, err := Build(f, abcTable(t), blend.Off, nil)
	if err != nil {
		t.Fatal(err)
	}
	if m.TileAt(0, 0) != "a" || m.TileAt(1, 0) != "b" {
		t.Errorf("boundary tiles = %s, %s; want a, b", m.TileAt(0, 0), m.TileAt(1, 0))
	}
}

func TestBuildFirstAppearanceOrder(t *testing.T) {
	f, err := NewField([][]uint8{{250, 250, 10}, {150, 10, 250}})
	if err != nil {
		t.Fatal(err)
	}
	m, err := Build(f, abcTable(t), blend.Off, nil)
	if err != nil {
		t.Fatal(err)
	}
	if names := m.Index.Names(); !slices.Equal(names, []string{"c", "a", "b"}) {
		t.Errorf("Index = %v, want [c a b]", names)
	}
	if got := m.Grid.Row(1); !slices.Equal(got, []int{3, 2, 1}) {
		t.Errorf("row 1 = %v, want [3 2 1]", got)
	}
}

func TestBuildDeterministic(t *testing.T) {
	f := gradient(t, 64, 48)
	table := abcTable(t)
	a, err := Build(f, table, 35, prng.New(prng.Explicit(1234)))
	if err != nil {
		t.Fatal(err)
	}
	b, err := Build(f, table, 35, prng.New(prng.Explicit(1234)))
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(a.Grid.cells, b.Grid.cells) {
		t.Error("grids differ for identical inputs")
	}
	if !slices.Equal(a.Index.Names(), b.Index.Names()) {
		t.Errorf("indices differ: %v vs %v", a.Index.Names(), b.Index.Names())
	}
}

func TestBuildIdentityAtZeroStrength(t *testing.T) {
	f := gradient(t, 40, 30)
	table := abcTable(t)
	m, err := Build(f, table, blend.Off, prng.New(prng.Explicit(99)))
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < f.Height(); y++ {
		for x := 0; x < f.Width(); x++ {
			if got, want := m.TileAt(x, y), table.Resolve(f.At(x, y)); got != want {
				t.Fatalf("(%d,%d) = %s, want %s", x, y, got, want)
			}
		}
	}
}

func TestBuildIndexCompact(t *testing.T) {
	// Only the darkest bucket is used; b and c must not be indexed.
	f, err := NewField([][]uint8{{0, 10, 20}, {30, 40, 50}})
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range []blend.Strength{0, 10} {
		m, err := Build(f, abcTable(t), s, prng.New(prng.Explicit(7)))
		if err != nil {
			t.Fatal(err)
		}
		counts := m.Counts()
		for id := 1; id <= m.Index.Len(); id++ {
			if counts[id] == 0 {
				t.Errorf("strength %d: index %d (%s) unused", s, id, m.Index.Name(id))
			}
		}
		if len(counts) != m.Index.Len() {
			t.Errorf("strength %d: grid uses %d indices, index has %d", s, len(counts), m.Index.Len())
		}
	}
}

func TestBuildBlendingChangesTiles(t *testing.T) {
	f := gradient(t, 64, 64)
	table := abcTable(t)
	plain, _ := Build(f, table, blend.Off, nil)
	noisy, err := Build(f, table, 40, prng.New(prng.Explicit(5)))
	if err != nil {
		t.Fatal(err)
	}
	if slices.Equal(plain.Grid.cells, noisy.Grid.cells) {
		t.Error("strength 40 left the grid untouched")
	}
}

func TestBuildRejectsBadInput(t *testing.T) {
	f := gradient(t, 2, 2)
	table := abcTable(t)
	src := prng.New(prng.Explicit(1))

	tests := []struct {
		name string
		f    *Field
		t    *steps.Table
		s    blend.Strength
		src  *prng.Source
		code errs.Code
	}{
		{"nil field", nil, table, 0, src, errs.ErrCodeDimensionMismatch},
		{"nil table", f, nil, 0, src, errs.ErrCodeInvalidParameter},
		{"strength too high", f, table, 101, src, errs.ErrCodeInvalidParameter},
		{"negative strength", f, table, -5, src, errs.ErrCodeInvalidParameter},
		{"blending without source", f, table, 10, nil, errs.ErrCodeInvalidParameter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Build(tt.f, tt.t, tt.s, tt.src)
			if m != nil {
				t.Error("Build() returned a map on error")
			}
			if !errs.Is(err, tt.code) {
				t.Errorf("Build() error = %v, want %s", err, tt.code)
			}
		})
	}
}
