package sink

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/matzehuels/tiletex/pkg/blend"
	"github.com/matzehuels/tiletex/pkg/prng"
	"github.com/matzehuels/tiletex/pkg/steps"
	"github.com/matzehuels/tiletex/pkg/tilemap"

	errs "github.com/matzehuels/tiletex/pkg/errors"
)

func buildMap(t *testing.T, rows [][]uint8, tokens []string, s blend.Strength, seed uint64) (*tilemap.Map, RunMeta) {
	t.Helper()
	table, err := steps.ParseAll(tokens)
	if err != nil {
		t.Fatal(err)
	}
	f, err := tilemap.NewField(rows)
	if err != nil {
		t.Fatal(err)
	}
	src := prng.New(prng.Explicit(seed))
	m, err := tilemap.Build(f, table, s, src)
	if err != nil {
		t.Fatal(err)
	}
	return m, RunMeta{Seed: src.Seed(), Blending: s, Steps: table}
}

var abc = []string{"a:0..99", "b:100..199", "c:200..255"}

func TestRenderLua(t *testing.T) {
	m, meta := buildMap(t, [][]uint8{{0, 128}, {200, 255}}, abc, 0, 42)

	want := `-- tiletex texture --seed 42 --blending 0 --steps a:0..99 b:100..199 c:200..255
local mod = {};
mod.width = 2;
mod.height = 2;
mod.map = {
    [1] = "a",
    [2] = "b",
    [3] = "c",
};
mod.grid = {
    {1, 2},
    {3, 3},
};
return mod
`
	if got := string(RenderLua(m, meta)); got != want {
		t.Errorf("RenderLua() =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderLuaDeterministic(t *testing.T) {
	rows := make([][]uint8, 16)
	for y := range rows {
		rows[y] = make([]uint8, 16)
		for x := range rows[y] {
			rows[y][x] = uint8(x*16 + y)
		}
	}
	m1, meta1 := buildMap(t, rows, abc, 25, 7)
	m2, meta2 := buildMap(t, rows, abc, 25, 7)
	if !bytes.Equal(RenderLua(m1, meta1), RenderLua(m2, meta2)) {
		t.Error("identical runs produced different Lua output")
	}
}

func TestRenderLuaHasNoFloats(t *testing.T) {
	m, meta := buildMap(t, [][]uint8{{0, 50, 250}}, abc, 60, 3)
	out := string(RenderLua(m, meta))
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "--") || strings.Contains(line, "\"") {
			continue
		}
		if strings.Contains(line, ".") && !strings.HasPrefix(line, "mod.") {
			t.Errorf("line %q looks like it contains a float", line)
		}
	}
}

// Reading the artifact back yields, at strength 0, exactly the tile whose
// range contains each source intensity.
func TestLuaRoundTrip(t *testing.T) {
	rows := [][]uint8{
		{0, 99, 100, 199},
		{200, 255, 50, 150},
		{12, 220, 101, 98},
	}
	tokens := []string{"deep:0..49", "water:50..99", "sand:100..199", "grass:200..255"}
	m, meta := buildMap(t, rows, tokens, 0, 1)

	d, err := ReadLua(bytes.NewReader(RenderLua(m, meta)))
	if err != nil {
		t.Fatalf("ReadLua() error = %v", err)
	}
	if d.Width != 4 || d.Height != 3 {
		t.Fatalf("size = %dx%d, want 4x3", d.Width, d.Height)
	}
	if d.Preamble != Preamble(meta) {
		t.Errorf("Preamble = %q, want %q", d.Preamble, Preamble(meta))
	}

	for y, row := range rows {
		for x, v := range row {
			name := d.TileAt(x, y)
			found := false
			for _, r := range meta.Steps.Ranges() {
				if r.Name == name && r.Contains(v) {
					found = true
				}
			}
			if !found {
				t.Errorf("(%d,%d) intensity %d decoded as %q, not its bucket", x, y, v, name)
			}
		}
	}
}

func TestLuaRoundTripBlended(t *testing.T) {
	rows := make([][]uint8, 8)
	for y := range rows {
		rows[y] = make([]uint8, 8)
		for x := range rows[y] {
			rows[y][x] = uint8(x * 32)
		}
	}
	m, meta := buildMap(t, rows, abc, 50, 11)
	d, err := ReadLua(bytes.NewReader(RenderLua(m, meta)))
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			if d.TileAt(x, y) != m.TileAt(x, y) {
				t.Errorf("(%d,%d) = %s, want %s", x, y, d.TileAt(x, y), m.TileAt(x, y))
			}
		}
	}
}

func TestLuaQuote(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"grass-1", `"grass-1"`},
		{`a"b`, `"a\"b"`},
		{`a\b`, `"a\\b"`},
		{"a\nb", `"a\nb"`},
		{"a\x01" + "2", `"a\0012"`},
		{"héllo", `"héllo"`},
	}
	for _, tt := range tests {
		if got := luaQuote(tt.in); got != tt.want {
			t.Errorf("luaQuote(%q) = %s, want %s", tt.in, got, tt.want)
		}
		back, err := luaUnquote(tt.want)
		if err != nil {
			t.Errorf("luaUnquote(%s) error = %v", tt.want, err)
		} else if back != tt.in {
			t.Errorf("luaUnquote(%s) = %q, want %q", tt.want, back, tt.in)
		}
	}
}

func TestRenderLuaQuotedNames(t *testing.T) {
	m, meta := buildMap(t, [][]uint8{{0, 255}}, []string{`a"q:0..127`, `b\\x:128..255`}, 0, 3)
	out := RenderLua(m, meta)

	d, err := ReadLua(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("ReadLua() of rendered module: %v\n%s", err, out)
	}
	if d.Preamble != Preamble(meta) {
		t.Errorf("Preamble = %q, want %q", d.Preamble, Preamble(meta))
	}
	if d.TileAt(0, 0) != `a"q` || d.TileAt(1, 0) != `b\\x` {
		t.Errorf("tiles = %q %q", d.TileAt(0, 0), d.TileAt(1, 0))
	}

	if _, err := steps.Validate([]steps.Range{{Name: "a\nmod = nil --", Low: 0, High: 255}}); !errs.Is(err, errs.ErrCodeInvalidRange) {
		t.Errorf("multi-line tile name error = %v, want INVALID_RANGE", err)
	}
}

func TestReadLuaRejects(t *testing.T) {
	valid := "local mod = {};\nmod.width = 2;\nmod.height = 1;\nmod.map = {\n[1] = \"a\",\n};\nmod.grid = {\n{1, 1},\n};\nreturn mod\n"
	if _, err := ReadLua(strings.NewReader(valid)); err != nil {
		t.Fatalf("valid module rejected: %v", err)
	}

	tests := []struct {
		name string
		src  string
		code errs.Code
	}{
		{"no return", strings.TrimSuffix(valid, "return mod\n"), errs.ErrCodeInvalidFormat},
		{"short row", strings.Replace(valid, "{1, 1}", "{1}", 1), errs.ErrCodeDimensionMismatch},
		{"extra row", strings.Replace(valid, "{1, 1},", "{1, 1},\n{1, 1},", 1), errs.ErrCodeDimensionMismatch},
		{"unknown index", strings.Replace(valid, "{1, 1}", "{1, 2}", 1), errs.ErrCodeInvalidFormat},
		{"garbage", strings.Replace(valid, "local mod = {};", "print('hi')", 1), errs.ErrCodeInvalidFormat},
		{"bad width", strings.Replace(valid, "mod.width = 2;", "mod.width = 2.5;", 1), errs.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadLua(strings.NewReader(tt.src))
			if !errs.Is(err, tt.code) {
				t.Errorf("ReadLua() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestRenderJSON(t *testing.T) {
	m, meta := buildMap(t, [][]uint8{{0, 128}, {200, 255}}, abc, 0, 42)
	data, err := RenderJSON(m, meta)
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if out.Width != 2 || out.Height != 2 {
		t.Errorf("size = %dx%d, want 2x2", out.Width, out.Height)
	}
	if out.Seed != 42 {
		t.Errorf("Seed = %d, want 42", out.Seed)
	}
	if len(out.Map) != 3 || out.Map[0] != (jsonTile{Index: 1, Name: "a"}) || out.Map[2] != (jsonTile{Index: 3, Name: "c"}) {
		t.Errorf("Map = %+v", out.Map)
	}
	if len(out.Grid) != 2 || out.Grid[1][0] != 3 {
		t.Errorf("Grid = %v", out.Grid)
	}
	if strings.Join(out.Steps, " ") != "a:0..99 b:100..199 c:200..255" {
		t.Errorf("Steps = %v", out.Steps)
	}
}
