package sink

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	errs "github.com/matzehuels/tiletex/pkg/errors"
)

// maxLine bounds a single grid row; 16 MiB fits very wide textures.
const maxLine = 16 << 20

// Decoded is a tile map read back from a Lua artifact.
type Decoded struct {
	Preamble string         // first comment line without "-- "
	Width    int            // mod.width
	Height   int            // mod.height
	Map      map[int]string // mod.map
	Grid     [][]int        // mod.grid, one slice per row
}

// TileAt returns the tile name at column x, row y.
func (d *Decoded) TileAt(x, y int) string {
	return d.Map[d.Grid[y][x]]
}

type section int

const (
	sectionTop section = iota
	sectionMap
	sectionGrid
)

// ReadLua parses a module produced by [RenderLua]. It is not a general Lua
// parser; it accepts exactly the layout RenderLua writes and checks that the
// grid matches the declared dimensions and only references indexed tiles.
func ReadLua(r io.Reader) (*Decoded, error) {
	d := &Decoded{Map: make(map[int]string)}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)

	sec := sectionTop
	lineNo := 0
	returned := false
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		switch sec {
		case sectionTop:
			switch {
			case strings.HasPrefix(line, "--"):
				if d.Preamble == "" {
					d.Preamble = strings.TrimSpace(strings.TrimPrefix(line, "--"))
				}
			case line == "local mod = {};":
			case strings.HasPrefix(line, "mod.width = "):
				n, err := parseAssign(line, "mod.width = ", lineNo)
				if err != nil {
					return nil, err
				}
				d.Width = n
			case strings.HasPrefix(line, "mod.height = "):
				n, err := parseAssign(line, "mod.height = ", lineNo)
				if err != nil {
					return nil, err
				}
				d.Height = n
			case line == "mod.map = {":
				sec = sectionMap
			case line == "mod.grid = {":
				sec = sectionGrid
			case line == "return mod":
				returned = true
			default:
				return nil, malformed(lineNo, "unexpected %q", line)
			}
		case sectionMap:
			if line == "};" {
				sec = sectionTop
				continue
			}
			id, name, err := parseMapEntry(line, lineNo)
			if err != nil {
				return nil, err
			}
			d.Map[id] = name
		case sectionGrid:
			if line == "};" {
				sec = sectionTop
				continue
			}
			row, err := parseRow(line, lineNo)
			if err != nil {
				return nil, err
			}
			d.Grid = append(d.Grid, row)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "read lua module")
	}
	if !returned {
		return nil, errs.New(errs.ErrCodeInvalidFormat, "lua module does not end with \"return mod\"")
	}
	return d, d.check()
}

func (d *Decoded) check() error {
	if len(d.Grid) != d.Height {
		return errs.New(errs.ErrCodeDimensionMismatch, "grid has %d rows, mod.height is %d", len(d.Grid), d.Height)
	}
	for y, row := range d.Grid {
		if len(row) != d.Width {
			return errs.New(errs.ErrCodeDimensionMismatch, "grid row %d has %d cells, mod.width is %d", y+1, len(row), d.Width)
		}
		for x, id := range row {
			if _, ok := d.Map[id]; !ok {
				return errs.New(errs.ErrCodeInvalidFormat, "grid cell (%d,%d) references unknown index %d", x+1, y+1, id)
			}
		}
	}
	return nil
}

func malformed(lineNo int, format string, args ...any) error {
	return errs.New(errs.ErrCodeInvalidFormat, "line %d: "+format, append([]any{lineNo}, args...)...)
}

func parseAssign(line, prefix string, lineNo int) (int, error) {
	v := strings.TrimSuffix(strings.TrimPrefix(line, prefix), ";")
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, malformed(lineNo, "expected positive integer in %q", line)
	}
	return n, nil
}

// parseMapEntry reads `[3] = "name",`.
func parseMapEntry(line string, lineNo int) (int, string, error) {
	key, value, ok := strings.Cut(line, "] = ")
	if !ok || !strings.HasPrefix(key, "[") {
		return 0, "", malformed(lineNo, "expected map entry, got %q", line)
	}
	id, err := strconv.Atoi(key[1:])
	if err != nil || id <= 0 {
		return 0, "", malformed(lineNo, "bad map index %q", key[1:])
	}
	name, err := luaUnquote(strings.TrimSuffix(value, ","))
	if err != nil {
		return 0, "", malformed(lineNo, "%v", err)
	}
	return id, name, nil
}

// parseRow reads `{1, 2, 3},`.
func parseRow(line string, lineNo int) ([]int, error) {
	body := strings.TrimSuffix(line, ",")
	if !strings.HasPrefix(body, "{") || !strings.HasSuffix(body, "}") {
		return nil, malformed(lineNo, "expected grid row")
	}
	body = body[1 : len(body)-1]
	if strings.TrimSpace(body) == "" {
		return nil, nil
	}
	fields := strings.Split(body, ",")
	row := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil || n <= 0 {
			return nil, malformed(lineNo, "bad grid index %q", f)
		}
		row[i] = n
	}
	return row, nil
}

// luaUnquote reverses luaQuote.
func luaUnquote(s string) (string, error) {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", errs.New(errs.ErrCodeInvalidFormat, "expected quoted string, got %s", s)
	}
	s = s[1 : len(s)-1]
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(s) {
			return "", errs.New(errs.ErrCodeInvalidFormat, "dangling escape in %q", s)
		}
		switch e := s[i]; {
		case e == 'n':
			b.WriteByte('\n')
		case e == 'r':
			b.WriteByte('\r')
		case e == 't':
			b.WriteByte('\t')
		case e == '"' || e == '\\':
			b.WriteByte(e)
		case e >= '0' && e <= '9':
			j := i
			for j < len(s) && j < i+3 && s[j] >= '0' && s[j] <= '9' {
				j++
			}
			n, _ := strconv.Atoi(s[i:j])
			if n > 255 {
				return "", errs.New(errs.ErrCodeInvalidFormat, "escape \\%s out of range", s[i:j])
			}
			b.WriteByte(byte(n))
			i = j - 1
		default:
			return "", errs.New(errs.ErrCodeInvalidFormat, "unsupported escape \\%c", e)
		}
	}
	return b.String(), nil
}
