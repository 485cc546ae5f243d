package sink

import (
	"bytes"
	"strconv"

	"github.com/matzehuels/tiletex/pkg/tilemap"
)

// Command is the command name echoed in the Lua preamble.
const Command = "tiletex texture"

const indent = "    "

// RenderLua writes m as a Lua module:
//
//	-- tiletex texture --seed 42 --blending 20 --steps a:0..99 b:100..255
//	local mod = {};
//	mod.width = 2;
//	mod.height = 1;
//	mod.map = {
//	    [1] = "a",
//	    [2] = "b",
//	};
//	mod.grid = {
//	    {1, 2},
//	};
//	return mod
//
// The output depends only on m and meta, so identical runs produce
// byte-identical files.
func RenderLua(m *tilemap.Map, meta RunMeta) []byte {
	var b bytes.Buffer
	b.Grow(64 + m.Width()*m.Height()*3)

	writePreamble(&b, meta)

	b.WriteString("local mod = {};\n")
	b.WriteString("mod.width = ")
	b.WriteString(strconv.Itoa(m.Width()))
	b.WriteString(";\nmod.height = ")
	b.WriteString(strconv.Itoa(m.Height()))
	b.WriteString(";\n")

	b.WriteString("mod.map = {\n")
	for i, name := range m.Index.Names() {
		b.WriteString(indent)
		b.WriteByte('[')
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString("] = ")
		b.WriteString(luaQuote(name))
		b.WriteString(",\n")
	}
	b.WriteString("};\n")

	b.WriteString("mod.grid = {\n")
	num := make([]byte, 0, 20)
	for y := 0; y < m.Height(); y++ {
		b.WriteString(indent)
		b.WriteByte('{')
		for x := 0; x < m.Width(); x++ {
			if x > 0 {
				b.WriteString(", ")
			}
			num = strconv.AppendInt(num[:0], int64(m.Grid.At(x, y)), 10)
			b.Write(num)
		}
		b.WriteString("},\n")
	}
	b.WriteString("};\n")
	b.WriteString("return mod\n")
	return b.Bytes()
}

// Preamble returns the comment line that opens a Lua artifact, without the
// leading "-- ". It reads like the command that reproduces the run.
func Preamble(meta RunMeta) string {
	var b bytes.Buffer
	b.WriteString(Command)
	b.WriteString(" --seed ")
	b.WriteString(strconv.FormatUint(meta.Seed, 10))
	b.WriteString(" --blending ")
	b.WriteString(strconv.Itoa(int(meta.Blending)))
	if meta.Steps != nil {
		b.WriteString(" --steps ")
		b.WriteString(meta.Steps.String())
	}
	return b.String()
}

func writePreamble(b *bytes.Buffer, meta RunMeta) {
	b.WriteString("-- ")
	b.WriteString(Preamble(meta))
	b.WriteByte('\n')
}

// luaQuote returns s as a double-quoted Lua string literal. Control bytes use
// Lua's decimal escapes; other bytes, including UTF-8, pass through.
func luaQuote(s string) string {
	buf := make([]byte, 0, len(s)+2)
	buf = append(buf, '"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"', '\\':
			buf = append(buf, '\\', c)
		case '\n':
			buf = append(buf, '\\', 'n')
		case '\r':
			buf = append(buf, '\\', 'r')
		case '\t':
			buf = append(buf, '\\', 't')
		default:
			if c < 0x20 || c == 0x7f {
				buf = append(buf, '\\')
				buf = append(buf, []byte(padDecimal(c))...)
			} else {
				buf = append(buf, c)
			}
		}
	}
	buf = append(buf, '"')
	return string(buf)
}

// padDecimal formats c as exactly three digits so a following digit is not
// absorbed into the escape.
func padDecimal(c byte) string {
	s := strconv.Itoa(int(c))
	for len(s) < 3 {
		s = "0" + s
	}
	return s
}
