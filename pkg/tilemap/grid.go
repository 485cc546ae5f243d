package tilemap

// Grid is a width x height matrix of 1-based tile indices.
type Grid struct {
	width  int
	height int
	cells  []int // row-major
}

func newGrid(width, height int) *Grid {
	return &Grid{width: width, height: height, cells: make([]int, 0, width*height)}
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// At returns the tile index at column x, row y.
func (g *Grid) At(x, y int) int {
	return g.cells[y*g.width+x]
}

// Row returns a copy of row y.
func (g *Grid) Row(y int) []int {
	return append([]int(nil), g.cells[y*g.width:(y+1)*g.width]...)
}

// Rows returns the grid as a slice of rows.
func (g *Grid) Rows() [][]int {
	rows := make([][]int, g.height)
	for y := range rows {
		rows[y] = g.Row(y)
	}
	return rows
}

// Map is a built tile grid together with its index.
type Map struct {
	Grid  *Grid
	Index *Index
}

// Width returns the grid width.
func (m *Map) Width() int { return m.Grid.width }

// Height returns the grid height.
func (m *Map) Height() int { return m.Grid.height }

// TileAt returns the tile name at column x, row y.
func (m *Map) TileAt(x, y int) string {
	return m.Index.Name(m.Grid.At(x, y))
}

// Counts returns how many cells each index occupies, keyed by index.
func (m *Map) Counts() map[int]int {
	counts := make(map[int]int, m.Index.Len())
	for _, id := range m.Grid.cells {
		counts[id]++
	}
	return counts
}
