package tilemap

// Index assigns compact 1-based indices to tile names in order of first use.
type Index struct {
	names []string
	ids   map[string]int
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{ids: make(map[string]int)}
}

// Intern returns name's index, assigning the next one if name is new.
func (x *Index) Intern(name string) int {
	if id, ok := x.ids[name]; ok {
		return id
	}
	x.names = append(x.names, name)
	id := len(x.names)
	x.ids[name] = id
	return id
}

// Lookup returns name's index and whether it is present.
func (x *Index) Lookup(name string) (int, bool) {
	id, ok := x.ids[name]
	return id, ok
}

// Name returns the tile name for a 1-based index, or "" if out of range.
func (x *Index) Name(id int) string {
	if id < 1 || id > len(x.names) {
		return ""
	}
	return x.names[id-1]
}

// Len returns the number of distinct tiles.
func (x *Index) Len() int { return len(x.names) }

// Names returns the tile names ordered by index; Names()[i] has index i+1.
func (x *Index) Names() []string {
	return append([]string(nil), x.names...)
}
