package sink

import (
	"encoding/json"

	"github.com/matzehuels/tiletex/pkg/tilemap"
)

type jsonOutput struct {
	Width    int        `json:"width"`
	Height   int        `json:"height"`
	Seed     uint64     `json:"seed"`
	Blending int        `json:"blending"`
	Steps    []string   `json:"steps,omitempty"`
	Map      []jsonTile `json:"map"`
	Grid     [][]int    `json:"grid"`
}

type jsonTile struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

// RenderJSON exports m and its run parameters as pretty-printed JSON.
// The map is a list ordered by index so key order survives any decoder.
//
// RenderJSON returns an error only if JSON marshaling fails, which does not
// happen for maps produced by [tilemap.Build].
func RenderJSON(m *tilemap.Map, meta RunMeta) ([]byte, error) {
	out := jsonOutput{
		Width:    m.Width(),
		Height:   m.Height(),
		Seed:     meta.Seed,
		Blending: int(meta.Blending),
		Grid:     m.Grid.Rows(),
	}
	if meta.Steps != nil {
		out.Steps = meta.Steps.Tokens()
	}
	for i, name := range m.Index.Names() {
		out.Map = append(out.Map, jsonTile{Index: i + 1, Name: name})
	}
	return json.MarshalIndent(out, "", "  ")
}
