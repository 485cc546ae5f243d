package pipeline

import (
	"fmt"

	"github.com/matzehuels/tiletex/pkg/sink"
	"github.com/matzehuels/tiletex/pkg/tilemap"
)

// Render generates output artifacts in the requested formats.
func Render(m *tilemap.Map, meta sink.RunMeta, formats []string) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(formats))
	for _, format := range formats {
		var data []byte
		var err error

		switch format {
		case FormatLua:
			data = sink.RenderLua(m, meta)
		case FormatJSON:
			data, err = sink.RenderJSON(m, meta)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
