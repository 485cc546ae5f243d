package pipeline

import (
	"context"
	"encoding/binary"

	"github.com/matzehuels/tiletex/pkg/cache"
	"github.com/matzehuels/tiletex/pkg/imageio"
	"github.com/matzehuels/tiletex/pkg/tilemap"
)

// Decode returns the intensity field for opts, loading the image unless a
// field was supplied directly.
func Decode(ctx context.Context, opts Options) (*tilemap.Field, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.Field != nil {
		return opts.Field, nil
	}
	return imageio.Load(opts.Image, imageio.Options{Resize: opts.Resize})
}

// SourceHash returns the content hash used to key cached artifacts.
// Image files are hashed by bytes; in-memory fields by dimensions and pixels.
func SourceHash(opts Options) (string, error) {
	if opts.Field == nil {
		return imageio.Hash(opts.Image)
	}
	f := opts.Field
	buf := make([]byte, 0, 16+f.Width()*f.Height())
	buf = binary.BigEndian.AppendUint64(buf, uint64(f.Width()))
	buf = binary.BigEndian.AppendUint64(buf, uint64(f.Height()))
	for y := 0; y < f.Height(); y++ {
		buf = append(buf, f.Row(y)...)
	}
	return cache.Hash(buf), nil
}
