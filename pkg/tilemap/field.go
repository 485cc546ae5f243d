package tilemap

import (
	"math"

	errs "github.com/matzehuels/tiletex/pkg/errors"
)

// Field is an immutable width x height matrix of 8-bit intensities.
type Field struct {
	width  int
	height int
	pix    []uint8 // row-major
}

// NewField copies rows into a Field.
// It fails with DIMENSION_MISMATCH if rows is empty, a row is empty, or the
// rows differ in length.
func NewField(rows [][]uint8) (*Field, error) {
	if len(rows) == 0 {
		return nil, errs.New(errs.ErrCodeDimensionMismatch, "intensity field has no rows")
	}
	width := len(rows[0])
	if width == 0 {
		return nil, errs.New(errs.ErrCodeDimensionMismatch, "intensity field row 0 is empty")
	}
	pix := make([]uint8, 0, width*len(rows))
	for y, row := range rows {
		if len(row) != width {
			return nil, errs.New(errs.ErrCodeDimensionMismatch, "intensity field row %d has %d values, want %d", y, len(row), width)
		}
		pix = append(pix, row...)
	}
	return &Field{width: width, height: len(rows), pix: pix}, nil
}

// FieldFromPix wraps a row-major buffer of width*height intensities.
// The buffer is copied.
func FieldFromPix(width, height int, pix []uint8) (*Field, error) {
	if width <= 0 || height <= 0 {
		return nil, errs.New(errs.ErrCodeDimensionMismatch, "intensity field is %dx%d", width, height)
	}
	if width > math.MaxInt/height {
		return nil, errs.New(errs.ErrCodeDimensionMismatch, "intensity field %dx%d is too large", width, height)
	}
	if len(pix) != width*height {
		return nil, errs.New(errs.ErrCodeDimensionMismatch, "intensity field has %d values, want %dx%d=%d", len(pix), width, height, width*height)
	}
	return &Field{width: width, height: height, pix: append([]uint8(nil), pix...)}, nil
}

// Width returns the number of columns.
func (f *Field) Width() int { return f.width }

// Height returns the number of rows.
func (f *Field) Height() int { return f.height }

// At returns the intensity at column x, row y.
func (f *Field) At(x, y int) uint8 {
	return f.pix[y*f.width+x]
}

// Row returns a copy of row y.
func (f *Field) Row(y int) []uint8 {
	return append([]uint8(nil), f.pix[y*f.width:(y+1)*f.width]...)
}
