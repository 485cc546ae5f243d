// Package steps partitions the grayscale range [0,255] into named tile buckets.
//
// A step is written as name:low..high, for example "dirt-1:0..25". A [Table]
// is an ordered set of such ranges that together cover every intensity
// exactly once: sorted by low bound, the first range starts at 0, the last
// ends at 255, and every range begins right after its predecessor ends.
// Several ranges may map to the same tile name.
//
// Tables are validated once by [Validate] (or [ParseAll]) and are immutable
// afterwards, so [Table.Resolve] never fails at lookup time.
//
// # Usage
//
//	t, err := steps.ParseAll([]string{"water:0..99", "sand:100..199", "grass:200..255"})
//	if err != nil {
//	    return err
//	}
//	t.Resolve(150) // "sand"
package steps
