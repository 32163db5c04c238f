package pmx

import (
	"errors"
	"fmt"
)

var (
	ErrMagic            = errors.New("pmx: bad magic")
	ErrGlobalData       = errors.New("pmx: global data block too short")
	ErrGlobalDataLength = errors.New("pmx: global data block too long")
	ErrVertexCount      = errors.New("pmx: vertex attribute length mismatch")
	ErrEncoding         = errors.New("pmx: malformed text for declared encoding")
)

// InvalidEncodingError reports an unrecognized string-encoding byte in the
// global data block.
type InvalidEncodingError struct {
	Value uint8
}

func (e *InvalidEncodingError) Error() string {
	return fmt.Sprintf("pmx: invalid encoding 0x%02X", e.Value)
}

// InvalidIndexSizeError reports an index-width byte outside {1, 2, 4}.
type InvalidIndexSizeError struct {
	Value uint8
}

func (e *InvalidIndexSizeError) Error() string {
	return fmt.Sprintf("pmx: invalid index size 0x%02X", e.Value)
}

// InvalidTagError reports an unrecognized enumerator byte for the named
// field, e.g. a morph payload tag or a boolean byte other than 0/1.
type InvalidTagError struct {
	Kind  string
	Value uint32
}

func (e *InvalidTagError) Error() string {
	return fmt.Sprintf("pmx: invalid %s value 0x%02X", e.Kind, e.Value)
}

// IndexRangeError reports an index value that does not fit the narrow width
// selected by the header.
type IndexRangeError struct {
	Value int64
	Size  IndexSize
}

func (e *IndexRangeError) Error() string {
	return fmt.Sprintf("pmx: index %d does not fit in %d byte(s)", e.Value, int(e.Size))
}
