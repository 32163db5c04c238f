package pmx

import (
	"io"
	"math"
	"unicode/utf16"
	"unicode/utf8"
)

// Encoding selects how length-prefixed text blobs are interpreted.
type Encoding uint8

const (
	ENCODING_UTF16LE Encoding = 0x00
	ENCODING_UTF8    Encoding = 0x01
)

// IndexSize is the on-wire byte width of one cross-reference index kind.
type IndexSize uint8

const (
	INDEX_SIZE_BIT8  IndexSize = 0x01
	INDEX_SIZE_BIT16 IndexSize = 0x02
	INDEX_SIZE_BIT32 IndexSize = 0x04
)

// float32 machine epsilon, used for the soft-body version gate.
const epsilon32 = 1.1920929e-07

// Header carries the per-file settings every entity codec call depends on:
// the string encoding and the byte width of each index kind. UnknownData
// keeps any global-data bytes beyond the 8 fixed fields verbatim so a
// decoded header re-encodes byte for byte.
type Header struct {
	Version        float32
	Encoding       Encoding
	ExtVec4Count   uint8
	VertexIndex    IndexSize
	TextureIndex   IndexSize
	MaterialIndex  IndexSize
	BoneIndex      IndexSize
	MorphIndex     IndexSize
	RigidBodyIndex IndexSize
	UnknownData    []byte
}

func encodingFrom(b uint8) (Encoding, error) {
	switch Encoding(b) {
	case ENCODING_UTF16LE, ENCODING_UTF8:
		return Encoding(b), nil
	default:
		return 0, &InvalidEncodingError{Value: b}
	}
}

func indexSizeFrom(b uint8) (IndexSize, error) {
	switch IndexSize(b) {
	case INDEX_SIZE_BIT8, INDEX_SIZE_BIT16, INDEX_SIZE_BIT32:
		return IndexSize(b), nil
	default:
		return 0, &InvalidIndexSizeError{Value: b}
	}
}

// IndexSizeFromCount picks the narrowest width whose unsigned range covers
// every index of a collection with the given element count.
func IndexSizeFromCount(count uint32) IndexSize {
	switch {
	case count <= 0xFE:
		return INDEX_SIZE_BIT8
	case count <= 0xFFFE:
		return INDEX_SIZE_BIT16
	default:
		return INDEX_SIZE_BIT32
	}
}

// IndexSizeFromSignedCount is the signed-range variant used for the vertex
// index, which reserves negative values.
func IndexSizeFromSignedCount(count uint32) IndexSize {
	switch {
	case count <= 0x7E:
		return INDEX_SIZE_BIT8
	case count <= 0x7FFE:
		return INDEX_SIZE_BIT16
	default:
		return INDEX_SIZE_BIT32
	}
}

// ReadIndex reads one index of this width and zero-extends it to 32 bits.
func (s IndexSize) ReadIndex(rd io.Reader) (uint32, error) {
	switch s {
	case INDEX_SIZE_BIT8:
		v, err := readLittleUint8(rd)
		return uint32(v), err
	case INDEX_SIZE_BIT16:
		v, err := readLittleUint16(rd)
		return uint32(v), err
	case INDEX_SIZE_BIT32:
		return readLittleUint32(rd)
	default:
		return 0, &InvalidIndexSizeError{Value: uint8(s)}
	}
}

// ReadSignedIndex reads one index of this width and sign-extends it to 32
// bits.
func (s IndexSize) ReadSignedIndex(rd io.Reader) (int32, error) {
	switch s {
	case INDEX_SIZE_BIT8:
		v, err := readLittleUint8(rd)
		return int32(int8(v)), err
	case INDEX_SIZE_BIT16:
		v, err := readLittleUint16(rd)
		return int32(int16(v)), err
	case INDEX_SIZE_BIT32:
		v, err := readLittleUint32(rd)
		return int32(v), err
	default:
		return 0, &InvalidIndexSizeError{Value: uint8(s)}
	}
}

// WriteIndex narrows a canonical unsigned index to this width. Values that
// do not fit the narrow width fail with an IndexRangeError.
func (s IndexSize) WriteIndex(wt io.Writer, index uint32) error {
	switch s {
	case INDEX_SIZE_BIT8:
		if index > math.MaxUint8 {
			return &IndexRangeError{Value: int64(index), Size: s}
		}
		return writeLittleUint8(wt, uint8(index))
	case INDEX_SIZE_BIT16:
		if index > math.MaxUint16 {
			return &IndexRangeError{Value: int64(index), Size: s}
		}
		return writeLittleUint16(wt, uint16(index))
	case INDEX_SIZE_BIT32:
		return writeLittleUint32(wt, index)
	default:
		return &InvalidIndexSizeError{Value: uint8(s)}
	}
}

// WriteSignedIndex narrows a canonical signed index to this width.
func (s IndexSize) WriteSignedIndex(wt io.Writer, index int32) error {
	switch s {
	case INDEX_SIZE_BIT8:
		if index < math.MinInt8 || index > math.MaxInt8 {
			return &IndexRangeError{Value: int64(index), Size: s}
		}
		return writeLittleUint8(wt, uint8(int8(index)))
	case INDEX_SIZE_BIT16:
		if index < math.MinInt16 || index > math.MaxInt16 {
			return &IndexRangeError{Value: int64(index), Size: s}
		}
		return writeLittleUint16(wt, uint16(int16(index)))
	case INDEX_SIZE_BIT32:
		return writeLittleUint32(wt, uint32(index))
	default:
		return &InvalidIndexSizeError{Value: uint8(s)}
	}
}

// ReadString reads a 4-byte length prefix and that many raw bytes, then
// decodes them per the encoding. Malformed byte sequences fail with
// ErrEncoding.
func (e Encoding) ReadString(rd io.Reader) (string, error) {
	length, err := readLittleUint32(rd)
	if err != nil {
		return "", err
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(rd, buf); err != nil {
		return "", err
	}
	switch e {
	case ENCODING_UTF16LE:
		return decodeUtf16Le(buf)
	case ENCODING_UTF8:
		if !utf8.Valid(buf) {
			return "", ErrEncoding
		}
		return string(buf), nil
	default:
		return "", &InvalidEncodingError{Value: uint8(e)}
	}
}

// WriteString encodes the string, emits its byte length as a 4-byte prefix,
// then the bytes.
func (e Encoding) WriteString(wt io.Writer, value string) error {
	var buf []byte
	switch e {
	case ENCODING_UTF16LE:
		units := utf16.Encode([]rune(value))
		buf = make([]byte, len(units)*2)
		for i, u := range units {
			buf[2*i] = byte(u)
			buf[2*i+1] = byte(u >> 8)
		}
	case ENCODING_UTF8:
		buf = []byte(value)
	default:
		return &InvalidEncodingError{Value: uint8(e)}
	}
	if err := writeLittleUint32(wt, uint32(len(buf))); err != nil {
		return err
	}
	_, err := wt.Write(buf)
	return err
}

func decodeUtf16Le(buf []byte) (string, error) {
	if len(buf)%2 != 0 {
		return "", ErrEncoding
	}
	units := make([]uint16, len(buf)/2)
	for i := range units {
		units[i] = uint16(buf[2*i]) | uint16(buf[2*i+1])<<8
	}
	runes := make([]rune, 0, len(units))
	for i := 0; i < len(units); i++ {
		u := units[i]
		switch {
		case u >= 0xD800 && u <= 0xDBFF:
			if i+1 >= len(units) {
				return "", ErrEncoding
			}
			l := units[i+1]
			if l < 0xDC00 || l > 0xDFFF {
				return "", ErrEncoding
			}
			runes = append(runes, utf16.DecodeRune(rune(u), rune(l)))
			i++
		case u >= 0xDC00 && u <= 0xDFFF:
			return "", ErrEncoding
		default:
			runes = append(runes, rune(u))
		}
	}
	return string(runes), nil
}

// HeaderUnMarshal reads the magic, version and global data block.
func HeaderUnMarshal(rd io.Reader) (*Header, error) {
	magic, err := readLittleUint32(rd)
	if err != nil {
		return nil, err
	}
	if magic != PMX_SIGNATURE {
		return nil, ErrMagic
	}
	version, err := readLittleFloat32(rd)
	if err != nil {
		return nil, err
	}
	length, err := readLittleUint8(rd)
	if err != nil {
		return nil, err
	}
	if length < 8 {
		return nil, ErrGlobalData
	}
	global := make([]byte, length)
	if _, err := io.ReadFull(rd, global); err != nil {
		return nil, err
	}

	h := &Header{Version: version}
	if h.Encoding, err = encodingFrom(global[0]); err != nil {
		return nil, err
	}
	h.ExtVec4Count = global[1]
	if h.VertexIndex, err = indexSizeFrom(global[2]); err != nil {
		return nil, err
	}
	if h.TextureIndex, err = indexSizeFrom(global[3]); err != nil {
		return nil, err
	}
	if h.MaterialIndex, err = indexSizeFrom(global[4]); err != nil {
		return nil, err
	}
	if h.BoneIndex, err = indexSizeFrom(global[5]); err != nil {
		return nil, err
	}
	if h.MorphIndex, err = indexSizeFrom(global[6]); err != nil {
		return nil, err
	}
	if h.RigidBodyIndex, err = indexSizeFrom(global[7]); err != nil {
		return nil, err
	}
	h.UnknownData = append([]byte(nil), global[8:]...)
	return h, nil
}

// HeaderMarshal writes the magic, version and global data block, keeping any
// retained tail bytes verbatim.
func HeaderMarshal(wt io.Writer, h *Header) error {
	if len(h.UnknownData) > math.MaxUint8-8 {
		return ErrGlobalDataLength
	}
	if err := writeLittleUint32(wt, PMX_SIGNATURE); err != nil {
		return err
	}
	if err := writeLittleFloat32(wt, h.Version); err != nil {
		return err
	}
	if err := writeLittleUint8(wt, uint8(len(h.UnknownData))+8); err != nil {
		return err
	}
	fields := []uint8{
		uint8(h.Encoding),
		h.ExtVec4Count,
		uint8(h.VertexIndex),
		uint8(h.TextureIndex),
		uint8(h.MaterialIndex),
		uint8(h.BoneIndex),
		uint8(h.MorphIndex),
		uint8(h.RigidBodyIndex),
	}
	for _, f := range fields {
		if err := writeLittleUint8(wt, f); err != nil {
			return err
		}
	}
	_, err := wt.Write(h.UnknownData)
	return err
}

// HeaderFromPmx synthesizes a best-fit header for writing the given model:
// UTF-16LE text and the narrowest index width that covers each section.
func HeaderFromPmx(version float32, ms *Pmx) *Header {
	return &Header{
		Version:        version,
		Encoding:       ENCODING_UTF16LE,
		ExtVec4Count:   uint8(len(ms.Vertexes.ExtVec4s)),
		VertexIndex:    IndexSizeFromSignedCount(ms.Vertexes.Count()),
		TextureIndex:   IndexSizeFromCount(uint32(len(ms.Textures))),
		MaterialIndex:  IndexSizeFromCount(uint32(len(ms.Materials))),
		BoneIndex:      IndexSizeFromCount(uint32(len(ms.Bones))),
		MorphIndex:     IndexSizeFromCount(uint32(len(ms.Morphs))),
		RigidBodyIndex: IndexSizeFromCount(uint32(len(ms.RigidBodies))),
	}
}

// hasSoftBodySection reports whether the soft-body section exists on the
// wire at the given format version. 2.1 stored as float32 does not compare
// exactly, so the threshold is scaled down by one epsilon.
func hasSoftBodySection(version float32) bool {
	return version >= V2_1*(1-epsilon32)
}
