package types

import "encoding/binary"

// Minimal molecule writers for the handful of schema shapes the wallet
// serializes. Layouts follow the molecule encoding spec:
//
//   - table / dynvec: full_size u32le, one u32le offset per field, bodies
//   - fixvec:         item count u32le, bodies concatenated
//   - option:         empty for none, the item itself otherwise
//   - struct / array: bodies concatenated, no header

func moleculeTable(fields ...[]byte) []byte {
	headerSize := 4 + 4*len(fields)
	fullSize := headerSize

	for _, f := range fields {
		fullSize += len(f)
	}

	out := make([]byte, 0, fullSize)
	out = append(out, uint32LE(uint32(fullSize))...)

	offset := headerSize
	for _, f := range fields {
		out = append(out, uint32LE(uint32(offset))...)
		offset += len(f)
	}

	for _, f := range fields {
		out = append(out, f...)
	}

	return out
}

// moleculeDynVec has the same layout as a table; the distinction is
// schema-level only.
func moleculeDynVec(items ...[]byte) []byte {
	return moleculeTable(items...)
}

func moleculeFixVec(count int, body []byte) []byte {
	out := make([]byte, 0, 4+len(body))
	out = append(out, uint32LE(uint32(count))...)
	out = append(out, body...)

	return out
}

// moleculeBytes serializes a byte string (fixvec of bytes).
func moleculeBytes(b []byte) []byte {
	return moleculeFixVec(len(b), b)
}

// moleculeBytesOpt serializes BytesOpt: nil means absent.
func moleculeBytesOpt(b []byte) []byte {
	if b == nil {
		return nil
	}

	return moleculeBytes(b)
}

// moleculeReader walks a serialized table / dynvec.
type moleculeReader struct {
	data []byte
}

// fields returns the field bodies of a table with the given expected field
// count, or ok=false when the data is not a well-formed table.
func (r moleculeReader) fields(count int) ([][]byte, bool) {
	headerSize := 4 + 4*count
	if len(r.data) < headerSize {
		return nil, false
	}

	fullSize := binary.LittleEndian.Uint32(r.data[0:4])
	if int(fullSize) != len(r.data) {
		return nil, false
	}

	offsets := make([]int, 0, count+1)
	for i := 0; i < count; i++ {
		offsets = append(offsets, int(binary.LittleEndian.Uint32(r.data[4+4*i:8+4*i])))
	}

	offsets = append(offsets, len(r.data))

	if offsets[0] != headerSize {
		return nil, false
	}

	fields := make([][]byte, 0, count)

	for i := 0; i < count; i++ {
		if offsets[i] > offsets[i+1] || offsets[i+1] > len(r.data) {
			return nil, false
		}

		fields = append(fields, r.data[offsets[i]:offsets[i+1]])
	}

	return fields, true
}

// bytesValue reads a molecule Bytes body (fixvec of bytes).
func bytesValue(data []byte) ([]byte, bool) {
	if len(data) < 4 {
		return nil, false
	}

	n := binary.LittleEndian.Uint32(data[0:4])
	if int(n)+4 != len(data) {
		return nil, false
	}

	return data[4:], true
}
