package ebml

import (
	"encoding/binary"
	"fmt"
	"math"
)

// IDSize returns the on-wire width of an element ID in bytes (1-4). The
// length-marker bit is part of the ID constant, so this is just the
// minimal big-endian width.
func IDSize(id uint64) int {
	switch {
	case id <= 0xFF:
		return 1
	case id <= 0xFFFF:
		return 2
	case id <= 0xFFFFFF:
		return 3
	default:
		return 4
	}
}

// UintSize returns the minimal big-endian byte count for value. Zero
// encodes as a single zero byte.
func UintSize(value uint64) int {
	n := 1
	for value > 0xFF {
		value >>= 8
		n++
	}
	return n
}

// VintSize returns the smallest vint width that can carry value. The
// all-ones payload of each width is reserved for "size unknown", so a
// width holds values up to 2^(7*width)-2.
func VintSize(value uint64) int {
	for width := 1; width < 8; width++ {
		if value < uint64(1)<<(7*width)-1 {
			return width
		}
	}
	return 8
}

// WriteID emits an element ID verbatim at its natural width.
func WriteID(w Writer, id uint64) error {
	return writeBE(w, id, IDSize(id))
}

// WriteVint emits value as a vint at the smallest width that fits.
func WriteVint(w Writer, value uint64) error {
	return WriteVintWidth(w, value, VintSize(value))
}

// WriteVintWidth emits value as a vint of exactly width bytes. The
// muxer writes SimpleBlock sizes at a fixed 4 bytes and master sizes at
// a fixed 8 bytes, so a back-patch of a master size never changes the
// field's length.
func WriteVintWidth(w Writer, value uint64, width int) error {
	if width < 1 || width > 8 {
		return fmt.Errorf("ebml: vint width %d out of range", width)
	}
	if width < 8 && value >= uint64(1)<<(7*width)-1 {
		return fmt.Errorf("ebml: value %d does not fit %d-byte vint", value, width)
	}
	marker := uint64(1) << (7 * width)
	return writeBE(w, marker|value, width)
}

// WriteUnknownSize emits the 8-byte "size unknown" sentinel in place of
// a size field.
func WriteUnknownSize(w Writer) error {
	return writeBE(w, UnknownSize, 8)
}

// WriteUint emits a complete unsigned-integer element: ID, size, then
// the value at its minimal big-endian width.
func WriteUint(w Writer, id, value uint64) error {
	if err := WriteID(w, id); err != nil {
		return err
	}
	n := UintSize(value)
	if err := WriteVint(w, uint64(n)); err != nil {
		return err
	}
	return writeBE(w, value, n)
}

// WriteFloat emits a complete float element with a 4-byte IEEE-754
// big-endian payload.
func WriteFloat(w Writer, id uint64, value float64) error {
	if err := WriteID(w, id); err != nil {
		return err
	}
	if err := WriteVint(w, 4); err != nil {
		return err
	}
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], math.Float32bits(float32(value)))
	_, err := w.Write(buf[:])
	return err
}

// WriteString emits a complete string element. No terminator; the length
// lives entirely in the size field.
func WriteString(w Writer, id uint64, s string) error {
	return WriteBinary(w, id, []byte(s))
}

// WriteBinary emits a complete binary element.
func WriteBinary(w Writer, id uint64, data []byte) error {
	if err := WriteID(w, id); err != nil {
		return err
	}
	if err := WriteVint(w, uint64(len(data))); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}

// WriteMaster emits a master element header: the ID followed by
// payloadSize as an 8-byte vint. Master sizes are always full width so a
// finalize pass can back-patch them without shifting the payload.
func WriteMaster(w Writer, id, payloadSize uint64) error {
	if err := WriteID(w, id); err != nil {
		return err
	}
	return WriteVintWidth(w, payloadSize, 8)
}

// WriteVoid emits a Void element whose total size, ID and length field
// included, is exactly totalSize bytes. The payload is zero-filled.
func WriteVoid(w Writer, totalSize uint64) error {
	if totalSize < 2 {
		return fmt.Errorf("ebml: void of %d bytes is too small", totalSize)
	}
	sizeLen := 1
	for ; sizeLen < 8; sizeLen++ {
		if totalSize-1-uint64(sizeLen) < uint64(1)<<(7*sizeLen)-1 {
			break
		}
	}
	entry := totalSize - 1 - uint64(sizeLen)
	if err := WriteID(w, IDVoid); err != nil {
		return err
	}
	if err := WriteVintWidth(w, entry, sizeLen); err != nil {
		return err
	}
	_, err := w.Write(make([]byte, entry))
	return err
}

// UintElementSize returns the serialized size of a complete unsigned
// integer element.
func UintElementSize(id, value uint64) uint64 {
	n := UintSize(value)
	return uint64(IDSize(id)) + uint64(VintSize(uint64(n))) + uint64(n)
}

// FloatElementSize returns the serialized size of a complete 4-byte
// float element.
func FloatElementSize(id uint64) uint64 {
	return uint64(IDSize(id)) + 1 + 4
}

// StringElementSize returns the serialized size of a complete string
// element.
func StringElementSize(id uint64, s string) uint64 {
	return uint64(IDSize(id)) + uint64(VintSize(uint64(len(s)))) + uint64(len(s))
}

// BinaryElementSize returns the serialized size of a complete binary
// element.
func BinaryElementSize(id uint64, data []byte) uint64 {
	return uint64(IDSize(id)) + uint64(VintSize(uint64(len(data)))) + uint64(len(data))
}

// MasterHeaderSize returns the size of a master element's header: the ID
// plus the fixed 8-byte size vint. The payload is not included.
func MasterHeaderSize(id uint64) uint64 {
	return uint64(IDSize(id)) + 8
}

func writeBE(w Writer, value uint64, width int) error {
	var buf [8]byte
	for i := width - 1; i >= 0; i-- {
		buf[i] = byte(value)
		value >>= 8
	}
	_, err := w.Write(buf[:width])
	return err
}
