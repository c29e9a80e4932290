package webm

import (
	"encoding/binary"

	"github.com/zsiec/webmmux/ebml"
)

// seekHeadSlots is the number of top-level elements the SeekHead can
// index: Info, Tracks, the first Cluster, Cues, and one spare.
const seekHeadSlots = 5

// seekEntrySize is the fixed serialized size of one Seek entry: the
// Seek master header, a 4-byte SeekID payload, and an 8-byte
// SeekPosition payload. Entries are fixed-width so the reservation made
// before the payload positions are known is exact.
const seekEntrySize = 10 + 7 + 11

// SeekHead reserves space for a seek index near the start of the
// segment and back-patches it with real positions during finalize. On a
// non-seekable sink the reservation is skipped and the index is never
// written.
type SeekHead struct {
	ids       [seekHeadSlots]uint64
	positions [seekHeadSlots]uint64
	count     int

	start    int64
	reserved bool
}

// reservedSize returns the byte length of the Void placeholder: the
// SeekHead master header plus all slots at fixed entry width.
func (sh *SeekHead) reservedSize() uint64 {
	return ebml.MasterHeaderSize(ebml.IDSeekHead) + seekHeadSlots*seekEntrySize
}

// Reserve writes a Void placeholder large enough for a fully populated
// SeekHead at the current position.
func (sh *SeekHead) Reserve(w ebml.Writer) error {
	sh.start = w.Position()
	if err := ebml.WriteVoid(w, sh.reservedSize()); err != nil {
		return err
	}
	sh.reserved = true
	return nil
}

// AddEntry records the segment-payload-relative position of a top-level
// element in the next free slot. Duplicate IDs are not detected; once
// all slots are used it returns ErrSeekHeadFull.
func (sh *SeekHead) AddEntry(id uint64, position uint64) error {
	if sh.count >= seekHeadSlots {
		return ErrSeekHeadFull
	}
	sh.ids[sh.count] = id
	sh.positions[sh.count] = position
	sh.count++
	return nil
}

// Len returns the number of recorded entries.
func (sh *SeekHead) Len() int { return sh.count }

// Finalize overwrites the Void placeholder with the populated SeekHead,
// re-voiding whatever reserved space the entries do not use. With no
// entries the placeholder is left as plain Void.
func (sh *SeekHead) Finalize(w ebml.Writer) error {
	if !sh.reserved || !w.Seekable() || sh.count == 0 {
		return nil
	}
	end := w.Position()
	if err := w.SetPosition(sh.start); err != nil {
		return err
	}
	payload := uint64(sh.count) * seekEntrySize
	if err := ebml.WriteMaster(w, ebml.IDSeekHead, payload); err != nil {
		return err
	}
	for i := 0; i < sh.count; i++ {
		if err := writeSeekEntry(w, sh.ids[i], sh.positions[i]); err != nil {
			return err
		}
	}
	used := ebml.MasterHeaderSize(ebml.IDSeekHead) + payload
	if unused := sh.reservedSize() - used; unused > 0 {
		if err := ebml.WriteVoid(w, unused); err != nil {
			return err
		}
	}
	return w.SetPosition(end)
}

// writeSeekEntry emits one fixed-width Seek master. The SeekID payload
// is always the 4 raw ID bytes and the SeekPosition payload is always
// an 8-byte big-endian value, matching seekEntrySize.
func writeSeekEntry(w ebml.Writer, id uint64, position uint64) error {
	const payload = 7 + 11
	if err := ebml.WriteMaster(w, ebml.IDSeek, payload); err != nil {
		return err
	}
	var idBytes [4]byte
	binary.BigEndian.PutUint32(idBytes[:], uint32(id))
	if err := ebml.WriteBinary(w, ebml.IDSeekID, idBytes[:]); err != nil {
		return err
	}
	if err := ebml.WriteID(w, ebml.IDSeekPosition); err != nil {
		return err
	}
	if err := ebml.WriteVintWidth(w, 8, 1); err != nil {
		return err
	}
	var posBytes [8]byte
	binary.BigEndian.PutUint64(posBytes[:], position)
	_, err := w.Write(posBytes[:])
	return err
}
