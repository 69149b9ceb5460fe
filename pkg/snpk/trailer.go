// Package snpk implements the StoryNode package trailer: a 12-byte footer
// appended after a project archive at the end of a player executable.
//
//	[... archive: ArchiveSize bytes ...][ArchiveSize: u64 LE][magic: "SNPK"]
package snpk

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Trailer represents the SNPK trailer (12 bytes)
type Trailer struct {
	ArchiveSize uint64  // Length of the archive immediately before the trailer
	Magic       [4]byte // Always MagicBytes for a valid trailer
}

// NewTrailer returns a trailer describing an archive of the given size.
func NewTrailer(archiveSize uint64) Trailer {
	return Trailer{ArchiveSize: archiveSize, Magic: MagicBytes}
}

// Pack serializes the trailer to bytes
func (t *Trailer) Pack() []byte {
	buf := make([]byte, TrailerSize)

	binary.LittleEndian.PutUint64(buf[OffsetArchiveSize:OffsetArchiveSize+SizeFieldLength], t.ArchiveSize)
	copy(buf[OffsetMagic:OffsetMagic+MagicFieldLength], t.Magic[:])

	return buf
}

// Unpack deserializes the trailer from exactly TrailerSize bytes. It does not
// check the magic; use DecodeTrailer for that.
func (t *Trailer) Unpack(data []byte) error {
	if len(data) != TrailerSize {
		return fmt.Errorf("invalid trailer size: %d", len(data))
	}

	t.ArchiveSize = binary.LittleEndian.Uint64(data[OffsetArchiveSize : OffsetArchiveSize+SizeFieldLength])
	copy(t.Magic[:], data[OffsetMagic:OffsetMagic+MagicFieldLength])

	return nil
}

// Valid reports whether the magic matches exactly.
func (t *Trailer) Valid() bool {
	return t.Magic == MagicBytes
}

// DecodeTrailer decodes the trailer held in the last TrailerSize bytes of buf.
// buf may be the whole file or just its tail.
func DecodeTrailer(buf []byte) (*Trailer, error) {
	if len(buf) < TrailerSize {
		return nil, ErrShortTrailer
	}

	tail := buf[len(buf)-TrailerSize:]
	if !bytes.Equal(tail[OffsetMagic:], MagicBytes[:]) {
		return nil, ErrInvalidMagic
	}

	trailer := &Trailer{}
	if err := trailer.Unpack(tail); err != nil {
		return nil, err
	}
	return trailer, nil
}

// ArchiveRange returns the [start, end) byte range of the archive inside a
// file of fileSize bytes, or ErrArchiveOutOfRange when the trailer claims
// more data than the file holds.
func (t *Trailer) ArchiveRange(fileSize int64) (int64, int64, error) {
	if fileSize < TrailerSize {
		return 0, 0, ErrShortTrailer
	}
	available := uint64(fileSize - TrailerSize)
	if t.ArchiveSize > available {
		return 0, 0, fmt.Errorf("%w: archive_size=%d, available=%d", ErrArchiveOutOfRange, t.ArchiveSize, available)
	}

	end := fileSize - TrailerSize
	return end - int64(t.ArchiveSize), end, nil
}

// AppendArchive writes archive followed by its trailer to w.
func AppendArchive(w io.Writer, archive []byte) error {
	if _, err := w.Write(archive); err != nil {
		return fmt.Errorf("writing archive: %w", err)
	}
	trailer := NewTrailer(uint64(len(archive)))
	if _, err := w.Write(trailer.Pack()); err != nil {
		return fmt.Errorf("writing trailer: %w", err)
	}
	return nil
}
