package snpk

// Core format constants that never change.

// MagicBytes identifies a StoryNode package trailer ("SNPK").
var MagicBytes = [4]byte{0x53, 0x4E, 0x50, 0x4B}

const (
	// TrailerSize is the fixed size of the trailer at the end of the host binary.
	TrailerSize = 12

	// Field offsets inside the trailer.
	OffsetArchiveSize = 0 // u64 little-endian
	OffsetMagic       = 8 // 4 bytes

	SizeFieldLength  = 8
	MagicFieldLength = 4
)
