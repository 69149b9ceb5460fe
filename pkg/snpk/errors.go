package snpk

import "errors"

var (
	// Format errors 📦
	ErrShortTrailer      = errors.New("❌ file shorter than SNPK trailer")
	ErrInvalidMagic      = errors.New("❌ invalid SNPK magic")
	ErrArchiveOutOfRange = errors.New("❌ archive size exceeds file length")
)
