package snpk

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
)

// Reader reads the trailer and embedded archive of a host binary
type Reader struct {
	path    string
	file    *os.File
	size    int64
	trailer *Trailer
	logger  hclog.Logger
}

// NewReader creates a new SNPK reader
func NewReader(path string) *Reader {
	return NewReaderWithLogger(path, hclog.NewNullLogger())
}

// NewReaderWithLogger creates a new SNPK reader with a custom logger
func NewReaderWithLogger(path string, logger hclog.Logger) *Reader {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Reader{
		path:   path,
		logger: logger,
	}
}

// Open opens the host binary
func (r *Reader) Open() error {
	if r.file != nil {
		return nil
	}

	file, err := os.Open(r.path)
	if err != nil {
		return err
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return err
	}

	r.file = file
	r.size = info.Size()
	return nil
}

// Close closes the host binary
func (r *Reader) Close() error {
	if r.file != nil {
		err := r.file.Close()
		r.file = nil
		return err
	}
	return nil
}

// Size returns the length of the host binary in bytes.
func (r *Reader) Size() (int64, error) {
	if err := r.Open(); err != nil {
		return 0, err
	}
	return r.size, nil
}

// ReadTrailer reads and validates the last TrailerSize bytes
func (r *Reader) ReadTrailer() (*Trailer, error) {
	if r.trailer != nil {
		return r.trailer, nil
	}

	if err := r.Open(); err != nil {
		return nil, err
	}

	if r.size < TrailerSize {
		return nil, ErrShortTrailer
	}

	buf := make([]byte, TrailerSize)
	if _, err := r.file.ReadAt(buf, r.size-TrailerSize); err != nil {
		return nil, fmt.Errorf("reading trailer: %w", err)
	}

	trailer, err := DecodeTrailer(buf)
	if err != nil {
		return nil, err
	}

	r.logger.Trace("Found SNPK trailer", "archive_size", trailer.ArchiveSize, "file_size", r.size)

	r.trailer = trailer
	return trailer, nil
}

// ArchiveRange returns the byte range of the embedded archive.
func (r *Reader) ArchiveRange() (int64, int64, error) {
	trailer, err := r.ReadTrailer()
	if err != nil {
		return 0, 0, err
	}
	return trailer.ArchiveRange(r.size)
}

// ReadArchive reads the embedded archive bytes
func (r *Reader) ReadArchive() ([]byte, error) {
	start, end, err := r.ArchiveRange()
	if err != nil {
		return nil, err
	}

	data := make([]byte, end-start)
	if _, err := r.file.ReadAt(data, start); err != nil {
		return nil, fmt.Errorf("reading archive: %w", err)
	}

	r.logger.Debug("📦 Read embedded archive", "offset", start, "size", len(data))
	return data, nil
}

// LocateArchive reports the archive size announced by a valid trailer whose
// range fits inside the file. Every failure is reported as absence.
func LocateArchive(path string, logger hclog.Logger) (uint64, bool) {
	reader := NewReaderWithLogger(path, logger)
	defer reader.Close()

	if _, _, err := reader.ArchiveRange(); err != nil {
		reader.logger.Debug("🔍 No embedded archive", "path", path, "reason", err)
		return 0, false
	}
	return reader.trailer.ArchiveSize, true
}

// ReadEmbedded returns the embedded archive of the binary at path. Missing
// files, I/O errors, short files, bad magic and out-of-range sizes are all
// reported as absence: a development build simply has no trailer.
func ReadEmbedded(path string, logger hclog.Logger) ([]byte, bool) {
	reader := NewReaderWithLogger(path, logger)
	defer reader.Close()

	data, err := reader.ReadArchive()
	if err != nil {
		reader.logger.Debug("🔍 No embedded archive", "path", path, "reason", err)
		return nil, false
	}
	return data, true
}
