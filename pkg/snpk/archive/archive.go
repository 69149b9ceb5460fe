// Package archive walks the project archives carried in SNPK packages.
//
// A codec is registered per format on package init, and Detect picks one by
// sniffing the leading bytes. Zip is the format the StoryNode editor produces;
// tar+gzip and tar+bzip2 are accepted as well.
package archive

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
)

var (
	ErrUnknownFormat = errors.New("❌ unrecognized archive format")
	ErrUnsafePath    = errors.New("❌ archive entry escapes destination")
)

// Format identifies an archive container
type Format uint8

const (
	FormatUnknown Format = iota
	FormatZip
	FormatTarGzip
	FormatTarBzip2
)

func (f Format) String() string {
	switch f {
	case FormatZip:
		return "zip"
	case FormatTarGzip:
		return "tar+gzip"
	case FormatTarBzip2:
		return "tar+bzip2"
	default:
		return fmt.Sprintf("unknown_%02x", uint8(f))
	}
}

// EntryKind classifies an archive entry
type EntryKind uint8

const (
	KindFile EntryKind = iota
	KindDir
	KindOther // links, devices, fifos: never extracted
)

func (k EntryKind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "dir"
	default:
		return "other"
	}
}

// Entry describes one archive member, in archive order
type Entry struct {
	Name string
	Kind EntryKind
	Size int64 // Uncompressed size; 0 for directories
	Mode fs.FileMode
}

// WalkFunc is called for every entry. For KindFile entries r yields the
// decompressed contents and is only valid until WalkFunc returns; it is nil
// for every other kind. Returning an error stops the walk.
type WalkFunc func(entry Entry, r io.Reader) error

// Codec reads one archive format
type Codec interface {
	// Format returns the format handled by this codec
	Format() Format

	// Match reports whether data starts like this format
	Match(data []byte) bool

	// Walk visits every entry of data in archive order
	Walk(data []byte, fn WalkFunc) error
}

// Registry holds codecs in registration order
var Registry []Codec

// Register registers a codec implementation
func Register(c Codec) {
	Registry = append(Registry, c)
}

// Detect returns the codec matching data
func Detect(data []byte) (Codec, error) {
	for _, c := range Registry {
		if c.Match(data) {
			return c, nil
		}
	}
	if len(data) >= 4 {
		return nil, fmt.Errorf("%w: leading bytes % x", ErrUnknownFormat, data[:4])
	}
	return nil, fmt.Errorf("%w: %d bytes", ErrUnknownFormat, len(data))
}

// Walk detects the format of data and visits its entries
func Walk(data []byte, fn WalkFunc) error {
	codec, err := Detect(data)
	if err != nil {
		return err
	}
	return codec.Walk(data, fn)
}

// List returns the entries of data without reading file contents
func List(data []byte) ([]Entry, error) {
	var entries []Entry
	err := Walk(data, func(entry Entry, _ io.Reader) error {
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Verify decompresses every file entry and discards the output, surfacing
// stream and checksum errors. It returns the number of entries visited.
func Verify(data []byte) (int, error) {
	count := 0
	err := Walk(data, func(entry Entry, r io.Reader) error {
		count++
		if r == nil {
			return nil
		}
		if _, err := io.Copy(io.Discard, r); err != nil {
			return fmt.Errorf("verify %q: %w", entry.Name, err)
		}
		return nil
	})
	return count, err
}

// SafeJoin resolves an archive entry name below root. Absolute names and
// names that climb out of root are rejected.
func SafeJoin(root, name string) (string, error) {
	rel := filepath.FromSlash(strings.TrimSuffix(name, "/"))
	if rel == "" || !filepath.IsLocal(rel) {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, name)
	}
	return filepath.Join(root, rel), nil
}

// isDirName reports the trailing separator convention for directories
func isDirName(name string) bool {
	return strings.HasSuffix(name, "/")
}
