package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
)

var (
	zipLocalHeader = []byte("PK\x03\x04")
	zipEmptyEOCD   = []byte("PK\x05\x06")
)

func init() {
	// Register ZIP codec on package init
	Register(&ZipCodec{})
}

// ZipCodec reads ZIP archives
type ZipCodec struct{}

func (c *ZipCodec) Format() Format {
	return FormatZip
}

func (c *ZipCodec) Match(data []byte) bool {
	return bytes.HasPrefix(data, zipLocalHeader) || bytes.HasPrefix(data, zipEmptyEOCD)
}

// Walk visits entries in central directory order
func (c *ZipCodec) Walk(data []byte, fn WalkFunc) error {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("opening zip archive: %w", err)
	}

	for _, f := range zr.File {
		if isDirName(f.Name) {
			if err := fn(Entry{Name: f.Name, Kind: KindDir, Mode: f.Mode()}, nil); err != nil {
				return err
			}
			continue
		}

		entry := Entry{
			Name: f.Name,
			Kind: KindFile,
			Size: int64(f.UncompressedSize64),
			Mode: f.Mode(),
		}
		if err := c.visitFile(f, entry, fn); err != nil {
			return err
		}
	}

	return nil
}

func (c *ZipCodec) visitFile(f *zip.File, entry Entry, fn WalkFunc) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("opening %q: %w", f.Name, err)
	}
	defer rc.Close()

	return fn(entry, rc)
}
