package archive

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"

	"github.com/dsnet/compress/bzip2"
)

var (
	gzipMagic  = []byte{0x1f, 0x8b}
	bzip2Magic = []byte("BZh")
)

func init() {
	Register(NewTarGzipCodec())
	Register(NewTarBzip2Codec())
}

// TarCodec reads a TAR stream wrapped in a compression layer
type TarCodec struct {
	format     Format
	magic      []byte
	decompress func(r io.Reader) (io.ReadCloser, error)
}

// NewTarGzipCodec creates a codec for .tar.gz archives
func NewTarGzipCodec() *TarCodec {
	return &TarCodec{
		format: FormatTarGzip,
		magic:  gzipMagic,
		decompress: func(r io.Reader) (io.ReadCloser, error) {
			gr, err := gzip.NewReader(r)
			if err != nil {
				return nil, fmt.Errorf("creating gzip reader: %w", err)
			}
			return gr, nil
		},
	}
}

// NewTarBzip2Codec creates a codec for .tar.bz2 archives
func NewTarBzip2Codec() *TarCodec {
	return &TarCodec{
		format: FormatTarBzip2,
		magic:  bzip2Magic,
		decompress: func(r io.Reader) (io.ReadCloser, error) {
			br, err := bzip2.NewReader(r, nil)
			if err != nil {
				return nil, fmt.Errorf("creating bzip2 reader: %w", err)
			}
			return br, nil
		},
	}
}

func (c *TarCodec) Format() Format {
	return c.format
}

func (c *TarCodec) Match(data []byte) bool {
	return bytes.HasPrefix(data, c.magic)
}

// Walk visits entries in stream order
func (c *TarCodec) Walk(data []byte, fn WalkFunc) error {
	stream, err := c.decompress(bytes.NewReader(data))
	if err != nil {
		return err
	}
	defer stream.Close()

	tr := tar.NewReader(stream)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading tar header: %w", err)
		}

		info := header.FileInfo()
		entry := Entry{Name: header.Name, Mode: info.Mode()}

		switch {
		case info.IsDir() || isDirName(header.Name):
			entry.Kind = KindDir
			err = fn(entry, nil)
		case info.Mode().IsRegular():
			entry.Kind = KindFile
			entry.Size = header.Size
			err = fn(entry, tr)
		default:
			entry.Kind = KindOther
			err = fn(entry, nil)
		}
		if err != nil {
			return err
		}
	}
}
