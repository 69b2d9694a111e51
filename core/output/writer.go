package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fbz-tec/csvstream/internal/logger"
)

const (
	None = "none"
	GZIP = "gzip"
	ZIP  = "zip"
	ZSTD = "zstd"
	LZ4  = "lz4"
)

// Stdout is the output path that writes to standard output.
const Stdout = "-"

const fileBufferSize = 256 * 1024

// stdout is swapped in tests.
var stdout io.Writer = os.Stdout

// OutputConfig holds configuration for output file creation.
type OutputConfig struct {
	Path        string
	Compression string
	Format      string
}

// CreateWriter creates a new writer based on the output configuration.
// Supports various compression formats: none, gzip, zip, zstd, lz4.
// A Path of "-" writes to standard output, which is never closed.
// Returns an error if the compression type is unsupported or file creation fails.
func CreateWriter(cfg OutputConfig) (io.WriteCloser, error) {
	compression := strings.ToLower(strings.TrimSpace(cfg.Compression))
	if compression == "" {
		compression = None
	}

	if cfg.Path == Stdout {
		return newStreamWriter(stdout, compression, cfg.Format)
	}

	switch compression {
	case None:
		return newFileWriter(cfg.Path)
	case ZIP:
		return newZipWriter(cfg.Path, cfg.Format)
	}

	c, ok := codecs[compression]
	if !ok {
		return nil, fmt.Errorf("unsupported compression type %q", cfg.Compression)
	}
	return newCompressedFileWriter(cfg.Path, c)
}

func newFileWriter(path string) (io.WriteCloser, error) {
	logger.Debug("Creating uncompressed output file: %s", path)
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("error creating file: %w", err)
	}
	return newBufferedWriteCloser(file, fileBufferSize), nil
}

// newStreamWriter writes to w, compressing if asked, and leaves w open on Close.
func newStreamWriter(w io.Writer, compression, format string) (io.WriteCloser, error) {
	logger.Debug("Writing %s output to stdout", compression)
	base := newBufferedWriteCloser(nopWriteCloser{w}, fileBufferSize)

	switch compression {
	case None:
		return base, nil
	case ZIP:
		return newZipArchive(base, determineZipEntryName("export.zip", format))
	}

	c, ok := codecs[compression]
	if !ok {
		return nil, fmt.Errorf("unsupported compression type %q", compression)
	}
	return c.wrapCloser(base)
}
