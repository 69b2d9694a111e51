package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fbz-tec/csvstream/internal/logger"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// codec is a single-stream compressor with its conventional file extension.
type codec struct {
	name      string
	extension string
	newWriter func(io.Writer) (io.WriteCloser, error)
}

var codecs = map[string]codec{
	GZIP: {
		name:      "gzip",
		extension: ".gz",
		newWriter: func(w io.Writer) (io.WriteCloser, error) { return gzip.NewWriter(w), nil },
	},
	ZSTD: {
		name:      "zstd",
		extension: ".zst",
		newWriter: func(w io.Writer) (io.WriteCloser, error) { return zstd.NewWriter(w) },
	},
	LZ4: {
		name:      "lz4",
		extension: ".lz4",
		newWriter: func(w io.Writer) (io.WriteCloser, error) { return lz4.NewWriter(w), nil },
	},
}

func newCompressedFileWriter(path string, c codec) (io.WriteCloser, error) {
	if !strings.HasSuffix(strings.ToLower(path), c.extension) {
		path += c.extension
	}
	logger.Debug("Creating %s-compressed output file: %s", c.name, path)
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("error creating file: %w", err)
	}
	w, err := c.wrapCloser(file)
	if err != nil {
		file.Close()
		return nil, err
	}
	return w, nil
}

// wrapCloser compresses into dst; Close finalizes the stream and then closes dst.
func (c codec) wrapCloser(dst io.WriteCloser) (io.WriteCloser, error) {
	start := time.Now()
	cw, err := c.newWriter(dst)
	if err != nil {
		return nil, fmt.Errorf("error creating %s writer: %w", c.name, err)
	}
	return &compositeWriteCloser{
		Writer: cw,
		closeFunc: func() error {
			err := cw.Close()
			if derr := dst.Close(); derr != nil && err == nil {
				err = derr
			}
			logger.Debug("%s stream closed in %v", c.name, time.Since(start))
			return err
		},
	}, nil
}
