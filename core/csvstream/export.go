package csvstream

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fbz-tec/csvstream/internal/logger"
)

// ExportStats summarises a finished (or failed) export.
type ExportStats struct {
	Chunks   int
	Bytes    int64
	Lines    int
	Records  int
	Duration time.Duration
}

// Export drives the encoder to completion and writes every chunk to w, in
// order. A write error stops the export and is returned as-is; nothing is
// retried, a failed export has to be restarted from its records.
func Export[T any](enc *Encoder[T], w io.Writer) (ExportStats, error) {
	start := time.Now()
	var stats ExportStats

	logger.Debug("Starting CSV stream (delimiter=%q, charset=%s, preamble=%v, header=%v)",
		string(enc.opts.Delimiter), enc.charset.Name, enc.opts.IncludePreamble, enc.opts.Header != nil)

	finish := func() {
		stats.Lines = enc.Lines()
		stats.Records = enc.Records()
		stats.Duration = time.Since(start)
	}

	for {
		chunk, err := enc.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			finish()
			return stats, err
		}

		n, err := w.Write(chunk)
		stats.Bytes += int64(n)
		if err != nil {
			finish()
			return stats, fmt.Errorf("error writing chunk %d: %w", stats.Chunks+1, err)
		}
		stats.Chunks++

		if stats.Chunks%1000 == 0 {
			logger.Debug("%d chunks written (%d records, %d bytes)", stats.Chunks, enc.Records(), stats.Bytes)
		}
	}

	finish()
	logger.Debug("CSV stream completed: %d records, %d chunks, %d bytes in %v",
		stats.Records, stats.Chunks, stats.Bytes, stats.Duration.Round(time.Millisecond))
	return stats, nil
}

// WriteTo implements io.WriterTo.
func (e *Encoder[T]) WriteTo(w io.Writer) (int64, error) {
	stats, err := Export(e, w)
	return stats.Bytes, err
}
