package ui

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// NewProgressBar renders written bytes on out. total < 0 means unknown size,
// which shows a spinner instead of a percentage.
func NewProgressBar(out io.Writer, total int64) *progressbar.ProgressBar {
	return progressbar.NewOptions64(total,
		progressbar.OptionSetDescription("Writing CSV"),
		progressbar.OptionEnableColorCodes(false),
		progressbar.OptionSetWriter(out),
		progressbar.OptionShowBytes(true),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(15),
	)
}

// TrackWrites returns a writer that forwards to w and advances bar by the
// number of bytes each write accepted.
func TrackWrites(w io.Writer, bar *progressbar.ProgressBar) io.Writer {
	return &trackingWriter{w: w, bar: bar}
}

type trackingWriter struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

func (t *trackingWriter) Write(p []byte) (int, error) {
	n, err := t.w.Write(p)
	if n > 0 {
		_ = t.bar.Add(n)
	}
	return n, err
}
