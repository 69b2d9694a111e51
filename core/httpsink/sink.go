// Package httpsink streams encoder output as HTTP response bodies.
package httpsink

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/fbz-tec/csvstream/core/csvstream"
)

// WriteOptions control the response around the CSV body.
type WriteOptions struct {
	// FileName, when set, is sent as an attachment Content-Disposition.
	FileName string
	// Status defaults to 200.
	Status int
}

// Result reports what reached the client.
type Result struct {
	csvstream.ExportStats
	// Committed is true once the status line and headers were sent; an
	// error after that point can only be signalled by aborting the
	// connection.
	Committed bool
}

// Write sends the encoder output as the response body. With BufferOutput
// the whole body is produced first and sent with a Content-Length, so a
// failure leaves the response untouched. Otherwise each chunk is written
// and flushed as soon as it is encoded. Write stops when ctx is done.
func Write[T any](ctx context.Context, w http.ResponseWriter, enc *csvstream.Encoder[T], opts WriteOptions) (Result, error) {
	start := time.Now()
	setHeaders(w, enc.ContentType(), opts.FileName)
	status := opts.Status
	if status == 0 {
		status = http.StatusOK
	}

	var (
		res Result
		err error
	)
	if enc.Options().BufferOutput {
		res, err = writeBuffered(ctx, w, enc, status)
	} else {
		res, err = writeStreaming(ctx, w, enc, status)
	}

	res.Lines = enc.Lines()
	res.Records = enc.Records()
	res.Duration = time.Since(start)
	return res, err
}

func writeBuffered[T any](ctx context.Context, w http.ResponseWriter, enc *csvstream.Encoder[T], status int) (Result, error) {
	var (
		res  Result
		body bytes.Buffer
	)
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		chunk, err := enc.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, err
		}
		body.Write(chunk)
		res.Chunks++
	}

	w.Header().Set("Content-Length", strconv.Itoa(body.Len()))
	w.WriteHeader(status)
	res.Committed = true

	n, err := w.Write(body.Bytes())
	res.Bytes = int64(n)
	return res, err
}

func writeStreaming[T any](ctx context.Context, w http.ResponseWriter, enc *csvstream.Encoder[T], status int) (Result, error) {
	var res Result
	rc := http.NewResponseController(w)

	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		chunk, err := enc.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, err
		}

		if !res.Committed {
			w.WriteHeader(status)
			res.Committed = true
		}
		n, err := w.Write(chunk)
		res.Bytes += int64(n)
		if err != nil {
			return res, err
		}
		res.Chunks++
		if err := rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
			return res, err
		}
	}

	if !res.Committed {
		w.Header().Set("Content-Length", "0")
		w.WriteHeader(status)
		res.Committed = true
	}
	return res, nil
}

func setHeaders(w http.ResponseWriter, contentType, fileName string) {
	h := w.Header()
	h.Set("Content-Type", contentType)
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("Cache-Control", "no-store")
	if fileName != "" {
		h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": fileName}))
	}
}
