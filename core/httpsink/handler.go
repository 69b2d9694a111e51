package httpsink

import (
	"errors"
	"net/http"

	"github.com/fbz-tec/csvstream/core/csvstream"
	"github.com/fbz-tec/csvstream/core/metrics"
	"github.com/fbz-tec/csvstream/internal/logger"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// OpenFunc prepares the encoder for one request and the download name of
// its body. Errors wrapped with BadRequest are reported as 400.
type OpenFunc[T any] func(r *http.Request) (enc *csvstream.Encoder[T], fileName string, err error)

type badRequestError struct {
	err error
}

func (e *badRequestError) Error() string { return e.err.Error() }
func (e *badRequestError) Unwrap() error { return e.err }

// BadRequest marks err as caused by the request.
func BadRequest(err error) error {
	if err == nil {
		return nil
	}
	return &badRequestError{err: err}
}

// Handler serves one CSV export per request.
type Handler[T any] struct {
	open OpenFunc[T]
}

// NewHandler returns a handler that streams the encoder built by open.
func NewHandler[T any](open OpenFunc[T]) *Handler[T] {
	return &Handler[T]{open: open}
}

func (h *Handler[T]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.Header.Get(requestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	w.Header().Set(requestIDHeader, id)

	enc, fileName, err := h.open(r)
	if err != nil {
		var bad *badRequestError
		if errors.As(err, &bad) {
			logger.Warn("[%s] rejected export request: %v", id, err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.Error("[%s] cannot start export: %v", id, err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	defer enc.Close()

	done := metrics.Track(metrics.SinkHTTP)
	res, err := Write(r.Context(), w, enc, WriteOptions{FileName: fileName})
	done(res.Chunks, res.Bytes, err)

	if err != nil {
		logger.Error("[%s] export failed after %d bytes: %v", id, res.Bytes, err)
		if !res.Committed {
			w.Header().Del("Content-Disposition")
			http.Error(w, "export failed", http.StatusInternalServerError)
			return
		}
		// Headers are out; only a broken connection tells the client the
		// body is truncated.
		panic(http.ErrAbortHandler)
	}

	logger.Info("[%s] exported %d records (%d bytes, %d chunks) in %v",
		id, res.Records, res.Bytes, res.Chunks, res.Duration)
}
