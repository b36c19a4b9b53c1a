// Package responsewriter records what a handler wrote to an
// http.ResponseWriter so middlewares can report on it afterwards.
package responsewriter

import (
	"net/http"
)

// Recorder wraps a ResponseWriter and remembers the status code and the
// number of body bytes written.
type Recorder struct {
	http.ResponseWriter

	status  int
	written int64
}

// Wrap returns w as a Recorder, reusing it if it already is one.
func Wrap(w http.ResponseWriter) *Recorder {
	if rec, ok := w.(*Recorder); ok {
		return rec
	}

	return &Recorder{ResponseWriter: w}
}

func (r *Recorder) WriteHeader(status int) {
	if r.status == 0 {
		r.status = status
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *Recorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.written += int64(n)

	return n, err
}

// Status is the code sent to the client, http.StatusOK if the handler
// wrote nothing.
func (r *Recorder) Status() int {
	if r.status == 0 {
		return http.StatusOK
	}

	return r.status
}

func (r *Recorder) Written() int64 {
	return r.written
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (r *Recorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
