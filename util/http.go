package util

import (
	"net/http"
	"strings"
	"sync"
)

// Mount serves handler below prefix. The prefix is stripped from request paths and prepended to local redirect locations,
// so handlers can redirect to "/edit" regardless of where the site is mounted.
func Mount(mux *http.ServeMux, prefix string, handler http.Handler) {
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix != "" {
		handler = relocator{prefix: prefix, next: handler}
	}
	mux.Handle(prefix+"/", http.StripPrefix(prefix, handler)) // http mux needs trailing slash
}

type relocator struct {
	prefix string // without trailing slash
	next   http.Handler
}

func (rl relocator) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rl.next.ServeHTTP(&locationWriter{ResponseWriter: w, prefix: rl.prefix}, r)
}

type locationWriter struct {
	http.ResponseWriter
	prefix string
}

// WriteHeader shadows and calls http.ResponseWriter.WriteHeader.
func (w *locationWriter) WriteHeader(statusCode int) {
	// local paths only, "//host/path" leaves the site
	if location := w.Header().Get("Location"); strings.HasPrefix(location, "/") && !strings.HasPrefix(location, "//") {
		w.Header().Set("Location", w.prefix+location)
	}
	w.ResponseWriter.WriteHeader(statusCode)
}

// Unwrap is used by http.ResponseController.
func (w *locationWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// InFlight counts running requests, so the server can wait for them on shutdown.
type InFlight struct {
	wg sync.WaitGroup
}

func (f *InFlight) Handler(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.wg.Add(1)
		defer f.wg.Done()
		h.ServeHTTP(w, r)
	})
}

// Wait blocks until all requests have returned.
func (f *InFlight) Wait() {
	f.wg.Wait()
}
