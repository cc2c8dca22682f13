package util

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestTrunc(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxRunes int
		want     string
	}{
		{"short", "abc", 5, "abc"},
		{"exact", "abcde", 5, "abcde"},
		{"cut", "abcdef", 5, "abcde"},
		{"cyrillic", "Привет, мир", 6, "Привет"},
		{"trailing space", "ab cd", 3, "ab"},
		{"no limit", "  abc ", 0, "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Trunc(tt.input, tt.maxRunes); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxRunes int
		want     string
	}{
		{"plain", "Hello world", 100, "Hello world"},
		{"tags", "<p>Hello</p><p><b>bold</b>  world</p>", 100, "Hello bold world"},
		{"script", "a<script>alert(1)</script>b", 100, "a b"},
		{"entities", "Tom &amp; Jerry", 100, "Tom & Jerry"},
		{"newlines", "line one\n\nline two", 100, "line one line two"},
		{"truncated", "Новости дня", 7, "Новости…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PlainText(strings.NewReader(tt.input), tt.maxRunes); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMount(t *testing.T) {
	var mux = http.NewServeMux()
	var redirect = func(location string) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/" {
				w.Header().Set("Location", location)
				w.WriteHeader(http.StatusSeeOther)
				return
			}
			w.Write([]byte(r.URL.Path))
		})
	}
	Mount(mux, "/news/", redirect("/edit"))
	Mount(mux, "/away", redirect("//example.org/edit"))
	Mount(mux, "", redirect("/edit"))

	tests := []struct {
		path     string
		body     string
		location string
	}{
		{path: "/news/detail/1", body: "/detail/1"},
		{path: "/news/", location: "/news/edit"},
		{path: "/away/", location: "//example.org/edit"},
		{path: "/detail/2", body: "/detail/2"},
		{path: "/", location: "/edit"},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if got := rec.Body.String(); tt.body != "" && got != tt.body {
			t.Fatalf("%s: got path %q, want %q", tt.path, got, tt.body)
		}
		if got := rec.Header().Get("Location"); got != tt.location {
			t.Fatalf("%s: got location %q, want %q", tt.path, got, tt.location)
		}
	}
}

func TestInFlight(t *testing.T) {
	var inFlight InFlight
	var started = make(chan struct{})
	var release = make(chan struct{})

	h := inFlight.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
	}))
	go h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	<-started

	var done = make(chan struct{})
	go func() {
		inFlight.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Wait returned while a request is running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Wait did not return")
	}
}
