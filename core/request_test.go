package core

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"golang.org/x/text/language"
)

func TestFormatDateTime(t *testing.T) {
	ts := time.Date(2024, time.March, 5, 14, 7, 0, 0, time.Local).Unix()

	tests := []struct {
		lang language.Tag
		want string
	}{
		{language.Russian, "5 марта 2024 14:07"},
		{language.AmericanEnglish, "March 5, 2024 2:07 PM"},
	}

	for _, tt := range tests {
		req := &Request{language: tt.lang}
		if got := req.FormatDateTime(ts); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.lang, got, tt.want)
		}
	}
}

func TestLanguage(t *testing.T) {
	tests := []struct {
		defaultLang string
		header      string
		want        string
	}{
		{"en", "", "en"},
		{"en", "ru-RU,ru;q=0.9", "ru"},
		{"en", "de-DE", "en"},
		{"ru", "en-GB,en;q=0.8", "en"},
		{"", "de-DE", "ru"},
	}

	for _, tt := range tests {
		db := &CoreDB{DefaultLanguage: tt.defaultLang, SessionManager: scs.New()}

		var got string
		handler := db.SessionManager.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = db.NewRequest(w, r).Lang()
		}))

		httpreq := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			httpreq.Header.Set("Accept-Language", tt.header)
		}
		handler.ServeHTTP(httptest.NewRecorder(), httpreq)

		if got != tt.want {
			t.Errorf("default %q, header %q: got %s, want %s", tt.defaultLang, tt.header, got, tt.want)
		}
	}
}
