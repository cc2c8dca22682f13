package upload

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestCheckImage(t *testing.T) {
	format, err := CheckImage(pngBytes(t))
	if err != nil {
		t.Fatalf("CheckImage returned error: %v", err)
	}
	if format != "png" {
		t.Fatalf("expected png, got %s", format)
	}

	if _, err := CheckImage([]byte("GIF89 but not really")); !errors.Is(err, ErrNoImage) {
		t.Fatalf("expected ErrNoImage, got %v", err)
	}
}

func TestRead(t *testing.T) {
	data := pngBytes(t)

	tests := []struct {
		name    string
		data    []byte
		max     int64
		wantErr error
	}{
		{name: "png", data: data, max: 1 << 20},
		{name: "exact size", data: data, max: int64(len(data))},
		{name: "text", data: []byte("hello"), max: 1 << 20, wantErr: ErrNoImage},
		{name: "too large", data: data, max: 10, wantErr: ErrTooLarge},
		{name: "one byte too large", data: data, max: int64(len(data)) - 1, wantErr: ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Read(bytes.NewReader(tt.data), tt.max)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Read returned error: %v", err)
			}
			if !strings.HasSuffix(img.Name, ".png") {
				t.Fatalf("expected .png name, got %s", img.Name)
			}
			if img.ContentType != "image/png" {
				t.Fatalf("unexpected content type %s", img.ContentType)
			}
			if !bytes.Equal(img.Data, tt.data) {
				t.Fatal("data differs from upload")
			}
		})
	}
}

func TestNewNameIsUnique(t *testing.T) {
	if NewName("jpeg") == NewName("jpeg") {
		t.Fatal("expected different names")
	}
	if !strings.HasSuffix(NewName("jpeg"), ".jpg") {
		t.Fatal("expected .jpg extension for jpeg")
	}
}

func TestCleanFilename(t *testing.T) {
	tests := map[string]string{
		"a.png":         "a.png",
		"../../etc/pwd": "pwd",
		" b.jpg ":       "b.jpg",
	}
	for in, want := range tests {
		got, err := CleanFilename(in)
		if err != nil {
			t.Fatalf("CleanFilename(%q) returned error: %v", in, err)
		}
		if got != want {
			t.Fatalf("CleanFilename(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := CleanFilename(""); err == nil {
		t.Fatal("expected error for empty filename")
	}
}
