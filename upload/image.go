package upload

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/google/uuid"
)

var (
	ErrNoImage  = errors.New("file is not a JPEG, PNG or GIF image")
	ErrTooLarge = errors.New("file is too large")
)

var extensions = map[string]string{
	"gif":  ".gif",
	"jpeg": ".jpg",
	"png":  ".png",
}

// Image is an uploaded file which has been checked to be an image.
type Image struct {
	Name        string // generated
	ContentType string
	Data        []byte
}

func (img *Image) Reader() io.Reader {
	return bytes.NewReader(img.Data)
}

// CheckImage decodes the image header and returns the format name.
func CheckImage(data []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", ErrNoImage
	}
	if _, ok := extensions[format]; !ok {
		return "", ErrNoImage
	}
	return format, nil
}

// NewName returns a random file name with the extension of the given image format.
func NewName(format string) string {
	return uuid.NewString() + extensions[format]
}

// Read reads at most maxBytes from r and checks that they are an image.
// If r holds more data, it returns ErrTooLarge and leaves the rest unread.
func Read(r io.Reader, maxBytes int64) (*Image, error) {

	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, ErrTooLarge
	}

	format, err := CheckImage(data)
	if err != nil {
		return nil, err
	}

	return &Image{
		Name:        NewName(format),
		ContentType: "image/" + format,
		Data:        data,
	}, nil
}
