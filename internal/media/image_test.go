package media

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

func pngDataURI(t *testing.T, mime string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return "data:image/" + mime + ";base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestValidateAcceptsPNGAndEmpty(t *testing.T) {
	v := NewImageValidator(0)
	if err := v.Validate(""); err != nil {
		t.Fatalf("empty payload: %v", err)
	}
	if err := v.Validate(pngDataURI(t, "png")); err != nil {
		t.Fatalf("png payload: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	v := NewImageValidator(0)
	cases := []struct {
		name    string
		payload string
		want    error
	}{
		{"not a data uri", "http://example.com/cat.png", ErrImageFormat},
		{"no comma", "data:image/png;base64", ErrImageFormat},
		{"svg", "data:image/svg+xml;base64,PHN2Zz4=", ErrImageType},
		{"not base64", "data:image/png;base64,@@@", ErrImageEncoding},
		{"wrong declared type", pngDataURI(t, "jpeg"), ErrImageContent},
		{"garbage bytes", "data:image/gif;base64," + base64.StdEncoding.EncodeToString([]byte("hello")), ErrImageContent},
		{"garbage webp", "data:image/webp;base64," + base64.StdEncoding.EncodeToString([]byte("RIFF0000WEBP")), ErrImageContent},
	}
	for _, tc := range cases {
		if err := v.Validate(tc.payload); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestValidateEnforcesSize(t *testing.T) {
	v := NewImageValidator(16)
	payload := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte(strings.Repeat("x", 17)))
	err := v.Validate(payload)
	if !errors.Is(err, ErrImageTooLarge) {
		t.Fatalf("expected ErrImageTooLarge, got %v", err)
	}
}
