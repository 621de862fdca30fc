package media

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"regexp"
	"strings"

	"github.com/chai2010/webp"
)

// DefaultMaxImageBytes is the decoded size limit when none is configured.
const DefaultMaxImageBytes = 1 << 20

var (
	ErrImageFormat   = errors.New("image must use the data:image/...;base64,... format")
	ErrImageType     = errors.New("unsupported image type, accepted: JPEG, PNG, GIF, WebP")
	ErrImageEncoding = errors.New("invalid base64 image data")
	ErrImageTooLarge = errors.New("image is too large")
	ErrImageContent  = errors.New("image data does not match its declared type")
)

var dataURIHeader = regexp.MustCompile(`^data:image/(jpeg|jpg|png|gif|webp);base64$`)

// ImageValidator checks base64 data-URI image payloads.
type ImageValidator struct {
	maxBytes int
}

func NewImageValidator(maxBytes int) *ImageValidator {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	return &ImageValidator{maxBytes: maxBytes}
}

// Validate accepts an empty payload (images are optional).
func (v *ImageValidator) Validate(payload string) error {
	if payload == "" {
		return nil
	}
	if !strings.HasPrefix(payload, "data:image/") {
		return ErrImageFormat
	}
	header, data, ok := strings.Cut(payload, ",")
	if !ok {
		return ErrImageFormat
	}
	m := dataURIHeader.FindStringSubmatch(header)
	if m == nil {
		return ErrImageType
	}
	declared := m[1]
	if declared == "jpg" {
		declared = "jpeg"
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return ErrImageEncoding
	}
	if len(raw) > v.maxBytes {
		return fmt.Errorf("%w: maximum is %.1fMB", ErrImageTooLarge, float64(v.maxBytes)/(1024*1024))
	}

	format, err := sniff(declared, raw)
	if err != nil || format != declared {
		return ErrImageContent
	}
	return nil
}

// sniff decodes only the image header and reports the detected format.
func sniff(declared string, raw []byte) (string, error) {
	if declared == "webp" {
		if _, err := webp.DecodeConfig(bytes.NewReader(raw)); err != nil {
			return "", err
		}
		return "webp", nil
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(raw))
	return format, err
}
