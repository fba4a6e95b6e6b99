// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging normalizes uploaded images before they are stored. Images
// are decoded, downscaled to a maximum width and re-encoded, which also
// drops any embedded metadata. It is pure Go (disintegration/imaging plus
// the x/image WebP decoder), so no system libraries are needed.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // WebP decoder
)

// Defaults for processed uploads.
const (
	DefaultMaxWidth = 1600
	DefaultQuality  = 85

	// MaxPixels caps decoded image size. 10000x10000 RGBA is ~400 MB.
	MaxPixels = 100_000_000
)

// ErrUnsupported is returned for data that is not a JPEG, PNG, GIF or WebP
// image.
var ErrUnsupported = errors.New("imaging: unsupported image format")

// ErrTooLarge is returned for images whose pixel count exceeds MaxPixels.
var ErrTooLarge = errors.New("imaging: image dimensions too large")

// Processed is an encoded image ready for storage.
type Processed struct {
	Data        []byte
	ContentType string
	Ext         string
	Width       int
	Height      int
}

// DetectFormat sniffs data and returns "jpeg", "png", "gif", "webp" or "".
// TIFF is rejected outright (CVE-2023-36308 in the TIFF decoder).
func DetectFormat(data []byte) string {
	ct := http.DetectContentType(data)
	switch {
	case strings.Contains(ct, "tiff"):
		return ""
	case strings.Contains(ct, "jpeg"):
		return "jpeg"
	case strings.Contains(ct, "png"):
		return "png"
	case strings.Contains(ct, "gif"):
		return "gif"
	case strings.Contains(ct, "webp"):
		return "webp"
	default:
		return ""
	}
}

// Process decodes data, applies EXIF orientation, shrinks it to at most
// maxWidth pixels wide (never upscaling) and re-encodes it. WebP input is
// re-encoded as JPEG because there is no pure-Go WebP encoder.
func Process(data []byte, maxWidth int) (*Processed, error) {
	format := DetectFormat(data)
	if format == "" {
		return nil, ErrUnsupported
	}
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("imaging: decode config: %w", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, ErrTooLarge
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("imaging: decode: %w", err)
	}

	if img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	out, err := encode(img, format)
	if err != nil {
		return nil, fmt.Errorf("imaging: encode: %w", err)
	}
	out.Width = img.Bounds().Dx()
	out.Height = img.Bounds().Dy()
	return out, nil
}

func encode(img image.Image, format string) (*Processed, error) {
	var buf bytes.Buffer
	switch format {
	case "png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
		return &Processed{Data: buf.Bytes(), ContentType: "image/png", Ext: ".png"}, nil
	case "gif":
		if err := gif.Encode(&buf, img, nil); err != nil {
			return nil, err
		}
		return &Processed{Data: buf.Bytes(), ContentType: "image/gif", Ext: ".gif"}, nil
	default:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: DefaultQuality}); err != nil {
			return nil, err
		}
		return &Processed{Data: buf.Bytes(), ContentType: "image/jpeg", Ext: ".jpg"}, nil
	}
}
