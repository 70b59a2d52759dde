package main

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/nfnt/resize"
)

// encodeImage loads a local file, verifies it really is an image,
// downscales anything wider than maxWidth, and returns the base64
// payload the wire format expects.
func encodeImage(path string, maxWidth uint) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	detected := mimetype.Detect(raw)
	if !strings.HasPrefix(detected.String(), "image/") {
		return "", fmt.Errorf("%s is %s, not an image", path, detected)
	}

	decoded, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", path, err)
	}

	if uint(decoded.Bounds().Dx()) > maxWidth {
		scaled := resize.Resize(maxWidth, 0, decoded, resize.Lanczos3)
		var buf bytes.Buffer
		switch format {
		case "png":
			err = png.Encode(&buf, scaled)
		default:
			err = jpeg.Encode(&buf, scaled, nil)
		}
		if err != nil {
			return "", fmt.Errorf("re-encoding %s: %w", path, err)
		}
		raw = buf.Bytes()
	}

	return base64.StdEncoding.EncodeToString(raw), nil
}
