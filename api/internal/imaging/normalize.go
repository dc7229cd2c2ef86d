// Package imaging normalizes uploads before they reach a vision provider:
// decode, re-encode as JPEG. Re-encoding drops EXIF and any trailing junk.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // register PNG decoding

	"waste-scan/api/internal/util"
)

const jpegQuality = 90

// NormalizeJPEG decodes a JPEG or PNG image and re-encodes it as JPEG.
func NormalizeJPEG(raw []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid image: %w", err)
	}
	var out bytes.Buffer
	if err := jpeg.Encode(&out, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("re-encode: %w", err)
	}
	return out.Bytes(), nil
}

// Allowed reports whether we accept the upload's content type.
func Allowed(contentType string) bool {
	return contentType == "image/jpeg" || contentType == "image/png"
}

// Sniff returns the detected mime type of raw image bytes.
func Sniff(raw []byte) string {
	return util.SniffMimeHTTP(raw)
}
