package objectstore

import (
	"bytes"
	"image"
	"net/http"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

const webpContentType = "image/webp"

// sniff detects the content type from the first 512 bytes.
func sniff(data []byte) string {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	return http.DetectContentType(head)
}

func isReencodable(contentType string) bool {
	return strings.HasPrefix(contentType, "image/jpeg") || strings.HasPrefix(contentType, "image/png")
}

// downscale fits img inside a maxSize x maxSize box, keeping the aspect ratio. Smaller images are returned as is.
func downscale(img image.Image, maxSize int) image.Image {
	b := img.Bounds()
	if maxSize <= 0 || (b.Dx() <= maxSize && b.Dy() <= maxSize) {
		return img
	}
	return imaging.Fit(img, maxSize, maxSize, imaging.Lanczos)
}

// toWebP decodes a JPEG/PNG, downscales it and encodes it as lossy WebP.
func toWebP(data []byte, maxSize int, quality float32) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(err, "imaging.Decode")
	}
	if quality <= 0 {
		quality = 80
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, downscale(img, maxSize), &webp.Options{Quality: quality}); err != nil {
		return nil, errors.Wrap(err, "webp.Encode")
	}
	return buf.Bytes(), nil
}
