package imagepkg

import (
	"bytes"
	"context"
	"image"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/youruser/brandshot/internal/util"
)

// DownloadImage downloads an image from URL and returns image.Image (decoded).
func DownloadImage(ctx context.Context, getter util.Getter, url string) (image.Image, error) {
	body, err := getter.GetBytes(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	return DecodeImage(body)
}

// DecodeImage decodes JPEG, PNG, GIF, BMP, TIFF or WebP bytes, applying the
// EXIF orientation when present.
func DecodeImage(b []byte) (image.Image, error) {
	return imaging.Decode(bytes.NewReader(b), imaging.AutoOrientation(true))
}
