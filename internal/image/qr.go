package imagepkg

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	qrcode "github.com/skip2/go-qrcode"
)

const (
	// QRSize is the edge of the QR asset pasted onto every image.
	QRSize = 100
	// qrModulePixels is the box size used before scaling down to QRSize.
	qrModulePixels = 10
)

// GenerateQRPNG encodes text as a size×size PNG QR code at medium error
// correction, for on-demand requests.
func GenerateQRPNG(text string, size int) ([]byte, error) {
	b, err := qrcode.Encode(text, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encoding qr code: %w", err)
	}
	return b, nil
}

// NewQRAsset renders url as a black-on-white QR code with the highest error
// correction level and a four-module quiet zone, scaled to QRSize×QRSize.
func NewQRAsset(url string) (image.Image, error) {
	q, err := qrcode.New(url, qrcode.Highest)
	if err != nil {
		return nil, err
	}
	// A negative size asks for a fixed number of pixels per module.
	raw := q.Image(-qrModulePixels)
	return imaging.Resize(raw, QRSize, QRSize, imaging.Lanczos), nil
}
