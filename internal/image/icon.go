package imagepkg

import (
	"context"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"go.uber.org/zap"

	"github.com/youruser/brandshot/internal/util"
)

const (
	iconInner   = 40
	iconPadding = 20
	// IconSize is the edge of a finished icon asset, backdrop included.
	IconSize = iconInner + iconPadding
)

// FetchIcon downloads a branding icon and puts it on a round backdrop.
// It never fails: on any fetch or decode error it logs and returns a
// transparent IconSize×IconSize placeholder.
func FetchIcon(ctx context.Context, getter util.Getter, url string, log *zap.Logger) image.Image {
	icon, _ := fetchIcon(ctx, getter, url, log)
	return icon
}

// fetchIcon is FetchIcon that also reports whether the placeholder was used.
func fetchIcon(ctx context.Context, getter util.Getter, url string, log *zap.Logger) (image.Image, bool) {
	img, err := DownloadImage(ctx, getter, url)
	if err != nil {
		log.Error("error downloading icon", zap.String("url", url), zap.Error(err))
		return blankIcon(), false
	}
	return roundIcon(imaging.Resize(img, iconInner, iconInner, imaging.Lanczos)), true
}

func blankIcon() *image.NRGBA {
	return imaging.New(IconSize, IconSize, color.NRGBA{})
}

// roundIcon centres icon in a padded transparent square and clips it with an
// antialiased ellipse spanning the whole square.
func roundIcon(icon image.Image) image.Image {
	b := icon.Bounds()
	w, h := b.Dx()+iconPadding, b.Dy()+iconPadding
	dc := gg.NewContext(w, h)
	dc.DrawEllipse(float64(w)/2, float64(h)/2, float64(w)/2, float64(h)/2)
	dc.Clip()
	dc.DrawImage(icon, iconPadding/2, iconPadding/2)
	return dc.Image()
}
