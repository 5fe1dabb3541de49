package imagepkg

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"go.uber.org/zap"
	"golang.org/x/image/font"

	"github.com/youruser/brandshot/internal/config"
	"github.com/youruser/brandshot/internal/util"
)

// Layout constants. Fractions are of the base image's width or height.
const (
	gradientFraction  = 0.4
	blurSigma         = 2.0
	titleFraction     = 0.08
	subtitleFraction  = 0.04
	paddingFraction   = 0.05
	subtitleGap       = 10
	shadowOffset      = 2
	lineLength        = 50
	lineWidth         = 10
	lineColor         = "#df3abc"
	iconSpacing       = 10
	watermarkFontSize = 20
	watermarkGap      = 10
)

var (
	shadowColor = color.NRGBA{A: 128}
	textColor   = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

// Assets are the rasters shared by every composited image of a run.
// They are built once and never modified.
type Assets struct {
	LinkedIn image.Image
	Facebook image.Image
	QR       image.Image
	// Placeholders counts icons that fell back to a transparent square.
	Placeholders int
}

// AssetSources names where each asset comes from.
type AssetSources struct {
	LinkedInIconURL string
	FacebookIconURL string
	QRURL           string
}

// BuildAssets fetches both icons and renders the QR code. Icon failures
// degrade to transparent placeholders; only the QR encoder can fail.
func BuildAssets(ctx context.Context, getter util.Getter, src AssetSources, log *zap.Logger) (*Assets, error) {
	qr, err := NewQRAsset(src.QRURL)
	if err != nil {
		return nil, fmt.Errorf("generating QR code: %w", err)
	}
	a := &Assets{QR: qr}
	var ok bool
	if a.LinkedIn, ok = fetchIcon(ctx, getter, src.LinkedInIconURL, log); !ok {
		a.Placeholders++
	}
	if a.Facebook, ok = fetchIcon(ctx, getter, src.FacebookIconURL, log); !ok {
		a.Placeholders++
	}
	return a, nil
}

// Compositor layers the fixed branding layout onto photographs.
type Compositor struct {
	cfg       config.RenderConfig
	fonts     *FontSet
	assets    *Assets
	watermark string
}

func NewCompositor(cfg config.RenderConfig, fonts *FontSet, assets *Assets, watermark string) *Compositor {
	return &Compositor{
		cfg:       cfg,
		fonts:     fonts,
		assets:    assets,
		watermark: watermark,
	}
}

// WithConfig returns a compositor for different text that shares c's fonts
// and assets.
func (c *Compositor) WithConfig(cfg config.RenderConfig) *Compositor {
	cc := *c
	cc.cfg = cfg
	return &cc
}

func (c *Compositor) Config() config.RenderConfig { return c.cfg }

// Compose returns a new image; base is not modified. Faces are built per
// call since a truetype face is not safe for concurrent use.
func (c *Compositor) Compose(base image.Image) image.Image {
	img := imaging.Blur(opaque(base), blurSigma)
	img = imaging.Overlay(img, gradient(img.Bounds().Dx(), img.Bounds().Dy()), image.Pt(0, 0), 1.0)

	dc := gg.NewContextForImage(img)
	w, h := dc.Width(), dc.Height()
	padX, padY := int(float64(w)*paddingFraction), int(float64(h)*paddingFraction)

	titleFace := c.fonts.Bold(float64(int(float64(h) * titleFraction)))
	subtitleFace := c.fonts.Light(float64(int(float64(h) * subtitleFraction)))

	dc.SetFontFace(titleFace)
	_, titleHeight := dc.MeasureString(c.cfg.Title)
	drawShadowedText(dc, titleFace, c.cfg.Title, float64(padX), float64(padY))
	drawShadowedText(dc, subtitleFace, c.cfg.Subtitle, float64(padX), float64(padY)+titleHeight+subtitleGap)

	c.drawLine(dc, padY)
	c.pasteIcons(dc, padY)
	c.pasteQR(dc, padY)

	return dc.Image()
}

// opaque copies src into an NRGBA raster with every alpha forced to 255,
// dropping transparency the way an RGB conversion does.
func opaque(src image.Image) *image.NRGBA {
	dst := imaging.Clone(src)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}

// gradient is black fading linearly from opaque at the top edge to
// transparent at gradientFraction of the height.
func gradient(w, h int) *image.NRGBA {
	overlay := imaging.New(w, h, color.NRGBA{})
	span := float64(h) * gradientFraction
	for y := 0; y < int(span); y++ {
		a := uint8(255 * (1 - float64(y)/span))
		row := overlay.Pix[y*overlay.Stride : y*overlay.Stride+w*4]
		for x := 3; x < len(row); x += 4 {
			row[x] = a
		}
	}
	return overlay
}

// drawShadowedText draws s with its top-left corner at (x, y): first a
// translucent black copy offset by shadowOffset, then the white text.
func drawShadowedText(dc *gg.Context, face font.Face, s string, x, y float64) {
	dc.SetFontFace(face)
	dc.SetColor(shadowColor)
	dc.DrawStringAnchored(s, x+shadowOffset, y+shadowOffset, 0, 1)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(s, x, y, 0, 1)
}

func (c *Compositor) drawLine(dc *gg.Context, pad int) {
	w, h := float64(dc.Width()), float64(dc.Height())
	p := float64(pad)
	dc.SetHexColor(lineColor)
	dc.SetLineWidth(lineWidth)
	dc.SetLineCap(gg.LineCapButt)
	dc.DrawLine(w-lineLength-p, h-p, w-p, h-p)
	dc.Stroke()
}

// pasteIcons stacks LinkedIn at the bottom-left and Facebook above it.
func (c *Compositor) pasteIcons(dc *gg.Context, pad int) {
	size := c.assets.LinkedIn.Bounds().Dx()
	linkedInY := dc.Height() - pad - size
	facebookY := linkedInY - size - iconSpacing
	dc.DrawImage(c.assets.LinkedIn, pad, linkedInY)
	dc.DrawImage(c.assets.Facebook, pad, facebookY)
}

// pasteQR places the QR code top-right with the watermark underneath.
func (c *Compositor) pasteQR(dc *gg.Context, pad int) {
	qr := c.assets.QR.Bounds()
	x := dc.Width() - qr.Dx() - pad
	dc.DrawImage(c.assets.QR, x, pad)

	dc.SetFontFace(c.fonts.Light(watermarkFontSize))
	dc.SetColor(textColor)
	dc.DrawStringAnchored(c.watermark, float64(x), float64(pad+qr.Dy()+watermarkGap), 0, 1)
}
