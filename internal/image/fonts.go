package imagepkg

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
)

// Font files expected in the configured font directory.
const (
	BoldFontFile  = "Ubuntu-Bold.ttf"
	LightFontFile = "Ubuntu-Light.ttf"
)

// FontSet holds the parsed bold and light typefaces. Parsed fonts are
// read-only; faces derived from them are not safe for concurrent use.
type FontSet struct {
	bold  *truetype.Font
	light *truetype.Font
}

// LoadFontSet reads the bold and light faces from dir.
func LoadFontSet(dir string) (*FontSet, error) {
	bold, err := os.ReadFile(filepath.Join(dir, BoldFontFile))
	if err != nil {
		return nil, fmt.Errorf("reading bold font: %w", err)
	}
	light, err := os.ReadFile(filepath.Join(dir, LightFontFile))
	if err != nil {
		return nil, fmt.Errorf("reading light font: %w", err)
	}
	return NewFontSet(bold, light)
}

func NewFontSet(boldTTF, lightTTF []byte) (*FontSet, error) {
	bold, err := truetype.Parse(boldTTF)
	if err != nil {
		return nil, fmt.Errorf("parsing bold font: %w", err)
	}
	light, err := truetype.Parse(lightTTF)
	if err != nil {
		return nil, fmt.Errorf("parsing light font: %w", err)
	}
	return &FontSet{bold: bold, light: light}, nil
}

func (f *FontSet) Bold(size float64) font.Face {
	return truetype.NewFace(f.bold, &truetype.Options{Size: size})
}

func (f *FontSet) Light(size float64) font.Face {
	return truetype.NewFace(f.light, &truetype.Options{Size: size})
}
