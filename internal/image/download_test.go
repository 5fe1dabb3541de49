package imagepkg

import (
	"context"
	"image/color"
	"testing"
	"time"

	"github.com/youruser/brandshot/internal/util"
)

func TestDownloadImage(t *testing.T) {
	srv := serveBytes(t, encodePNG(t, solid(640, 480, color.NRGBA{G: 255, A: 255})))
	img, err := DownloadImage(context.Background(), util.NewClient(time.Second, time.Second, 0), srv.URL)
	if err != nil {
		t.Fatalf("DownloadImage: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 640 || b.Dy() != 480 {
		t.Errorf("size = %dx%d", b.Dx(), b.Dy())
	}
}

func TestDecodeImageRejectsGarbage(t *testing.T) {
	if _, err := DecodeImage([]byte("nope")); err == nil {
		t.Error("expected decode error")
	}
}

func TestLoadFontSetMissing(t *testing.T) {
	if _, err := LoadFontSet(t.TempDir()); err == nil {
		t.Error("expected error for missing fonts")
	}
}

func TestNewFontSetRejectsGarbage(t *testing.T) {
	if _, err := NewFontSet([]byte("x"), []byte("y")); err == nil {
		t.Error("expected parse error")
	}
}
