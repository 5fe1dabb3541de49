package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/youruser/brandshot/internal/config"
	imagepkg "github.com/youruser/brandshot/internal/image"
	"github.com/youruser/brandshot/internal/pipeline"
)

func writeFonts(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, imagepkg.BoldFontFile), gobold.TTF, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, imagepkg.LightFontFile), goregular.TTF, 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

// fakeUnsplash serves the search endpoint plus the photos and icons it links to.
func fakeUnsplash(t *testing.T, sizes ...string) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/search/photos", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Client-ID test-key" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		var buf bytes.Buffer
		buf.WriteString(`{"results":[`)
		for i, s := range sizes {
			if i > 0 {
				buf.WriteByte(',')
			}
			fmt.Fprintf(&buf, `{"urls":{"regular":"%s/photos/%s.png"}}`, srv.URL, s)
		}
		buf.WriteString(`]}`)
		w.Write(buf.Bytes())
	})
	mux.HandleFunc("/photos/", func(w http.ResponseWriter, r *http.Request) {
		var wd, ht int
		fmt.Sscanf(r.URL.Path, "/photos/%dx%d.png", &wd, &ht)
		png.Encode(w, imaging.New(wd, ht, color.NRGBA{R: 30, G: 120, B: 70, A: 255}))
	})
	mux.HandleFunc("/icon.png", func(w http.ResponseWriter, r *http.Request) {
		png.Encode(w, imaging.New(512, 512, color.NRGBA{B: 200, A: 255}))
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T, srv *httptest.Server) *config.Config {
	return &config.Config{
		AccessKey:       "test-key",
		APIBaseURL:      srv.URL,
		FontDir:         writeFonts(t),
		OutputDir:       filepath.Join(t.TempDir(), "exported_files"),
		HTTPTimeout:     5 * time.Second,
		DialTimeout:     time.Second,
		QRURL:           "https://example.com/brand",
		LinkedInIconURL: srv.URL + "/icon.png",
		FacebookIconURL: srv.URL + "/missing.png",
		WatermarkText:   "by berg-AI",
	}
}

func TestEndToEnd(t *testing.T) {
	srv := fakeUnsplash(t, "1200x800", "400x300", "1024x768")
	cfg := testConfig(t, srv)

	a, err := New(context.Background(), cfg, zap.NewNop(), prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if v := testutil.ToFloat64(a.Metrics.IconFailuresTotal); v != 1 {
		t.Errorf("icon failures = %v, want 1", v)
	}

	rc := config.RenderConfig{Title: "Forest Trails", Subtitle: "Deep Green", Quality: 90, ResultCount: 3}
	paths := a.Downloader(rc).Run(context.Background())

	want := []string{
		filepath.Join(cfg.OutputDir, "Forest_Trails_1.png"),
		filepath.Join(cfg.OutputDir, "Forest_Trails_3.png"),
	}
	if len(paths) != len(want) || paths[0] != want[0] || paths[1] != want[1] {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	if _, err := os.Stat(filepath.Join(cfg.OutputDir, "Forest_Trails_2.png")); !os.IsNotExist(err) {
		t.Error("low resolution candidate must not produce a file")
	}
}

func TestRunResultsSameTitleConcurrently(t *testing.T) {
	srv := fakeUnsplash(t, "800x600")
	cfg := testConfig(t, srv)
	a, err := New(context.Background(), cfg, zap.NewNop(), prometheus.NewRegistry())
	if err != nil {
		t.Fatal(err)
	}

	subtitles := []string{"First Edition", "Second Printing"}
	results := make([][]pipeline.Result, len(subtitles))
	var wg sync.WaitGroup
	for i, sub := range subtitles {
		i, sub := i, sub
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = a.RunResults(context.Background(), config.RenderConfig{Title: "Same", Subtitle: sub, Quality: 90, ResultCount: 1})
		}()
	}
	wg.Wait()

	var files [][]byte
	for i, res := range results {
		if len(res) != 1 || res[0].Status != pipeline.StatusSaved {
			t.Fatalf("run %d results = %+v", i, res)
		}
		path := res[0].Path
		if filepath.Base(path) != "Same_1.png" || filepath.Dir(filepath.Dir(path)) != cfg.OutputDir {
			t.Errorf("run %d path = %q, want OutputDir/<run>/Same_1.png", i, path)
		}
		b, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := png.Decode(bytes.NewReader(b)); err != nil {
			t.Fatalf("run %d wrote an unreadable PNG: %v", i, err)
		}
		files = append(files, b)
	}
	if results[0][0].Path == results[1][0].Path {
		t.Fatalf("both runs reported %q", results[0][0].Path)
	}
	if bytes.Equal(files[0], files[1]) {
		t.Error("each run should keep its own render")
	}
}

func TestNewMissingAccessKey(t *testing.T) {
	srv := fakeUnsplash(t)
	cfg := testConfig(t, srv)
	cfg.AccessKey = ""
	if _, err := New(context.Background(), cfg, zap.NewNop(), prometheus.NewRegistry()); !errors.Is(err, config.ErrMissingAccessKey) {
		t.Errorf("err = %v, want ErrMissingAccessKey", err)
	}
}

func TestNewMissingFonts(t *testing.T) {
	srv := fakeUnsplash(t)
	cfg := testConfig(t, srv)
	cfg.FontDir = t.TempDir()
	if _, err := New(context.Background(), cfg, zap.NewNop(), prometheus.NewRegistry()); err == nil {
		t.Error("expected missing fonts to be fatal")
	}
}
