package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/youruser/brandshot/internal/config"
	imagepkg "github.com/youruser/brandshot/internal/image"
	"github.com/youruser/brandshot/internal/monitoring"
	"github.com/youruser/brandshot/internal/util"
)

// Resolution floor. Candidates narrower or shorter than this are skipped.
const (
	MinWidth  = 630
	MinHeight = 512
)

var ErrLowResolution = errors.New("resolution too low")

type Searcher interface {
	Search(ctx context.Context, query string, perPage int) ([]string, error)
}

type Renderer interface {
	Compose(base image.Image) image.Image
}

type Store interface {
	SavePNG(ctx context.Context, name string, img image.Image, level png.CompressionLevel) (string, error)
}

type Status string

const (
	StatusSaved   Status = monitoring.OutcomeSaved
	StatusSkipped Status = monitoring.OutcomeSkipped
	StatusFailed  Status = monitoring.OutcomeFailed
)

// Result is the outcome of one candidate. Path is set only when Status is
// StatusSaved; Err is set for skipped and failed candidates.
type Result struct {
	Index  int
	URL    string
	Path   string
	Status Status
	Err    error
}

type Options struct {
	// MaxConcurrency bounds in-flight candidates; 0 means no bound.
	MaxConcurrency int
	Metrics        *monitoring.Metrics
	Logger         *zap.Logger
	// RunID tags the run's log lines; a fresh UUID is used when empty.
	RunID string
}

// Downloader searches for photos, brands each one and stores the results.
type Downloader struct {
	cfg            config.RenderConfig
	searcher       Searcher
	getter         util.Getter
	renderer       Renderer
	store          Store
	metrics        *monitoring.Metrics
	log            *zap.Logger
	maxConcurrency int
	runID          string
}

func NewDownloader(cfg config.RenderConfig, searcher Searcher, getter util.Getter, renderer Renderer, store Store, opts Options) *Downloader {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Downloader{
		cfg:            cfg,
		searcher:       searcher,
		getter:         getter,
		renderer:       renderer,
		store:          store,
		metrics:        opts.Metrics,
		log:            log.With(zap.String("component", "downloader")),
		maxConcurrency: opts.MaxConcurrency,
		runID:          opts.RunID,
	}
}

// FileName is the output name of the candidate at zero-based idx.
func (d *Downloader) FileName(idx int) string {
	return fmt.Sprintf("%s_%d.png", util.SanitizeTitle(d.cfg.Title), idx+1)
}

// search returns candidate URLs for the configured title. Failures are
// logged and reported as no results.
func (d *Downloader) search(ctx context.Context, log *zap.Logger) []string {
	urls, err := d.searcher.Search(ctx, d.cfg.Title, d.cfg.ResultCount)
	if err != nil {
		log.Warn("error fetching images from search api", zap.Error(err))
		d.incSearch("error")
		return nil
	}
	d.incSearch("ok")
	return urls
}

// Process downloads, filters, composites and stores one candidate. It never
// panics; every failure is reported in the returned Result.
func (d *Downloader) Process(ctx context.Context, url string, idx int) Result {
	return d.process(ctx, d.log, url, idx)
}

func (d *Downloader) process(ctx context.Context, log *zap.Logger, url string, idx int) (res Result) {
	res = Result{Index: idx, URL: url}
	log = log.With(zap.Int("index", idx+1), zap.String("url", url))

	defer func() {
		if r := recover(); r != nil {
			res.Path = ""
			res.Status = StatusFailed
			res.Err = fmt.Errorf("panic while processing image: %v", r)
			log.Error("error downloading or modifying image", zap.Error(res.Err))
		}
		d.incCandidate(res.Status)
	}()

	img, err := imagepkg.DownloadImage(ctx, d.getter, url)
	if err != nil {
		return d.fail(log, res, err)
	}

	b := img.Bounds()
	if b.Dx() < MinWidth || b.Dy() < MinHeight {
		res.Status = StatusSkipped
		res.Err = fmt.Errorf("%w (%dx%d)", ErrLowResolution, b.Dx(), b.Dy())
		log.Warn("image skipped, resolution too low", zap.Int("width", b.Dx()), zap.Int("height", b.Dy()))
		return res
	}

	out := d.renderer.Compose(img)
	path, err := d.store.SavePNG(ctx, d.FileName(idx), out, d.cfg.CompressionLevel())
	if err != nil {
		return d.fail(log, res, err)
	}

	log.Info("modified image saved", zap.String("path", path))
	res.Status = StatusSaved
	res.Path = path
	return res
}

func (d *Downloader) fail(log *zap.Logger, res Result, err error) Result {
	log.Error("error downloading or modifying image", zap.Error(err))
	res.Status = StatusFailed
	res.Err = err
	return res
}

// RunResults searches and then processes every candidate concurrently,
// returning one Result per URL in search order. A failing candidate never
// cancels its siblings.
func (d *Downloader) RunResults(ctx context.Context) []Result {
	start := time.Now()
	runID := d.runID
	if runID == "" {
		runID = uuid.NewString()
	}
	log := d.log.With(zap.String("run_id", runID))
	log.Info("searching for images", zap.String("title", d.cfg.Title), zap.Int("per_page", d.cfg.ResultCount))
	defer func() {
		if d.metrics != nil {
			d.metrics.RunDuration.Observe(time.Since(start).Seconds())
		}
	}()

	urls := d.search(ctx, log)
	if len(urls) == 0 {
		log.Warn("no images found")
		return nil
	}

	results := make([]Result, len(urls))
	var g errgroup.Group
	if d.maxConcurrency > 0 {
		g.SetLimit(d.maxConcurrency)
	}
	for i, url := range urls {
		i, url := i, url
		g.Go(func() error {
			results[i] = d.process(ctx, log, url, i)
			return nil
		})
	}
	_ = g.Wait()

	log.Info("download and modification process completed",
		zap.Int("candidates", len(urls)),
		zap.Int("saved", len(SavedPaths(results))),
		zap.Duration("elapsed", time.Since(start)))
	return results
}

// Run is RunResults reduced to the paths that were written.
func (d *Downloader) Run(ctx context.Context) []string {
	return SavedPaths(d.RunResults(ctx))
}

func SavedPaths(results []Result) []string {
	paths := make([]string, 0, len(results))
	for _, r := range results {
		if r.Status == StatusSaved {
			paths = append(paths, r.Path)
		}
	}
	return paths
}

func (d *Downloader) incSearch(status string) {
	if d.metrics != nil {
		d.metrics.IncSearch(status)
	}
}

func (d *Downloader) incCandidate(s Status) {
	if d.metrics != nil {
		d.metrics.IncCandidate(string(s))
	}
}
