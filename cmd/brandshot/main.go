package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/youruser/brandshot/internal/app"
	"github.com/youruser/brandshot/internal/config"
	"github.com/youruser/brandshot/internal/logger"
)

func main() {
	fs := pflag.NewFlagSet("brandshot", pflag.ExitOnError)
	quality := fs.Int("quality", config.DefaultQuality, "PNG compression quality (1-100)")
	perPage := fs.Int("per_page", config.DefaultResultCount, "Number of images to download")
	envFile := fs.String("env-file", ".env", "optional dotenv file")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Download and brand images from Unsplash for a topic.\n\n")
		fmt.Fprintf(os.Stderr, "Usage: brandshot [flags] <title> <subtitle>\n\n")
		fs.PrintDefaults()
	}
	fs.Parse(os.Args[1:])
	if fs.NArg() != 2 {
		fs.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	rc := config.RenderConfig{
		Title:       fs.Arg(0),
		Subtitle:    fs.Arg(1),
		Quality:     *quality,
		ResultCount: *perPage,
	}
	if err := rc.Validate(); err != nil {
		log.Fatal("invalid arguments", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log, prometheus.NewRegistry())
	if err != nil {
		log.Fatal("startup failed", zap.Error(err))
	}

	saved := a.Downloader(rc).Run(ctx)
	if len(saved) == 0 {
		log.Warn("no images were successfully generated")
		return
	}
	log.Info("successfully generated images", zap.Int("count", len(saved)))
	for _, p := range saved {
		log.Info("generated", zap.String("path", p))
	}
}
