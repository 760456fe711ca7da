package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/gamevision/ballscore/internal/config"
	"github.com/gamevision/ballscore/internal/detect"
	"github.com/gamevision/ballscore/internal/imaging"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	inputDir := flag.String("input", "images/input", "Directory containing field images")
	outputDir := flag.String("output", "images/output", "Directory for detection artifacts")
	configPath := flag.String("config", "ballscore.yaml", "Path to YAML tuning file (optional)")
	writeConfig := flag.Bool("write-config", false, "Write the default tuning file to -config and exit")
	workers := flag.Int("workers", 0, "Number of images processed in parallel (0 = all cores)")
	minWidth := flag.Int("min-width", 0, "Override the resolution normalizer width floor")
	noScaling := flag.Bool("no-scaling", false, "Disable resolution normalization (use original image size)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	version := flag.Bool("version", false, "Print version information")
	flag.Parse()

	if *version {
		fmt.Printf("ballscore %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return
	}

	logger := initLogger(*debug)

	if *writeConfig {
		if err := config.Save(config.Default(), *configPath); err != nil {
			logger.WithError(err).Fatal("failed to write config")
		}
		logger.WithField("path", *configPath).Info("wrote default tuning file")
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.WithError(err).Fatal("failed to load config")
	}
	if *noScaling {
		cfg.Scaling.Enabled = false
	}
	if *minWidth > 0 {
		cfg.Scaling.MinWidth = *minWidth
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	detector := detect.New(cfg, logger)
	batch := detect.NewBatch(detector, imaging.NewImageCache(), *inputDir, *outputDir, *workers, logger)

	logger.WithFields(logrus.Fields{
		"input":   *inputDir,
		"output":  *outputDir,
		"scaling": cfg.Scaling.Enabled,
	}).Info("starting batch")

	summary, err := batch.Run(ctx)
	if err != nil && summary == nil {
		logger.WithError(err).Fatal("batch failed")
	}

	logger.WithFields(logrus.Fields{
		"processed": summary.Processed,
		"failed":    summary.Failed,
		"red":       summary.TotalRed,
		"blue":      summary.TotalBlue,
	}).Info("batch complete")

	if summary.Scored > 0 {
		logger.WithFields(logrus.Fields{
			"scored":  summary.Scored,
			"matched": summary.Matched,
		}).Info("accuracy against expected counts")
	}

	if err != nil {
		// Context cancellation: report what finished, exit non-zero.
		os.Exit(1)
	}
}

func initLogger(debugMode bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	if debugMode {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp: true,
		})
	}
	return logger
}
