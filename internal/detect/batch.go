package detect

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/gamevision/ballscore/internal/imaging"
	"github.com/gamevision/ballscore/internal/render"
)

// Expected holds ball counts parsed from an input filename of the form
// "<N>B_<M>R...", e.g. "4B_3R_field.png". Test images are named this way so
// a batch run can score itself.
type Expected struct {
	Blue int
	Red  int
}

var expectedPattern = regexp.MustCompile(`^(\d+)B_(\d+)R`)

// ParseExpected extracts expected counts from a filename (without
// directory). The second return is false when the name does not follow the
// convention.
func ParseExpected(name string) (Expected, bool) {
	m := expectedPattern.FindStringSubmatch(name)
	if m == nil {
		return Expected{}, false
	}
	blue, _ := strconv.Atoi(m[1])
	red, _ := strconv.Atoi(m[2])
	return Expected{Blue: blue, Red: red}, true
}

// ImageOutcome is the per-image record aggregated into a batch Summary.
type ImageOutcome struct {
	Path     string
	Red      int
	Blue     int
	Expected *Expected
	Err      error
}

// Summary aggregates a batch run.
type Summary struct {
	Processed int
	Failed    int
	TotalRed  int
	TotalBlue int

	// Scored counts images with expected counts in their filename;
	// Matched counts those whose detected totals agreed exactly.
	Scored  int
	Matched int

	Outcomes []ImageOutcome
}

// Batch processes every image in an input directory through a Detector,
// writing per-image artifacts under the output directory.
type Batch struct {
	Detector  *Detector
	Cache     *imaging.ImageCache
	InputDir  string
	OutputDir string

	// Workers bounds the image-level pool; zero falls back to the
	// configured worker count. Images are fully independent, so the only
	// coordination is result aggregation.
	Workers int

	log *logrus.Logger
}

// NewBatch wires a batch runner around a Detector.
func NewBatch(d *Detector, cache *imaging.ImageCache, inputDir, outputDir string, workers int, logger *logrus.Logger) *Batch {
	if logger == nil {
		logger = logrus.New()
	}
	if workers <= 0 {
		workers = d.cfg.Workers
	}
	if workers < 1 {
		workers = 1
	}
	return &Batch{
		Detector:  d,
		Cache:     cache,
		InputDir:  inputDir,
		OutputDir: outputDir,
		Workers:   workers,
		log:       logger,
	}
}

// Run processes the batch. A failure to read or decode one image is logged
// and recorded but never aborts the batch; only an unreadable input
// directory is a hard error. Cancelling the context stops new images from
// being picked up; images already in flight complete.
func (b *Batch) Run(ctx context.Context) (*Summary, error) {
	paths, err := imaging.ListInputImages(b.InputDir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		b.log.WithField("dir", b.InputDir).Warn("no input images found")
		return &Summary{}, nil
	}

	jobs := make(chan string)
	results := make(chan ImageOutcome)

	var wg sync.WaitGroup
	for w := 0; w < b.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				results <- b.processOne(path)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, p := range paths {
			select {
			case <-ctx.Done():
				b.log.Warn("batch cancelled; skipping remaining images")
				return
			case jobs <- p:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	summary := &Summary{}
	for outcome := range results {
		summary.Outcomes = append(summary.Outcomes, outcome)
		if outcome.Err != nil {
			summary.Failed++
			continue
		}
		summary.Processed++
		summary.TotalRed += outcome.Red
		summary.TotalBlue += outcome.Blue
		if outcome.Expected != nil {
			summary.Scored++
			if outcome.Red == outcome.Expected.Red && outcome.Blue == outcome.Expected.Blue {
				summary.Matched++
			}
		}
	}
	return summary, ctx.Err()
}

// processOne runs the pipeline for a single image and writes its artifacts.
func (b *Batch) processOne(path string) ImageOutcome {
	outcome := ImageOutcome{Path: path}
	name := filepath.Base(path)
	log := b.log.WithField("image", name)

	img, err := b.Cache.Load(path)
	if err != nil {
		log.WithError(err).Warn("skipping unreadable image")
		outcome.Err = err
		return outcome
	}
	defer b.Cache.Evict(path)

	res, err := b.Detector.ProcessImage(img)
	if err != nil {
		log.WithError(err).Warn("detection failed")
		outcome.Err = err
		return outcome
	}

	outcome.Red, outcome.Blue = res.Counts()
	if exp, ok := ParseExpected(name); ok {
		outcome.Expected = &exp
		log = log.WithFields(logrus.Fields{
			"expectedRed": exp.Red, "expectedBlue": exp.Blue,
		})
	}
	log.WithFields(logrus.Fields{"red": outcome.Red, "blue": outcome.Blue}).Info("image processed")

	if b.OutputDir != "" {
		if err := b.writeArtifacts(name, res, outcome.Expected); err != nil {
			// Artifacts are a convenience; a full disk should not void
			// the counts already computed.
			log.WithError(err).Warn("failed to write artifacts")
		}
	}
	return outcome
}

// writeArtifacts persists the visualization images and the boolean
// occupancy arrays for one processed image under <out>/<basename>/.
func (b *Batch) writeArtifacts(name string, res *Result, exp *Expected) error {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	dir := filepath.Join(b.OutputDir, base)

	if res.MaxHeight == 0 {
		return nil
	}

	if err := imaging.SavePNG(filepath.Join(dir, "white_map.png"),
		render.ReferenceMap(res.Reference, res.Width, res.MaxHeight, res.Regions)); err != nil {
		return fmt.Errorf("writing white map: %w", err)
	}
	if err := imaging.SavePNG(filepath.Join(dir, "red_map.png"),
		render.ColorMap(res.Red.Profile, res.Red.Reconstructed, res.Width, res.MaxHeight, res.Regions, res.Red.Estimates, render.Red)); err != nil {
		return fmt.Errorf("writing red map: %w", err)
	}
	if err := imaging.SavePNG(filepath.Join(dir, "blue_map.png"),
		render.ColorMap(res.Blue.Profile, res.Blue.Reconstructed, res.Width, res.MaxHeight, res.Regions, res.Blue.Estimates, render.Blue)); err != nil {
		return fmt.Errorf("writing blue map: %w", err)
	}

	// Occupancy arrays: re-segmentable later without recomputing the
	// profiling and interpolation stages.
	if err := imaging.SavePNG(filepath.Join(dir, "red_array.png"), res.Red.Grid.Gray()); err != nil {
		return fmt.Errorf("writing red occupancy array: %w", err)
	}
	if err := imaging.SavePNG(filepath.Join(dir, "blue_array.png"), res.Blue.Grid.Gray()); err != nil {
		return fmt.Errorf("writing blue occupancy array: %w", err)
	}

	if err := imaging.SavePNG(filepath.Join(dir, "red_balls_detected.png"),
		render.Detections(res.Red.Grid.Gray(), res.Red.Balls, res.Params.Viz)); err != nil {
		return fmt.Errorf("writing red detections: %w", err)
	}
	if err := imaging.SavePNG(filepath.Join(dir, "blue_balls_detected.png"),
		render.Detections(res.Blue.Grid.Gray(), res.Blue.Balls, res.Params.Viz)); err != nil {
		return fmt.Errorf("writing blue detections: %w", err)
	}

	expectedRed, expectedBlue, has := 0, 0, false
	if exp != nil {
		expectedRed, expectedBlue, has = exp.Red, exp.Blue, true
	}
	if err := imaging.SavePNG(filepath.Join(dir, "all_balls_detected.png"),
		render.Combined(res.Red.Grid, res.Blue.Grid, res.Red.Balls, res.Blue.Balls, res.Params.Viz, expectedRed, expectedBlue, has)); err != nil {
		return fmt.Errorf("writing combined detections: %w", err)
	}
	return nil
}
