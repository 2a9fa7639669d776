// Package pipeline runs the end-to-end quality mapping demo: it synthesizes a
// phase surface, wraps and corrupts it, filters it, computes the quality maps
// and optionally writes every stage to disk.
package pipeline

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"phasequality/internal/models"
	"phasequality/pkg/config"
	"phasequality/pkg/filters"
	"phasequality/pkg/grid"
	"phasequality/pkg/patterns"
	"phasequality/pkg/quality"
	"phasequality/pkg/visualization"
	"phasequality/pkg/window"
)

// Pipeline holds the configuration and the products of one run
type Pipeline struct {
	cfg    *config.Config
	logger *log.Logger

	// results indexed by stage
	mu      sync.Mutex
	results map[models.Stage]*models.StageResult
}

// New creates a pipeline. A nil logger discards progress output.
func New(cfg *config.Config, logger *log.Logger) *Pipeline {
	return &Pipeline{
		cfg:     cfg,
		logger:  logger,
		results: make(map[models.Stage]*models.StageResult),
	}
}

func (p *Pipeline) logf(format string, args ...any) {
	if p.logger != nil && p.cfg.Output.Verbose {
		p.logger.Printf(format, args...)
	}
}

func (p *Pipeline) record(stage models.Stage, img *grid.Image, start time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.results[stage] = &models.StageResult{Stage: stage, Image: img, Elapsed: time.Since(start)}
}

// Process runs every stage. With save set the stage images are written to the output directory.
func (p *Pipeline) Process(save bool) error {
	if err := p.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Step 1: synthesize and wrap the input
	p.logf("Step 1: Generating %s pattern (%dx%d)...", p.cfg.Pattern.Kind, p.cfg.Pattern.Rows, p.cfg.Pattern.Cols)
	start := time.Now()
	surface, err := patterns.Generate(patterns.Kind(p.cfg.Pattern.Kind),
		p.cfg.Pattern.Rows, p.cfg.Pattern.Cols, p.cfg.Pattern.MinValue, p.cfg.Pattern.MaxValue)
	if err != nil {
		return fmt.Errorf("failed to generate pattern: %w", err)
	}
	p.record(models.Unwrapped, surface, start)

	start = time.Now()
	wrapped := grid.WrapCanonical(surface)
	p.record(models.Wrapped, wrapped, start)

	// Step 2: corrupt a copy so the clean wrapped phase stays available
	p.logf("Step 2: Adding noise (salt and pepper %.3f, random %.3f)...", p.cfg.Noise.SaltPepper, p.cfg.Noise.Random)
	start = time.Now()
	noisy := wrapped.Clone()
	noise := patterns.NewNoise(p.cfg.Noise.Seed)
	if p.cfg.Noise.SaltPepper > 0 {
		noise.AddSaltPepper(noisy, p.cfg.Noise.SaltPepper)
	}
	if p.cfg.Noise.Random > 0 {
		noise.AddRandom(noisy, p.cfg.Noise.Random, p.cfg.Noise.Magnitude)
	}
	p.record(models.Noisy, noisy, start)

	opts := window.Options{
		Ignore:   grid.Bitflag(p.cfg.Processing.IgnoreFlags),
		NumCores: p.cfg.Processing.NumCores,
	}
	if w := p.cfg.Processing.BorderWidth; w > 0 {
		opts.Mask = grid.BorderMask(noisy.Rows, noisy.Cols, w)
	}

	// Step 3: filters and quality maps only read the noisy image, so they run concurrently
	k := p.cfg.Processing.WindowSize
	p.logf("Step 3: Computing filters and quality maps (k=%d, %d cores)...", k, p.cfg.Processing.NumCores)
	if err := p.computeMaps(noisy, k, opts); err != nil {
		return err
	}

	if save {
		p.logf("Step 4: Saving results to %s...", p.cfg.Output.Dir)
		if err := p.save(); err != nil {
			return err
		}
	}

	return nil
}

func (p *Pipeline) computeMaps(phase *grid.Image, k int, opts window.Options) error {
	mapper, err := quality.NewMapper(phase, opts)
	if err != nil {
		return fmt.Errorf("failed to create quality mapper: %w", err)
	}

	tasks := map[string]func() error{
		"mean filter": func() error {
			return p.runFilter(filters.MeanPhaseFilter, phase, k, opts, models.MeanFiltered, models.MeanDisplay)
		},
		"median filter": func() error {
			return p.runFilter(filters.MedianPhaseFilter, phase, k, opts, models.MedianFiltered, models.MedianDisplay)
		},
		"pdv": func() error {
			start := time.Now()
			pdv, err := mapper.PDV(k)
			if err != nil {
				return err
			}
			p.record(models.PDVMap, pdv, start)
			return nil
		},
		"max gradient": func() error {
			start := time.Now()
			maxGrad, err := mapper.MaxGrad(k)
			if err != nil {
				return err
			}
			p.record(models.MaxGradMap, maxGrad, start)
			return nil
		},
	}

	var wg sync.WaitGroup
	errChan := make(chan error, len(tasks))
	for name, task := range tasks {
		wg.Add(1)
		go func(name string, task func() error) {
			defer wg.Done()
			if err := task(); err != nil {
				errChan <- fmt.Errorf("%s failed: %w", name, err)
			}
		}(name, task)
	}
	wg.Wait()
	close(errChan)

	// First failure wins, a closed empty channel yields nil
	if err := <-errChan; err != nil {
		return err
	}

	if p.cfg.Output.SaveGradients {
		start := time.Now()
		dx, err := mapper.Dx()
		if err != nil {
			return fmt.Errorf("dx gradient failed: %w", err)
		}
		dy, err := mapper.Dy()
		if err != nil {
			return fmt.Errorf("dy gradient failed: %w", err)
		}
		p.record(models.GradientX, dx.Clone(), start)
		p.record(models.GradientY, dy.Clone(), start)
	}
	return nil
}

type filterFunc func(*grid.Image, int, window.Options) (*filters.Result, error)

func (p *Pipeline) runFilter(filter filterFunc, phase *grid.Image, k int, opts window.Options, phaseStage, displayStage models.Stage) error {
	start := time.Now()
	res, err := filter(phase, k, opts)
	if err != nil {
		return err
	}
	p.record(phaseStage, res.Phase, start)
	p.record(displayStage, res.Display, start)
	return nil
}

// save writes every result. Phase and quality images are already in [0, 1];
// unwrapped surfaces and gradients are stretched for viewing.
func (p *Pipeline) save() error {
	format, err := visualization.ParseFormat(p.cfg.Output.Format)
	if err != nil {
		return err
	}

	for _, res := range p.Results() {
		rescale := res.Stage == models.Unwrapped || res.Stage == models.GradientX || res.Stage == models.GradientY
		path, err := visualization.SaveImage(res.Image, p.cfg.Output.Dir, res.Stage.String(), format, rescale)
		if err != nil {
			return fmt.Errorf("failed to save %s: %w", res.Stage, err)
		}
		res.Path = path
	}
	return nil
}

// Result returns the product of a stage, or nil if the stage did not run
func (p *Pipeline) Result(stage models.Stage) *models.StageResult {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.results[stage]
}

// Results returns every stage product ordered by stage
func (p *Pipeline) Results() []*models.StageResult {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]*models.StageResult, 0, len(p.results))
	for _, res := range p.results {
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Stage < out[j].Stage })
	return out
}
