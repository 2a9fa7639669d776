package pipeline

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"

	"phasequality/internal/models"
	"phasequality/pkg/config"
)

// smallConfig returns a quick configuration writing into dir
func smallConfig(dir string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Pattern.Rows = 32
	cfg.Pattern.Cols = 24
	cfg.Processing.NumCores = 2
	cfg.Processing.WindowSize = 5
	cfg.Processing.BorderWidth = 1
	cfg.Noise.Random = 0.02
	cfg.Output.Dir = dir
	cfg.Output.SaveGradients = true
	return cfg
}

func TestProcessProducesEveryStage(t *testing.T) {
	var buf bytes.Buffer
	p := New(smallConfig(t.TempDir()), log.New(&buf, "", 0))

	if err := p.Process(false); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	for s := models.Unwrapped; s <= models.MaxGradMap; s++ {
		res := p.Result(s)
		if res == nil {
			t.Errorf("Stage %s missing", s)
			continue
		}
		if res.Image.Rows != 32 || res.Image.Cols != 24 {
			t.Errorf("Stage %s has dimensions %dx%d", s, res.Image.Rows, res.Image.Cols)
		}
		if res.Path != "" {
			t.Errorf("Stage %s should not be saved", s)
		}
		if s.Phase() {
			for i, v := range res.Image.Data {
				if v < 0 || v >= 1 {
					t.Fatalf("Stage %s: phase %v at %d outside [0, 1)", s, v, i)
				}
			}
		}
	}

	results := p.Results()
	for i := 1; i < len(results); i++ {
		if results[i-1].Stage >= results[i].Stage {
			t.Errorf("Results not ordered by stage")
		}
	}

	if !strings.Contains(buf.String(), "Step 3") {
		t.Errorf("Expected progress output, got %q", buf.String())
	}
}

// TestProcessSavesImages runs the full pipeline including file output
func TestProcessSavesImages(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping file output test in short mode")
	}

	cfg := smallConfig(t.TempDir())
	cfg.Output.Format = "tiff"
	cfg.Output.Verbose = false
	p := New(cfg, nil)

	if err := p.Process(true); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	for _, res := range p.Results() {
		if !strings.HasSuffix(res.Path, res.Stage.String()+".tiff") {
			t.Errorf("Stage %s saved to unexpected path %q", res.Stage, res.Path)
			continue
		}
		if info, err := os.Stat(res.Path); err != nil || info.Size() == 0 {
			t.Errorf("Stage %s output missing: %v", res.Stage, err)
		}
	}
}

func TestProcessRejectsInvalidConfig(t *testing.T) {
	cfg := smallConfig(t.TempDir())
	cfg.Processing.WindowSize = 2

	if err := New(cfg, nil).Process(false); err == nil {
		t.Errorf("Expected an error for an even window size")
	}
}
