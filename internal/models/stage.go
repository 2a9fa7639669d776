package models

import (
	"time"

	"phasequality/pkg/grid"
)

// Stage identifies one product of the quality mapping pipeline
type Stage int

const (
	Unwrapped Stage = iota
	Wrapped
	Noisy
	GradientX
	GradientY
	MeanFiltered
	MedianFiltered
	MeanDisplay
	MedianDisplay
	PDVMap
	MaxGradMap
)

var stageNames = [...]string{
	Unwrapped:      "unwrapped",
	Wrapped:        "wrapped",
	Noisy:          "noisy",
	GradientX:      "dx",
	GradientY:      "dy",
	MeanFiltered:   "mean_filtered",
	MedianFiltered: "median_filtered",
	MeanDisplay:    "mean_display",
	MedianDisplay:  "median_display",
	PDVMap:         "pdv",
	MaxGradMap:     "max_grad",
}

// String returns the stage name, also used as output file stem
func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}

// Phase reports whether the stage holds canonical phase rather than a derived quantity
func (s Stage) Phase() bool {
	switch s {
	case Wrapped, Noisy, MeanFiltered, MedianFiltered:
		return true
	}
	return false
}

// StageResult is the image produced by a stage together with bookkeeping
type StageResult struct {
	// Stage that produced the image
	Stage Stage

	// Image is the stage output
	Image *grid.Image

	// Elapsed is the time spent computing the stage
	Elapsed time.Duration

	// Path is where the image was written, empty when not saved
	Path string
}
