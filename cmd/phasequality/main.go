package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"phasequality/pkg/config"
	"phasequality/pkg/pipeline"
)

func main() {
	// Parse command line arguments
	configPath := flag.String("config", "phasequality.yaml", "YAML configuration file (defaults are used if missing)")
	initConfig := flag.Bool("init-config", false, "Write a default configuration file to -config and exit")
	pattern := flag.String("pattern", "", "Test pattern: vertical, horizontal, shear, spiral or peaks")
	rows := flag.Int("rows", 0, "Pattern rows")
	cols := flag.Int("cols", 0, "Pattern columns")
	windowSize := flag.Int("k", 0, "Window size (odd, >= 3)")
	numCores := flag.Int("cores", 0, "Number of CPU cores to use (default: from config)")
	borderWidth := flag.Int("border", -1, "Flag this many border pixels and ignore them in windowed statistics")
	outputDir := flag.String("output", "", "Directory to save the maps")
	format := flag.String("format", "", "Output image format: png, tiff or jpeg")
	gradients := flag.Bool("gradients", false, "Also save the dx and dy gradient images")
	quiet := flag.Bool("quiet", false, "Suppress progress output")
	flag.Parse()

	log.SetFlags(log.LstdFlags)

	if *initConfig {
		if err := config.CreateDefaultConfigFile(*configPath); err != nil {
			log.Fatalf("Failed to write default config: %v", err)
		}
		fmt.Printf("Default configuration written to %s\n", *configPath)
		return
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Command line flags override the configuration file
	if *pattern != "" {
		cfg.Pattern.Kind = *pattern
	}
	if *rows > 0 {
		cfg.Pattern.Rows = *rows
	}
	if *cols > 0 {
		cfg.Pattern.Cols = *cols
	}
	if *windowSize > 0 {
		cfg.Processing.WindowSize = *windowSize
	}
	if *numCores > 0 {
		cfg.Processing.NumCores = *numCores
	}
	if *borderWidth >= 0 {
		cfg.Processing.BorderWidth = *borderWidth
	}
	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}
	if *format != "" {
		cfg.Output.Format = *format
	}
	if *gradients {
		cfg.Output.SaveGradients = true
	}
	if *quiet {
		cfg.Output.Verbose = false
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(1)
	}

	fmt.Println("================================")
	fmt.Println("WRAPPED PHASE FILTERING AND QUALITY MAPS")
	fmt.Println("================================")

	p := pipeline.New(cfg, log.Default())

	startTime := time.Now()
	if err := p.Process(true); err != nil {
		log.Fatalf("Processing failed: %v", err)
	}
	processingTime := time.Since(startTime)

	fmt.Printf("\nCompleted in %.2f seconds using %d cores\n", processingTime.Seconds(), cfg.Processing.NumCores)
	fmt.Printf("Results saved to: %s\n\n", cfg.Output.Dir)
	for _, res := range p.Results() {
		fmt.Printf("- %-16s %8.2f ms  %s\n", res.Stage, float64(res.Elapsed.Microseconds())/1000, res.Path)
	}
}
