package config

import "flag"

var (
	flagConfig = flag.String("config", "", "Path to config file")
	flagDebug  = flag.Bool("debug", false, "Enable debug logging")
	flagInput  = flag.String("input", "", "Mesh input directory")
	flagOutput = flag.String("output", "", "Dataset output directory")
	flagViews  = flag.Int("views", 0, "Turnaround camera count")
	flagResume = flag.Bool("resume", false, "Resume from the checkpoint file")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagInput != "" {
		cfg.Input.MeshDir = *flagInput
	}
	if *flagOutput != "" {
		cfg.Output.Path = *flagOutput
	}
	if *flagViews > 0 {
		cfg.Camera.Count = *flagViews
	}
	if *flagResume {
		cfg.Batch.Resume = true
	}
}
