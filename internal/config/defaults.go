package config

const (
	defaultBaseURL         = "http://cms-dev.runasp.net/api/v1"
	defaultRequestTimeout  = 30
	defaultDataDir         = "~/.local/share/mediaup"
	defaultLogDir          = "~/.local/share/mediaup/logs"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	defaultDeadlineSeconds = 300
	defaultIntervalMS      = 3000

	// Server-side limits per upload context. The reel and post paths enforce
	// different video ceilings, so they stay separate knobs.
	defaultReelVideoMaxMB = 500
	defaultPostVideoMaxMB = 100
	defaultImageMaxMB     = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Server: Server{
			BaseURL:        defaultBaseURL,
			RequestTimeout: defaultRequestTimeout,
		},
		Uploads: Uploads{
			ReelVideo: UploadProfile{MaxSizeMB: defaultReelVideoMaxMB},
			PostVideo: UploadProfile{MaxSizeMB: defaultPostVideoMaxMB},
			Image:     UploadProfile{MaxSizeMB: defaultImageMaxMB},
		},
		Polling: Polling{
			DeadlineSeconds: defaultDeadlineSeconds,
			IntervalMS:      defaultIntervalMS,
		},
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
