package config

const (
	defaultSetsDir               = "~/.local/share/brickforge/sets"
	defaultLDrawDir              = "~/.local/share/brickforge/ldraw"
	defaultLogDir                = "~/.local/share/brickforge/logs"
	defaultColorsCSV             = "~/.local/share/brickforge/colors.csv"
	defaultAPIBind               = "127.0.0.1:7973"
	defaultRebrickableBaseURL    = "https://rebrickable.com/api/v3/lego"
	defaultRebrickablePageSize   = 1000
	defaultPerlBinary            = "perl"
	defaultConverterScript       = "~/.local/share/brickforge/ldraw2stl/bin/dat2stl"
	defaultConvertTimeoutSeconds = 60
	defaultPipelineWorkers       = 2
	defaultQueueCapacity         = 16
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			SetsDir:   defaultSetsDir,
			LDrawDir:  defaultLDrawDir,
			LogDir:    defaultLogDir,
			ColorsCSV: defaultColorsCSV,
			APIBind:   defaultAPIBind,
		},
		Rebrickable: Rebrickable{
			BaseURL:  defaultRebrickableBaseURL,
			PageSize: defaultRebrickablePageSize,
		},
		Converter: Converter{
			PerlBinary:     defaultPerlBinary,
			Script:         defaultConverterScript,
			TimeoutSeconds: defaultConvertTimeoutSeconds,
			UseCache:       true,
			SkipExisting:   true,
		},
		Pipeline: Pipeline{
			Workers:       defaultPipelineWorkers,
			QueueCapacity: defaultQueueCapacity,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
