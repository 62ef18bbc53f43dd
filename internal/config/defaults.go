package config

const (
	defaultConfigPath    = "~/.config/mediabackup/config.toml"
	projectConfigName    = "mediabackup.toml"
	defaultSourceDir     = "export"
	defaultBackupDir     = "backup"
	defaultQuality       = 95
	defaultWorkers       = 1
	defaultFFprobeBinary = "ffprobe"
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"

	maxWorkers = 64
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			SourceDir: defaultSourceDir,
			BackupDir: defaultBackupDir,
		},
		Conversion: Conversion{
			Quality: defaultQuality,
		},
		Organize: Organize{
			Workers: defaultWorkers,
		},
		Video: Video{
			FFprobeBinary: defaultFFprobeBinary,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
