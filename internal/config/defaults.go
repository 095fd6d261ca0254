package config

const (
	defaultContentDir    = "~/content/episodes"
	defaultStateDir      = "~/.local/share/cadence"
	defaultProfilesFile  = "~/.config/cadence/distribution-profiles.yaml"
	defaultQueueBackend  = BackendYAML
	defaultQueueFileName = "release-queue.yaml"
	defaultQueueDBName   = "release-queue.db"
	defaultTimezone      = "Local"
	defaultFilter        = "all"
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
)

// Queue backends.
const (
	BackendYAML   = "yaml"
	BackendSQLite = "sqlite"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ContentDir:   defaultContentDir,
			StateDir:     defaultStateDir,
			ProfilesFile: defaultProfilesFile,
		},
		Queue: Queue{
			Backend: defaultQueueBackend,
		},
		Calendar: Calendar{
			Timezone:      defaultTimezone,
			DefaultFilter: defaultFilter,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
