package config

// ApplyDefaults sets sensible default values on the given Config.
func ApplyDefaults(cfg *Config) {
	// --- Log ---
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"

	// --- Server ---
	cfg.Server.ListenAddress = ":8080"

	// --- Restore ---
	cfg.Restore.Identifier = "demo"
	cfg.Restore.Persist = "local"
	cfg.Restore.LocalPath = "./scrollkeeper-data"
	cfg.Restore.DebounceMillis = 100

	// --- Demo traffic ---
	cfg.Demo.EventsPerSecond = 60
	cfg.Demo.BurstSeconds = 2
	cfg.Demo.QuietSeconds = 3
}
