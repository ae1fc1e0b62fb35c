package config

// DefaultExcludes are glob patterns skipped when discovering documentation sets.
var DefaultExcludes = []string{
	".git/**",
	"node_modules/**",
	"vendor/**",
	"**/search/**",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		DocsDir: "html",
		Chunks:  true,
		Include: []string{"**"},
		Exclude: append([]string{}, DefaultExcludes...),
		DBPath:  ".docnav/navtree.db",
		Server: ServerConfig{
			Port:  8080,
			Watch: true,
		},
		Log: LogConfig{
			Level: LogNormal,
		},
	}
}
