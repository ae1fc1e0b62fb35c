package config

// LogLevel selects how much the console and file loggers emit.
type LogLevel string

const (
	LogNone   LogLevel = "none"
	LogNormal LogLevel = "normal"
	LogDebug  LogLevel = "debug"
)

// Config is the top-level docnav configuration, corresponding to .docnav.yml.
type Config struct {
	// DocsDir is the Doxygen HTML output directory holding navtreedata.js.
	DocsDir string `yaml:"docs_dir" koanf:"docs_dir"`
	// Strict turns navigation shape findings into load errors.
	Strict  bool         `yaml:"strict" koanf:"strict"`
	Chunks  bool         `yaml:"chunks" koanf:"chunks"`
	Include []string     `yaml:"include" koanf:"include"`
	Exclude []string     `yaml:"exclude" koanf:"exclude"`
	DBPath  string       `yaml:"db_path" koanf:"db_path"`
	Server  ServerConfig `yaml:"server" koanf:"server"`
	Log     LogConfig    `yaml:"log" koanf:"log"`
}

// ServerConfig holds settings for docnav serve.
type ServerConfig struct {
	Port            int  `yaml:"port" koanf:"port"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	// Watch reloads the tree when scripts in DocsDir change.
	Watch bool `yaml:"watch" koanf:"watch"`
}

// LogConfig configures the console logger and an optional log file.
type LogConfig struct {
	Level       LogLevel `yaml:"level" koanf:"level"`
	Destination string   `yaml:"destination,omitempty" koanf:"destination"`
	// FileLevel applies to Destination; it defaults to Level.
	FileLevel LogLevel `yaml:"file_level,omitempty" koanf:"file_level"`
}
