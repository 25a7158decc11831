package config

import "github.com/spf13/pflag"

// Flags holds command line overrides. Zero values leave the config alone.
type Flags struct {
	ConfigPath string
	Debug      bool
	LogLevel   string
	LogFile    string
	Shader     string
	Precision  int
	Charset    string
}

// Register binds the flags to fs, usually a cobra command's persistent flags.
func (f *Flags) Register(fs *pflag.FlagSet) {
	fs.StringVar(&f.ConfigPath, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&f.LogFile, "log-file", "", "Write logs to this file as well")
	fs.StringVar(&f.Shader, "shader", "", "Default shader for faces without one")
	fs.IntVar(&f.Precision, "precision", -1, "Decimals written to .map files")
	fs.StringVar(&f.Charset, "charset", "", "Text encoding of written .map files (utf-8, latin1, windows-1252, euc-kr)")
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f.LogLevel != "" {
		cfg.Logging.Level = f.LogLevel
	}
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
	if f.Shader != "" {
		cfg.Brush.DefaultShader = f.Shader
	}
	if f.Precision >= 0 {
		cfg.Output.Precision = f.Precision
	}
	if f.Charset != "" {
		cfg.Output.Charset = f.Charset
	}
}
