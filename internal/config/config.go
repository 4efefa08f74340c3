package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Gino-Tonic/LogPeek/internal/logging"
	"github.com/Gino-Tonic/LogPeek/internal/scanner"
)

// EnvPrefix prefixes environment overrides, e.g. LOGPEEK_MAX_LINE_BYTES.
const EnvPrefix = "LOGPEEK"

// Config is the resolved command configuration.
type Config struct {
	// Log is the input path, a glob, or "-" for standard input.
	Log string `mapstructure:"log"`

	// Pattern is the case-insensitive regular expression. Empty matches
	// every line.
	Pattern string `mapstructure:"pattern"`

	// JSON is the optional export destination.
	JSON string `mapstructure:"json"`

	// Output is the console report format: text or json.
	Output string `mapstructure:"output"`

	Encoding     string `mapstructure:"encoding"`
	Decoding     string `mapstructure:"decoding"`
	Gzip         bool   `mapstructure:"gzip"`
	MaxLineBytes int    `mapstructure:"max-line-bytes"`

	Color    string `mapstructure:"color"`
	LogLevel string `mapstructure:"log-level"`
}

// BindFlags registers the command line flags on fs.
func BindFlags(fs *pflag.FlagSet) {
	fs.String("log", "", "path to the log file (glob patterns and - for stdin accepted)")
	fs.String("pattern", "", "regex pattern to search for (case-insensitive, tested against each line without its newline)")
	fs.String("json", "", "optional: output matched lines to a JSON file")
	fs.StringP("output", "o", "text", "console output format: text, json")
	fs.String("encoding", "utf-8", "input character encoding")
	fs.String("decoding", string(scanner.DecodeLossy), "undecodable input policy: lossy, strict")
	fs.Bool("gzip", true, "transparently decompress gzip input")
	fs.Int("max-line-bytes", 0, "truncate lines longer than this many bytes (0 = no limit)")
	fs.String("color", string(logging.ColorAuto), "colorize log level tags: auto, always, never")
	fs.String("log-level", "info", "minimum log level: debug, info, warning, error")
}

// Load resolves configuration from flags, LOGPEEK_* environment variables
// and a YAML config file, in that order of precedence. An empty cfgFile
// looks for .logpeek.yaml in $HOME and the working directory.
func Load(v *viper.Viper, fs *pflag.FlagSet, cfgFile string) (Config, error) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return Config{}, err
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", cfgFile, err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName(".logpeek")
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	if err := requireKeys(v, "log", "pattern"); err != nil {
		return Config{}, err
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	c = c.withDefaults()
	return c, c.Validate()
}

// requireKeys fails when a key was supplied by no flag, environment
// variable or config file. An explicitly empty value counts as set.
func requireKeys(v *viper.Viper, keys ...string) error {
	var missing []string
	for _, k := range keys {
		if !v.IsSet(k) {
			missing = append(missing, strconv.Quote(k))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("required flag(s) %s not set", strings.Join(missing, ", "))
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.Output == "" {
		c.Output = "text"
	}
	if c.Decoding == "" {
		c.Decoding = string(scanner.DecodeLossy)
	}
	if c.Color == "" {
		c.Color = string(logging.ColorAuto)
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	return c
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Log == "" {
		return errors.New(`required flag(s) "log" not set`)
	}
	switch strings.ToLower(c.Output) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown output format %q (want text or json)", c.Output)
	}
	if c.MaxLineBytes < 0 {
		return fmt.Errorf("max-line-bytes must not be negative, got %d", c.MaxLineBytes)
	}
	if _, err := scanner.ParseDecodePolicy(c.Decoding); err != nil {
		return err
	}
	if _, err := scanner.LookupEncoding(c.Encoding); err != nil {
		return err
	}
	if _, err := logging.ParseColorMode(c.Color); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ScanOptions converts the scan settings. c must be valid.
func (c Config) ScanOptions() scanner.Options {
	policy, _ := scanner.ParseDecodePolicy(c.Decoding)
	opts := scanner.DefaultOptions()
	opts.Encoding = c.Encoding
	opts.Decoding = policy
	opts.GzipAutoDetect = c.Gzip
	opts.MaxLineBytes = c.MaxLineBytes
	return opts
}

// LoggerOptions converts the logging settings. c must be valid.
func (c Config) LoggerOptions() logging.Options {
	level, _ := logging.ParseLevel(c.LogLevel)
	color, _ := logging.ParseColorMode(c.Color)
	return logging.Options{Level: level, Color: color}
}
