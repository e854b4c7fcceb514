package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
	"gopkg.in/yaml.v3"

	"github.com/heiberg/ofxify/internal/charset"
	"github.com/heiberg/ofxify/internal/column"
	"github.com/heiberg/ofxify/internal/importer"
	"github.com/heiberg/ofxify/internal/model"
)

// DefaultFile is the config file written by init and picked up from the
// working directory when --config is not given.
const DefaultFile = "ofxify.yaml"

// EnvPrefix prefixes environment overrides, e.g. OFXIFY_ACCOUNT_BANK_ID.
const EnvPrefix = "OFXIFY"

// Config represents the top-level ofxify.yaml configuration.
type Config struct {
	Processor string        `yaml:"processor" mapstructure:"processor"`
	Input     InputConfig   `yaml:"input" mapstructure:"input"`
	Output    OutputConfig  `yaml:"output" mapstructure:"output"`
	Account   AccountConfig `yaml:"account" mapstructure:"account"`
}

// InputConfig describes the source text.
type InputConfig struct {
	Encoding        string `yaml:"encoding" mapstructure:"encoding"`
	FieldSeparator  string `yaml:"field_separator" mapstructure:"field_separator"`   // backslash escapes allowed
	RecordSeparator string `yaml:"record_separator" mapstructure:"record_separator"` // backslash escapes allowed
	Columns         string `yaml:"columns" mapstructure:"columns"`                   // e.g. "date,description,id,amount"
	DateFormat      string `yaml:"date_format" mapstructure:"date_format"`           // Go reference layout
	SkipRows        int    `yaml:"skip_rows" mapstructure:"skip_rows"`
}

// OutputConfig describes the OFX document.
type OutputConfig struct {
	Encoding string `yaml:"encoding" mapstructure:"encoding"`
}

// AccountConfig identifies the statement account.
type AccountConfig struct {
	BankID    string `yaml:"bank_id" mapstructure:"bank_id"`
	AccountID string `yaml:"account_id" mapstructure:"account_id"`
}

// Load reads an ofxify.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Processor: "table",
		Input: InputConfig{
			Encoding:        "UTF-8",
			FieldSeparator:  ",",
			RecordSeparator: `\n`,
			Columns:         column.DefaultFormat.String(),
			DateFormat:      "2006-01-02 15:04:05",
		},
		Output: OutputConfig{
			Encoding: "UTF-8",
		},
	}
}

// flagKeys maps command-line flags to config keys.
var flagKeys = map[string]string{
	"processor":        "processor",
	"input-encoding":   "input.encoding",
	"field-separator":  "input.field_separator",
	"record-separator": "input.record_separator",
	"columns":          "input.columns",
	"date-format":      "input.date_format",
	"skip-rows":        "input.skip_rows",
	"output-encoding":  "output.encoding",
	"bank-id":          "account.bank_id",
	"account-id":       "account.account_id",
}

// Build layers the configuration: defaults, then the YAML file at path
// (or ./ofxify.yaml if present when path is empty), then OFXIFY_*
// environment variables, then any flags in flags that were set.
func Build(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if _, err := os.Stat(DefaultFile); err == nil {
		v.SetConfigFile(DefaultFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", DefaultFile, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("processor", d.Processor)
	v.SetDefault("input.encoding", d.Input.Encoding)
	v.SetDefault("input.field_separator", d.Input.FieldSeparator)
	v.SetDefault("input.record_separator", d.Input.RecordSeparator)
	v.SetDefault("input.columns", d.Input.Columns)
	v.SetDefault("input.date_format", d.Input.DateFormat)
	v.SetDefault("input.skip_rows", d.Input.SkipRows)
	v.SetDefault("output.encoding", d.Output.Encoding)
	v.SetDefault("account.bank_id", d.Account.BankID)
	v.SetDefault("account.account_id", d.Account.AccountID)
}

// LoadDotEnv loads KEY=value pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadDotEnv(path string) error {
	if err := gotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Validate reports configuration errors before any input is read.
func (c *Config) Validate() error {
	var errs []error
	if _, err := importer.DefaultRegistry(importer.Options{}).Lookup(c.Processor); err != nil {
		errs = append(errs, err)
	}
	if _, err := column.ParseFormat(c.Input.Columns); err != nil {
		errs = append(errs, fmt.Errorf("input.columns: %w", err))
	}
	if _, err := charset.Lookup(c.Input.Encoding); err != nil {
		errs = append(errs, fmt.Errorf("input.encoding: %w", err))
	}
	if _, err := charset.Lookup(c.Output.Encoding); err != nil {
		errs = append(errs, fmt.Errorf("output.encoding: %w", err))
	}
	if n := utf8.RuneCountInString(Unescape(c.Input.FieldSeparator)); n != 1 {
		errs = append(errs, fmt.Errorf("input.field_separator: must be a single character, got %q", c.Input.FieldSeparator))
	}
	if Unescape(c.Input.RecordSeparator) == "" {
		errs = append(errs, errors.New("input.record_separator: empty"))
	}
	if strings.TrimSpace(c.Input.DateFormat) == "" {
		errs = append(errs, errors.New("input.date_format: empty"))
	}
	if c.Input.SkipRows < 0 {
		errs = append(errs, fmt.Errorf("input.skip_rows: %d is negative", c.Input.SkipRows))
	}
	return errors.Join(errs...)
}

// ImporterOptions translates the input section for the parser registry.
func (c *Config) ImporterOptions(logger *log.Logger) (importer.Options, error) {
	columns, err := column.ParseFormat(c.Input.Columns)
	if err != nil {
		return importer.Options{}, err
	}
	return importer.Options{
		Encoding:        c.Input.Encoding,
		FieldSeparator:  Unescape(c.Input.FieldSeparator),
		RecordSeparator: Unescape(c.Input.RecordSeparator),
		Columns:         columns,
		DateLayout:      c.Input.DateFormat,
		SkipRows:        c.Input.SkipRows,
		Logger:          logger,
	}, nil
}

// AccountInfo returns the statement account.
func (c *Config) AccountInfo() model.Account {
	return model.Account{BankID: c.Account.BankID, AccountID: c.Account.AccountID}
}

var escapes = strings.NewReplacer(`\t`, "\t", `\n`, "\n", `\r`, "\r", `\\`, `\`)

// Unescape expands \t, \n, \r and \\ in a separator.
func Unescape(s string) string {
	return escapes.Replace(s)
}
