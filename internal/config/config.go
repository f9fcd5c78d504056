package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DirName is the per-user configuration directory under $HOME.
const DirName = ".survival"

// Global configuration structure.
type Global struct {
	// Dataset
	DataDir    string `mapstructure:"data_dir" yaml:"data_dir" validate:"required"`
	DatasetURL string `mapstructure:"dataset_url" yaml:"dataset_url" validate:"omitempty,url"`
	Input      string `mapstructure:"input" yaml:"input"`
	Sheet      string `mapstructure:"sheet" yaml:"sheet"`

	// Outputs
	OutputDir   string `mapstructure:"output_dir" yaml:"output_dir" validate:"required"`
	SummaryFile string `mapstructure:"summary_file" yaml:"summary_file" validate:"required"`

	// Column names
	ClassColumn    string `mapstructure:"class_column" yaml:"class_column" validate:"required"`
	SurvivalColumn string `mapstructure:"survival_column" yaml:"survival_column" validate:"required"`
	SexColumn      string `mapstructure:"sex_column" yaml:"sex_column" validate:"required"`
	AgeColumn      string `mapstructure:"age_column" yaml:"age_column" validate:"required"`
	FareColumn     string `mapstructure:"fare_column" yaml:"fare_column" validate:"required"`

	// Plots
	PlotFormat string `mapstructure:"plot_format" yaml:"plot_format" validate:"oneof=png svg"`
	PlotWidth  int    `mapstructure:"plot_width" yaml:"plot_width" validate:"gte=200,lte=8000"`
	PlotHeight int    `mapstructure:"plot_height" yaml:"plot_height" validate:"gte=200,lte=8000"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level" validate:"oneof=trace debug info warn error"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format" validate:"oneof=pretty json"`

	// HTTP/Retry configuration
	HTTPTimeoutSec   int `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec" validate:"gt=0"`
	RetryMaxAttempts int `mapstructure:"retry_max_attempts" yaml:"retry_max_attempts" validate:"gt=0,lte=10"`
	RetryBaseDelayMs int `mapstructure:"retry_base_delay_ms" yaml:"retry_base_delay_ms" validate:"gt=0"`
	RetryMaxDelayMs  int `mapstructure:"retry_max_delay_ms" yaml:"retry_max_delay_ms" validate:"gtefield=RetryBaseDelayMs"`
}

// SummaryPath joins OutputDir and SummaryFile.
func (c *Global) SummaryPath() string {
	return filepath.Join(c.OutputDir, c.SummaryFile)
}

// Keys lists the settable keys in sorted order.
func Keys() []string {
	t := reflect.TypeOf(Global{})
	keys := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		keys = append(keys, t.Field(i).Tag.Get("mapstructure"))
	}
	sort.Strings(keys)
	return keys
}

// Set assigns value to the field named by key and re-validates. Integer keys
// must parse as integers.
func (c *Global) Set(key, value string) error {
	rv := reflect.ValueOf(c).Elem()
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Tag.Get("mapstructure") != key {
			continue
		}
		f := rv.Field(i)
		switch f.Kind() {
		case reflect.String:
			f.SetString(value)
		case reflect.Int:
			n, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("invalid int for %s: %v", key, value)
			}
			f.SetInt(int64(n))
		default:
			return fmt.Errorf("unsupported type for %s", key)
		}
		return c.Validate()
	}
	return fmt.Errorf("unknown key: %s", key)
}

// Get returns the value of key formatted as text.
func (c *Global) Get(key string) (string, bool) {
	rv := reflect.ValueOf(c).Elem()
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Tag.Get("mapstructure") == key {
			return fmt.Sprint(rv.Field(i).Interface()), true
		}
	}
	return "", false
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", "test_data")
	v.SetDefault("dataset_url", "https://github.com/pandas-dev/pandas/raw/main/doc/data/titanic.csv")
	v.SetDefault("input", "")
	v.SetDefault("sheet", "")
	v.SetDefault("output_dir", "polyglot_jupyter_example_py")
	v.SetDefault("summary_file", "titanic_survival.csv")
	v.SetDefault("class_column", "Pclass")
	v.SetDefault("survival_column", "Survived")
	v.SetDefault("sex_column", "Sex")
	v.SetDefault("age_column", "Age")
	v.SetDefault("fare_column", "Fare")
	v.SetDefault("plot_format", "png")
	v.SetDefault("plot_width", 1024)
	v.SetDefault("plot_height", 640)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "pretty")
	// HTTP/retry defaults
	v.SetDefault("http_timeout_sec", 60)
	v.SetDefault("retry_max_attempts", 3)
	v.SetDefault("retry_base_delay_ms", 500)
	v.SetDefault("retry_max_delay_ms", 4000)
}

// DefaultPath returns ~/.survival/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, DirName, "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.survival/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from defaults, the config file, a .env file in the
// working directory and the environment.
// Precedence: env (SURVIVAL_*) > config file > defaults. Flags are applied by
// the caller on top.
func Load(cfgFile string) (*Global, error) {
	// A missing .env is normal.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("SURVIVAL")
	v.AutomaticEnv()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, DirName))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var nf viper.ConfigFileNotFoundError
			if !errors.As(err, &nf) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

var (
	validate *validator.Validate
	trans    ut.Translator
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their config key.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, trans)
}

// Validate checks value ranges and enumerations.
func (c *Global) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return fmt.Errorf("validate config: %w", err)
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fe.Translate(trans))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
