package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/darkclainer/vocadrill/pkg/library"
	"github.com/darkclainer/vocadrill/pkg/parser"
	"github.com/darkclainer/vocadrill/pkg/speech"
	"github.com/darkclainer/vocadrill/pkg/translate"
)

const envPrefix = "VOCADRILL"

type Config struct {
	ZapConfig string `mapstructure:"zapconfig"`
	Host      string `mapstructure:"host" validate:"required,hostname_port"`
	Workers   int    `mapstructure:"workers" validate:"gte=0"`

	Storage   StorageConfig   `mapstructure:"storage"`
	Parser    ParserConfig    `mapstructure:"parser"`
	Speech    SpeechConfig    `mapstructure:"speech"`
	Translate TranslateConfig `mapstructure:"translate"`
}

type StorageConfig struct {
	Path     string `mapstructure:"path"`
	InMemory bool   `mapstructure:"inmemory"`
}

type ParserConfig struct {
	MaxHeadwordTokens int    `mapstructure:"max_headword_tokens" validate:"gte=1,lte=16"`
	Strict            bool   `mapstructure:"strict"`
	MinSentenceWords  int    `mapstructure:"min_sentence_words" validate:"gte=1"`
	DefaultMeaning    string `mapstructure:"default_meaning"`
}

type SpeechConfig struct {
	Host     string        `mapstructure:"host" validate:"omitempty,url"`
	Language string        `mapstructure:"language" validate:"required"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"gte=0"`
	Retries  uint          `mapstructure:"retries" validate:"lte=10"`
}

type TranslateConfig struct {
	Host    string        `mapstructure:"host" validate:"omitempty,url"`
	Source  string        `mapstructure:"source" validate:"required"`
	Target  string        `mapstructure:"target" validate:"required"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gte=0"`
	Retries uint          `mapstructure:"retries" validate:"lte=10"`
}

// Flags registers the flags Load understands on flags.
func Flags(flags *pflag.FlagSet) {
	flags.StringP("config", "c", "config.yaml", "path to local config")
}

// Load reads configuration from, in order of priority, flags bound to
// flags, VOCADRILL_* environment variables, the config file and defaults.
// A missing config file is not an error.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, err
		}
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("zapconfig", "")
	v.SetDefault("host", "localhost:8080")
	v.SetDefault("workers", 0)
	v.SetDefault("storage.path", "")
	v.SetDefault("storage.inmemory", false)
	v.SetDefault("parser.max_headword_tokens", 4)
	v.SetDefault("parser.strict", false)
	v.SetDefault("parser.min_sentence_words", 3)
	v.SetDefault("parser.default_meaning", "")
	v.SetDefault("speech.host", "")
	v.SetDefault("speech.language", "en")
	v.SetDefault("speech.timeout", 10*time.Second)
	v.SetDefault("speech.retries", 2)
	v.SetDefault("translate.host", "")
	v.SetDefault("translate.source", "en")
	v.SetDefault("translate.target", "ko")
	v.SetDefault("translate.timeout", 10*time.Second)
	v.SetDefault("translate.retries", 2)

	configPath := v.GetString("config")
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("configuration file found but could not be read: %w", err)
			}
		}
	}

	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("error while unmarshaling config: %w", err)
	}
	if conf.Storage.Path == "" {
		conf.Storage.InMemory = true
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}

func (c *Config) ZapConf() (*zap.Config, error) {
	if c.ZapConfig == "" {
		defaultConf := zap.NewDevelopmentConfig()
		return &defaultConf, nil
	}
	var zapConf zap.Config
	if err := json.Unmarshal([]byte(c.ZapConfig), &zapConf); err != nil {
		return nil, fmt.Errorf("invalid zapconfig: %w", err)
	}
	return &zapConf, nil
}

func (c *Config) ParserOptions() parser.Options {
	return parser.Options{
		MaxHeadwordTokens: c.Parser.MaxHeadwordTokens,
		Strict:            c.Parser.Strict,
		MinSentenceWords:  c.Parser.MinSentenceWords,
		DefaultMeaning:    c.Parser.DefaultMeaning,
	}
}

func (c *Config) ParsingConfig() *library.ParsingConfig {
	return &library.ParsingConfig{
		MaxWorkers: c.Workers,
		Parser:     c.ParserOptions(),
	}
}

func (c *Config) SpeechConfig() *speech.Config {
	return &speech.Config{
		Host:     c.Speech.Host,
		Language: c.Speech.Language,
		Timeout:  c.Speech.Timeout,
		Retries:  c.Speech.Retries,
	}
}

func (c *Config) TranslateConfig() *translate.Config {
	return &translate.Config{
		Host:    c.Translate.Host,
		Source:  c.Translate.Source,
		Target:  c.Translate.Target,
		Timeout: c.Translate.Timeout,
		Retries: c.Translate.Retries,
	}
}
