// Package config loads application configuration from file and environment
// and owns global logger initialization.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Reconcile ReconcileConfig `yaml:"reconcile" mapstructure:"reconcile"`
	Rawmatch  RawmatchConfig  `yaml:"rawmatch" mapstructure:"rawmatch"`
	Aliases   AliasConfig     `yaml:"aliases" mapstructure:"aliases"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// ReconcileConfig configures the CRD + email/fuzzy reconciliation run.
type ReconcileConfig struct {
	CRMFile      string `yaml:"crm_file" mapstructure:"crm_file"`
	AttendeeFile string `yaml:"attendee_file" mapstructure:"attendee_file"`
	OutputFile   string `yaml:"output_file" mapstructure:"output_file"`

	CRMMatchedSheet        string `yaml:"crm_matched_sheet" mapstructure:"crm_matched_sheet"`
	CRMUnmatchedSheet      string `yaml:"crm_unmatched_sheet" mapstructure:"crm_unmatched_sheet"`
	AttendeeMatchedSheet   string `yaml:"attendee_matched_sheet" mapstructure:"attendee_matched_sheet"`
	AttendeeUnmatchedSheet string `yaml:"attendee_unmatched_sheet" mapstructure:"attendee_unmatched_sheet"`

	Threshold int `yaml:"threshold" mapstructure:"threshold"`
}

// RawmatchConfig configures the raw name+company fuzzy pass.
type RawmatchConfig struct {
	AttendeeFile string   `yaml:"attendee_file" mapstructure:"attendee_file"`
	ContactsFile string   `yaml:"contacts_file" mapstructure:"contacts_file"`
	OutputFile   string   `yaml:"output_file" mapstructure:"output_file"`
	Sheets       []string `yaml:"sheets" mapstructure:"sheets"`
	Threshold    int      `yaml:"threshold" mapstructure:"threshold"`
}

// AliasConfig points at an optional column-alias override file.
type AliasConfig struct {
	File string `yaml:"file" mapstructure:"file"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CONTACTMATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Keys without a meaningful default still get "" registered
	// so environment overrides bind during Unmarshal.
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("aliases.file", "")
	v.SetDefault("reconcile.crm_file", "")
	v.SetDefault("reconcile.attendee_file", "")
	v.SetDefault("rawmatch.attendee_file", "")
	v.SetDefault("rawmatch.contacts_file", "")
	v.SetDefault("reconcile.output_file", "data/reconciled.xlsx")
	v.SetDefault("reconcile.crm_matched_sheet", "Revised dups in discovery")
	v.SetDefault("reconcile.crm_unmatched_sheet", "Revised dups not in discovery")
	v.SetDefault("reconcile.attendee_matched_sheet", "Contact in Discovery")
	v.SetDefault("reconcile.attendee_unmatched_sheet", "Contact not in discovery")
	v.SetDefault("reconcile.threshold", 80)
	v.SetDefault("rawmatch.output_file", "data/rawmatch.xlsx")
	v.SetDefault("rawmatch.sheets", []string{"in discovery", "not in discovery"})
	v.SetDefault("rawmatch.threshold", 90)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
