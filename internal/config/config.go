// =============================================================================
// Budget Importer - Configuration Module
// =============================================================================
//
// This module loads and validates the application configuration. The fixed
// protocol surface (endpoint, encryption mode, operation type, propagation
// and recalculation flags, timeout, batch size, retry policy) lives in a
// YAML file; credentials may come from the YAML file, from environment
// variables, or from command-line flags, in increasing order of precedence.
//
// The pipeline never reads module-level state: every call receives an
// immutable Submission value built from this configuration, so tests can run
// against alternate endpoints and flags without touching globals.
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// ProductionEndpoint is the Senior ERP budget-grid service this importer was
// built against. It is the default when the YAML file does not override it.
const ProductionEndpoint = "https://web130.seniorcloud.com.br:30401/" +
	"g5-senior-services/sapiens_Synccom_senior_g5_co_mfi_prj_gerarorcamentofinanceirogrid"

// =============================================================================
// CONFIGURATION STRUCTURES
// =============================================================================

// Config holds the application configuration, loaded from a YAML file with
// environment overrides applied to the credential block.
type Config struct {
	// Endpoint is the SOAP service URL batches are posted to.
	Endpoint string `yaml:"endpoint"`

	// Encryption is the Senior webservice encryption mode. The budget-grid
	// service expects "0" (none).
	Encryption string `yaml:"encryption"`

	// TipOpe is the operation type. "0" generates/appends budget rows.
	TipOpe string `yaml:"tip_ope"`

	// LctSup controls propagation to parent accounts. "1" posts the values
	// to superior levels as well.
	LctSup string `yaml:"lct_sup"`

	// RecalculaTotalizadores asks the ERP to recalculate totalizers after
	// the import. Valid values: "S" or "N".
	RecalculaTotalizadores string `yaml:"recalcula_totalizadores"`

	// TimeoutSeconds is the per-HTTP-call timeout. There is no whole-run
	// timeout; a run of many batches simply takes as long as it takes.
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// BatchSize is the maximum number of records per envelope.
	BatchSize int `yaml:"batch_size"`

	// Retry is the transport retry policy for a single batch send.
	Retry RetryConfig `yaml:"retry"`

	// LogLevel controls verbosity: "debug", "info", "warn", "error".
	LogLevel string `yaml:"log_level"`

	// OutputDir is where the submission log and simulate-mode artifacts
	// are written.
	OutputDir string `yaml:"output_dir"`

	// Credentials is the access block. Flags override environment, which
	// overrides YAML.
	Credentials Credentials `yaml:"credentials"`
}

// RetryConfig bounds the retry loop inside the transport. Retries apply to a
// single batch send only; the batch runner never retries across batches.
type RetryConfig struct {
	// MaxRetries is the number of additional attempts after the first.
	// A pointer so that an explicit 0 ("never retry") survives loading;
	// only an absent key falls back to the default.
	MaxRetries *int `yaml:"max_retries"`

	// BackoffStepSeconds is the linear backoff step. Attempt n waits
	// n * step before retrying (2s, 4s, ... with the default step of 2).
	BackoffStepSeconds int `yaml:"backoff_step_seconds"`
}

// Credentials is the user-editable access block.
type Credentials struct {
	// User is the webservice user name.
	User string `yaml:"user" envconfig:"ORCIMPORT_USER"`

	// Password is the webservice password.
	Password string `yaml:"password" envconfig:"ORCIMPORT_PASSWORD"`

	// CodEmp is the company code the budget belongs to.
	CodEmp string `yaml:"company" envconfig:"ORCIMPORT_COMPANY"`
}

// =============================================================================
// SUBMISSION VALUE
// =============================================================================

// Submission is the immutable per-run configuration handed to the envelope
// builder, transport and batch runner. It is a plain value: copy it freely,
// never mutate it mid-run.
type Submission struct {
	Endpoint               string
	User                   string
	Password               string
	Encryption             string
	TipOpe                 string
	CodEmp                 string
	LctSup                 string
	RecalculaTotalizadores string
	Timeout                time.Duration
	MaxRetries             int
	BackoffStep            time.Duration
}

// Submission builds the immutable submission value from the configuration.
func (c *Config) Submission() Submission {
	maxRetries := 0
	if c.Retry.MaxRetries != nil {
		maxRetries = *c.Retry.MaxRetries
	}

	return Submission{
		Endpoint:               c.Endpoint,
		User:                   c.Credentials.User,
		Password:               c.Credentials.Password,
		Encryption:             c.Encryption,
		TipOpe:                 c.TipOpe,
		CodEmp:                 c.Credentials.CodEmp,
		LctSup:                 c.LctSup,
		RecalculaTotalizadores: c.RecalculaTotalizadores,
		Timeout:                time.Duration(c.TimeoutSeconds) * time.Second,
		MaxRetries:             maxRetries,
		BackoffStep:            time.Duration(c.Retry.BackoffStepSeconds) * time.Second,
	}
}

// =============================================================================
// LOADING FUNCTIONS
// =============================================================================

// Load reads the configuration from a YAML file, applies defaults, applies
// environment overrides to the credential block, and validates the result.
// A missing file is not an error: all protocol settings have defaults and
// credentials can arrive via environment or flags.
func Load(path string) (*Config, error) {
	var config Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case os.IsNotExist(err):
		// Run on defaults.
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	applyDefaults(&config)

	// Environment overrides for the access block.
	if err := envconfig.Process("", &config.Credentials); err != nil {
		return nil, fmt.Errorf("failed to read credential environment: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyDefaults sets default values for any unset configuration options.
// The defaults mirror the production values the importer has always used.
func applyDefaults(config *Config) {
	if config.Endpoint == "" {
		config.Endpoint = ProductionEndpoint
	}
	if config.Encryption == "" {
		config.Encryption = "0"
	}
	if config.TipOpe == "" {
		config.TipOpe = "0"
	}
	if config.LctSup == "" {
		config.LctSup = "1"
	}
	if config.RecalculaTotalizadores == "" {
		config.RecalculaTotalizadores = "S"
	}
	if config.TimeoutSeconds == 0 {
		config.TimeoutSeconds = 60
	}
	if config.BatchSize == 0 {
		config.BatchSize = 50
	}
	if config.Retry.MaxRetries == nil {
		defaultRetries := 2
		config.Retry.MaxRetries = &defaultRetries
	}
	if config.Retry.BackoffStepSeconds == 0 {
		config.Retry.BackoffStepSeconds = 2
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
}

// validate rejects configurations the pipeline cannot run with.
func validate(config *Config) error {
	if config.Endpoint == "" {
		return fmt.Errorf("endpoint must not be empty")
	}
	if config.BatchSize < 1 {
		return fmt.Errorf("batch_size must be at least 1, got %d", config.BatchSize)
	}
	if config.TimeoutSeconds < 1 {
		return fmt.Errorf("timeout_seconds must be at least 1, got %d", config.TimeoutSeconds)
	}
	if *config.Retry.MaxRetries < 0 {
		return fmt.Errorf("retry.max_retries must not be negative, got %d", *config.Retry.MaxRetries)
	}
	if config.RecalculaTotalizadores != "S" && config.RecalculaTotalizadores != "N" {
		return fmt.Errorf("recalcula_totalizadores must be \"S\" or \"N\", got %q", config.RecalculaTotalizadores)
	}
	return nil
}
