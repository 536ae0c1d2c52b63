package sim

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultHorizon is the simulated time at which each replication stops.
	DefaultHorizon = 10000.0
	// DefaultReplications is the number of independent replications per rate.
	DefaultReplications = 100
)

// DefaultArrivalRates returns the arrival rates evaluated by a default sweep.
func DefaultArrivalRates() []float64 {
	return []float64{0.5, 0.8, 0.9, 0.99}
}

// Config groups the parameters of a simulation sweep.
type Config struct {
	Horizon      float64           `yaml:"horizon"`       // simulated time units per replication (> 0)
	Replications int               `yaml:"replications"`  // replications per arrival rate (> 0)
	ArrivalRates []float64         `yaml:"arrival_rates"` // evaluated in order, each in (0, 1)
	Service      ServiceDiscipline `yaml:"service"`       // "exponential" (default) or "constant"
	Seed         *int64            `yaml:"seed,omitempty"` // nil = time-derived, non-reproducible

	// Parallel runs the replications of each rate on Workers goroutines, each
	// replication with its own derived Stream. Results are still deterministic
	// for a given seed but differ from the sequential shared-stream run.
	Parallel bool `yaml:"parallel,omitempty"`
	Workers  int  `yaml:"workers,omitempty"` // 0 = one per replication, capped at Replications
}

// DefaultConfig returns the fixed sweep: horizon 10000, 100 replications,
// rates {0.5, 0.8, 0.9, 0.99}, exponential service, time-derived seed.
func DefaultConfig() Config {
	return Config{
		Horizon:      DefaultHorizon,
		Replications: DefaultReplications,
		ArrivalRates: DefaultArrivalRates(),
		Service:      ServiceExponential,
	}
}

// WithSeed returns a copy of c with a fixed seed.
func (c Config) WithSeed(seed int64) Config {
	c.Seed = &seed
	return c
}

// ValidateArrivalRate rejects rates outside the open interval (0, 1).
func ValidateArrivalRate(lambda float64) error {
	if !(lambda > 0 && lambda < 1) {
		return fmt.Errorf("%w: got %v", ErrInvalidArrivalRate, lambda)
	}
	return nil
}

// Validate checks every field before any simulation starts.
func (c Config) Validate() error {
	if !(c.Horizon > 0) {
		return fmt.Errorf("%w: horizon must be > 0, got %v", ErrInvalidConfig, c.Horizon)
	}
	if c.Replications <= 0 {
		return fmt.Errorf("%w: replications must be > 0, got %d", ErrInvalidConfig, c.Replications)
	}
	if len(c.ArrivalRates) == 0 {
		return fmt.Errorf("%w: at least one arrival rate is required", ErrInvalidConfig)
	}
	seen := make(map[float64]bool, len(c.ArrivalRates))
	for _, lambda := range c.ArrivalRates {
		if err := ValidateArrivalRate(lambda); err != nil {
			return err
		}
		if seen[lambda] {
			return fmt.Errorf("%w: duplicate arrival rate %v", ErrInvalidConfig, lambda)
		}
		seen[lambda] = true
	}
	if !c.Service.IsValid() {
		return fmt.Errorf("%w: unknown service discipline %v", ErrInvalidConfig, c.Service)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrInvalidConfig, c.Workers)
	}
	return nil
}

// LoadConfig reads a YAML config file on top of DefaultConfig.
// Uses strict field checking: unknown keys are errors.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML config bytes on top of DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: parsing config YAML: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
