// Package planconfig holds the Behaviour Space configuration struct of
// spec.md §6, loadable from YAML via gopkg.in/yaml.v3 (the
// config/serialization library used by the retrieval pack's
// aixgo-dev-aixgo repo) or built programmatically.
package planconfig

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/gitrdm/bplan/pkg/planerr"
)

// FeatureSpec names one feature to attach, plus whatever options its kind
// needs. Not every field applies to every Kind: ResourceFile is read by
// "resource_count", FunctionFile by "functions", LandmarkPredicates by
// "landmark_predicate_ordering".
type FeatureSpec struct {
	Kind               string   `yaml:"kind"`
	ResourceFile       string   `yaml:"resource_file,omitempty"`
	FunctionFile       string   `yaml:"function_file,omitempty"`
	LandmarkPredicates []string `yaml:"landmark_predicates,omitempty"`
}

// Recognised FeatureSpec.Kind values.
const (
	KindGoalOrdering     = "goal_predicate_ordering"
	KindLandmarkOrdering = "landmark_predicate_ordering"
	KindCostBound        = "cost_bound_makespan_optimal"
	KindResourceCount    = "resource_count"
	KindUtilityValue     = "utility_value"
	KindUtilitySet       = "utility_set"
	KindFunctions        = "functions"
)

// Config mirrors spec.md §6's configuration struct field for field,
// Go-cased, with the exact defaults spec.md names.
type Config struct {
	Encoder                       string        `yaml:"encoder"`
	UpperBound                    int           `yaml:"upper_bound"`
	QualityBoundFactor            float64       `yaml:"quality_bound_factor"`
	SolverTimeoutMS               int           `yaml:"solver_timeout_ms"`
	SolverMemoryLimitMB           int           `yaml:"solver_memory_limit_mb"`
	DisableAfterGoalStateActions  bool          `yaml:"disable_after_goal_state_actions"`
	HorizonPlanning               bool          `yaml:"horizon_planning"`
	BehavioursOnly                bool          `yaml:"behaviours_only"`
	IgnoreSeedPlan                bool          `yaml:"ignore_seed_plan"`
	Features                      []FeatureSpec `yaml:"features"`
}

// Default returns the configuration spec.md §6 describes when every field
// is left unset.
func Default() Config {
	return Config{
		Encoder:             "seq",
		UpperBound:          50,
		QualityBoundFactor:  1.0,
		SolverTimeoutMS:     300_000,
		SolverMemoryLimitMB: 16_000,
	}
}

// Load parses data as YAML over Default(), so any field the document
// omits keeps its spec.md default rather than zeroing out.
func Load(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("planconfig: parse: %v: %w", err, planerr.ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations New/Load callers should never act on:
// unknown encoder kinds and out-of-range numeric options.
func (c Config) Validate() error {
	switch c.Encoder {
	case "seq", "forall", "r2e", "qfuf":
	default:
		return fmt.Errorf("planconfig: unknown encoder %q: %w", c.Encoder, planerr.ErrInvalidConfig)
	}
	if c.UpperBound < 1 {
		return fmt.Errorf("planconfig: upper_bound must be >= 1, got %d: %w", c.UpperBound, planerr.ErrInvalidConfig)
	}
	if c.QualityBoundFactor <= 0 {
		return fmt.Errorf("planconfig: quality_bound_factor must be > 0, got %g: %w", c.QualityBoundFactor, planerr.ErrInvalidConfig)
	}
	if c.SolverTimeoutMS < 0 || c.SolverMemoryLimitMB < 0 {
		return fmt.Errorf("planconfig: solver limits must be non-negative: %w", planerr.ErrInvalidConfig)
	}
	for _, f := range c.Features {
		switch f.Kind {
		case KindGoalOrdering, KindLandmarkOrdering, KindCostBound, KindResourceCount,
			KindUtilityValue, KindUtilitySet, KindFunctions:
		default:
			return fmt.Errorf("planconfig: unknown feature kind %q: %w", f.Kind, planerr.ErrInvalidConfig)
		}
	}
	return nil
}
