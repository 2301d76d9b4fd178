package benchmark

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Options controls one orchestrator run.
type Options struct {
	// Language selects problems from the catalog.
	Language string `mapstructure:"language"`

	// PassAtK lists the k values to label on the solved/total ratio.
	// Every k labels the same single-attempt ratio: the orchestrator
	// evaluates exactly one solution per problem, it does not draw k
	// independent samples.
	PassAtK []int `mapstructure:"pass_at_k"`

	// Parallel enables the bounded worker pool for problem evaluation.
	Parallel bool `mapstructure:"parallel"`

	// Workers caps concurrent evaluations when Parallel is set.
	Workers int `mapstructure:"workers"`
}

const defaultWorkers = 4

// withDefaults fills unset fields with reference defaults.
func (o Options) withDefaults() Options {
	if o.Language == "" {
		o.Language = "python"
	}
	if len(o.PassAtK) == 0 {
		o.PassAtK = []int{1}
	}
	if o.Workers <= 0 {
		o.Workers = defaultWorkers
	}
	return o
}

// DecodeOptions builds Options from a loosely typed map, e.g. options blocks
// in config files.
func DecodeOptions(raw map[string]any) (Options, error) {
	var opts Options
	if err := mapstructure.Decode(raw, &opts); err != nil {
		return Options{}, fmt.Errorf("decoding benchmark options: %w", err)
	}
	return opts, nil
}
