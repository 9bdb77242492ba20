package progression

// Channel is one diminishing-returns experience curve: Coefficient × value^Exponent.
type Channel struct {
	Coefficient float64
	Exponent    float64 // 0 < Exponent ≤ 1
}

// Params defines all configurable parameters of the progression model
type Params struct {
	// Experience channels
	Time    Channel // value is hours of usage
	Count   Channel // value is the number of content items
	Concept Channel // value is conceptScoreSum / ConceptNormalizer

	ConceptNormalizer float64

	// Level threshold curve: ThresholdBase × level^GrowthExponent
	ThresholdBase  float64
	GrowthExponent float64
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance
type ParamsConfig struct {
	TimeCoefficient    float64 `mapstructure:"time_coefficient"`
	TimeExponent       float64 `mapstructure:"time_exponent"`
	CountCoefficient   float64 `mapstructure:"count_coefficient"`
	CountExponent      float64 `mapstructure:"count_exponent"`
	ConceptCoefficient float64 `mapstructure:"concept_coefficient"`
	ConceptExponent    float64 `mapstructure:"concept_exponent"`
	ConceptNormalizer  float64 `mapstructure:"concept_normalizer"`
	ThresholdBase      float64 `mapstructure:"threshold_base"`
	GrowthExponent     float64 `mapstructure:"growth_exponent"`
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		Time:              Channel{Coefficient: 100, Exponent: 0.5},
		Count:             Channel{Coefficient: 50, Exponent: 0.7},
		Concept:           Channel{Coefficient: 10, Exponent: 0.6},
		ConceptNormalizer: 100,
		ThresholdBase:     100,
		GrowthExponent:    1.5,
	}
}

// NewParams creates a new Params instance with custom configuration.
// Non-positive values, and exponents above 1, keep their defaults.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.TimeCoefficient > 0 {
		params.Time.Coefficient = config.TimeCoefficient
	}
	if validExponent(config.TimeExponent) {
		params.Time.Exponent = config.TimeExponent
	}
	if config.CountCoefficient > 0 {
		params.Count.Coefficient = config.CountCoefficient
	}
	if validExponent(config.CountExponent) {
		params.Count.Exponent = config.CountExponent
	}
	if config.ConceptCoefficient > 0 {
		params.Concept.Coefficient = config.ConceptCoefficient
	}
	if validExponent(config.ConceptExponent) {
		params.Concept.Exponent = config.ConceptExponent
	}
	if config.ConceptNormalizer > 0 {
		params.ConceptNormalizer = config.ConceptNormalizer
	}

	if config.ThresholdBase > 0 {
		params.ThresholdBase = config.ThresholdBase
	}
	if config.GrowthExponent > 0 {
		params.GrowthExponent = config.GrowthExponent
	}

	return params
}

func validExponent(e float64) bool {
	return e > 0 && e <= 1
}
