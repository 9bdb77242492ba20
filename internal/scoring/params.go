package scoring

// Params defines all configurable parameters of the numeric score
type Params struct {
	// MaxScore is the value a perfect session saturates at
	MaxScore float64

	// Weights of the three score factors; they should sum to 1
	PlacementWeight float64
	OrderWeight     float64
	TimeWeight      float64
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance
type ParamsConfig struct {
	MaxScore        float64 `mapstructure:"max_score"`
	PlacementWeight float64 `mapstructure:"placement_weight"`
	OrderWeight     float64 `mapstructure:"order_weight"`
	TimeWeight      float64 `mapstructure:"time_weight"`
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		MaxScore:        100,
		PlacementWeight: 0.6,
		OrderWeight:     0.2,
		TimeWeight:      0.2,
	}
}

// NewParams creates a new Params instance with custom configuration.
// Weights are normalized so that a perfect session scores MaxScore.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.MaxScore > 0 {
		params.MaxScore = config.MaxScore
	}
	if config.PlacementWeight > 0 || config.OrderWeight > 0 || config.TimeWeight > 0 {
		params.PlacementWeight = nonNegative(config.PlacementWeight)
		params.OrderWeight = nonNegative(config.OrderWeight)
		params.TimeWeight = nonNegative(config.TimeWeight)
	}

	if sum := params.PlacementWeight + params.OrderWeight + params.TimeWeight; sum > 0 {
		params.PlacementWeight /= sum
		params.OrderWeight /= sum
		params.TimeWeight /= sum
	}

	return params
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
