package schedule

// Factor weights of the composite ranking score. They sum to 1.0.
const (
	WeightAvailability      = 0.35
	WeightPreference        = 0.25
	WeightConflictProximity = 0.20
	WeightFragmentation     = 0.15
	WeightOptimization      = 0.05
)

// FactorWeights is the weight vector echoed in every breakdown so callers
// can reconstruct the composite score.
type FactorWeights struct {
	Availability      float64 `json:"availability"`
	Preference        float64 `json:"preference"`
	ConflictProximity float64 `json:"conflict_proximity"`
	Fragmentation     float64 `json:"fragmentation"`
	Optimization      float64 `json:"optimization"`
}

// Weights returns the engine's fixed factor weights.
func Weights() FactorWeights {
	return FactorWeights{
		Availability:      WeightAvailability,
		Preference:        WeightPreference,
		ConflictProximity: WeightConflictProximity,
		Fragmentation:     WeightFragmentation,
		Optimization:      WeightOptimization,
	}
}

// AvailabilityDetail explains the availability factor of one candidate.
type AvailabilityDetail struct {
	RequiredAvailable     int     `json:"required_available"`
	RequiredTotal         int     `json:"required_total"`
	OptionalAvailable     int     `json:"optional_available"`
	OptionalTotal         int     `json:"optional_total"`
	AllRequiredAvailable  bool    `json:"all_required_available"`
	MeanAvailabilityScore float64 `json:"mean_availability_score"`
}

// ProximityDetail explains the conflict-proximity factor. MinGapMinutes is -1
// when no participant has any busy interval at all.
type ProximityDetail struct {
	MinGapMinutes float64 `json:"min_gap_minutes"`
}

// FragmentationDetail explains the calendar-fragmentation factor.
type FragmentationDetail struct {
	AdjacentCount int     `json:"adjacent_count"`
	GapBonus      float64 `json:"gap_bonus"`
}

// ScoreBreakdown is the per-factor decomposition of a candidate's score.
// The layout is versioned so downstream consumers can detect shape changes.
type ScoreBreakdown struct {
	Version           int                 `json:"version"`
	Weights           FactorWeights       `json:"weights"`
	Availability      float64             `json:"availability"`
	Preference        float64             `json:"preference"`
	ConflictProximity float64             `json:"conflict_proximity"`
	Fragmentation     float64             `json:"fragmentation"`
	Optimization      float64             `json:"optimization"`
	AvailabilityInfo  AvailabilityDetail  `json:"availability_info"`
	ProximityInfo     ProximityDetail     `json:"proximity_info"`
	FragmentationInfo FragmentationDetail `json:"fragmentation_info"`
}

// BreakdownVersion is the current ScoreBreakdown layout version.
const BreakdownVersion = 1

// Candidate is one proposed meeting slot with its composite score and the
// evidence behind it.
type Candidate struct {
	Slot      TimeInterval   `json:"slot"`
	Score     float64        `json:"score"`
	Breakdown ScoreBreakdown `json:"breakdown"`
	Reasoning string         `json:"reasoning"`
	Conflicts []string       `json:"conflicts,omitempty"`
}
