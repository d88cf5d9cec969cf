package api

// FiltersV1 are candidate thresholds; zero values mean "no limit".
type FiltersV1 struct {
	MinScore float64 `json:"min_score,omitempty"`
	GCMin    float64 `json:"gc_min,omitempty"`
	GCMax    float64 `json:"gc_max,omitempty"`
	MaxRisk  string  `json:"max_risk,omitempty"` // "low" | "moderate" | "high" | "exact-duplicate"
	Limit    int     `json:"limit,omitempty"`
}

// DesignRequestV1 asks for guides against a single sequence.
type DesignRequestV1 struct {
	Name        string     `json:"name,omitempty"`
	Sequence    string     `json:"sequence"`
	System      string     `json:"system,omitempty"`
	GuideLength int        `json:"guide_length,omitempty"`
	Filters     *FiltersV1 `json:"filters,omitempty"`
	OffTargets  bool       `json:"off_targets,omitempty"` // include per-hit detail
}

// DesignResponseV1 carries the ranked candidates.
type DesignResponseV1 struct {
	RunID      string        `json:"run_id"`
	SequenceID string        `json:"sequence_id"`
	Length     int           `json:"length"`
	System     string        `json:"system"`
	Candidates []CandidateV1 `json:"candidates"`
}

// EntryV1 is one named sequence.
type EntryV1 struct {
	Name     string `json:"name,omitempty"`
	Sequence string `json:"sequence"`
}

// BatchRequestV1 designs guides for many sequences at once.
type BatchRequestV1 struct {
	Entries    []EntryV1  `json:"entries"`
	System     string     `json:"system,omitempty"`
	Filters    *FiltersV1 `json:"filters,omitempty"`
	Pool       string     `json:"pool,omitempty"` // "others" | "all" | "self"
	OffTargets bool       `json:"off_targets,omitempty"`
}

// BatchResponseV1 keeps results in input order.
type BatchResponseV1 struct {
	RunID   string          `json:"run_id"`
	Results []BatchResultV1 `json:"results"`
	Summary SummaryV1       `json:"summary"`
}

// ScoreRequestV1 rescores a bare guide.
type ScoreRequestV1 struct {
	Guide  string `json:"guide"`
	System string `json:"system,omitempty"`
}

// ScoreResponseV1 is the breakdown for one guide.
type ScoreResponseV1 struct {
	Guide  string   `json:"guide"`
	System string   `json:"system"`
	GC     float64  `json:"gc"`
	Scores ScoresV1 `json:"scores"`
	Band   string   `json:"band"`
}

// OffTargetRequestV1 searches targets for near-matches of a guide.
type OffTargetRequestV1 struct {
	Guide         string    `json:"guide"`
	System        string    `json:"system,omitempty"`
	MaxMismatches *int      `json:"max_mismatches,omitempty"` // default 3
	Targets       []EntryV1 `json:"targets"`
}

// OffTargetResponseV1 lists hits with the overall tier.
type OffTargetResponseV1 struct {
	Guide          string           `json:"guide"`
	Hits           []OffTargetHitV1 `json:"hits"`
	Risk           string           `json:"risk"`
	OffTargetScore float64          `json:"off_target_score"`
}

// ErrorV1 is the body of every non-2xx response.
type ErrorV1 struct {
	Error string `json:"error"`
}
