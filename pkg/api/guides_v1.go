// Package api holds the stable JSON/JSONL wire schemas.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
package api

// ScoresV1 is the per-factor breakdown of a candidate's efficiency score.
type ScoresV1 struct {
	GC                  float64 `json:"gc"`
	SelfComplementarity float64 `json:"self_complementarity"`
	Homopolymer         float64 `json:"homopolymer"`
	Position            float64 `json:"position"`
	Composite           float64 `json:"composite"`
}

// OffTargetHitV1 is one near-match of a guide elsewhere in the target pool.
type OffTargetHitV1 struct {
	TargetID    string `json:"target_id"`
	Start       int    `json:"start"`
	Strand      string `json:"strand"` // "+" | "-"
	Mismatches  int    `json:"mm"`
	MismatchIdx []int  `json:"mm_i,omitempty"`
	Site        string `json:"site"`
	Tier        string `json:"tier"`
}

// CandidateV1 is the stable schema for one designed guide.
type CandidateV1 struct {
	RunID          string           `json:"run_id,omitempty"`
	Rank           int              `json:"rank"`
	ID             string           `json:"id"`
	SequenceID     string           `json:"sequence_id"`
	System         string           `json:"system"`
	Start          int              `json:"start"`
	End            int              `json:"end"`
	Strand         string           `json:"strand"`
	Guide          string           `json:"guide"`
	PAM            string           `json:"pam"`
	CutSite        int              `json:"cut_site"`
	GC             float64          `json:"gc"`
	Scores         ScoresV1         `json:"scores"`
	Efficiency     float64          `json:"efficiency"`
	Band           string           `json:"band"`
	Risk           string           `json:"risk"`
	OffTargetScore float64          `json:"off_target_score"`
	OffTargets     []OffTargetHitV1 `json:"off_targets,omitempty"`
}

// BatchResultV1 is the outcome for one batch entry, in input order.
type BatchResultV1 struct {
	Index      int           `json:"index"`
	Name       string        `json:"name"`
	Status     string        `json:"status"` // "succeeded" | "failed" | "canceled"
	Error      string        `json:"error,omitempty"`
	Length     int           `json:"length,omitempty"`
	Candidates []CandidateV1 `json:"candidates,omitempty"`
}

// SystemV1 describes a supported nuclease.
type SystemV1 struct {
	Name           string   `json:"name"`
	PAM            string   `json:"pam"`
	PAMSide        string   `json:"pam_side"` // "5'" | "3'"
	GuideLength    int      `json:"guide_length"`
	MinGuideLength int      `json:"min_guide_length"`
	MaxGuideLength int      `json:"max_guide_length"`
	CutOffset      int      `json:"cut_offset"`
	Aliases        []string `json:"aliases,omitempty"`
	Description    string   `json:"description,omitempty"`
}

// SummaryV1 condenses a run.
type SummaryV1 struct {
	RunID      string         `json:"run_id,omitempty"`
	Sequences  int            `json:"sequences"`
	Succeeded  int            `json:"succeeded"`
	Failed     int            `json:"failed"`
	Canceled   int            `json:"canceled"`
	Candidates int            `json:"candidates"`
	Efficiency *StatsV1       `json:"efficiency,omitempty"`
	Bands      map[string]int `json:"bands,omitempty"`
	Risks      map[string]int `json:"risks,omitempty"`
}

// StatsV1 are descriptive statistics over efficiency scores.
type StatsV1 struct {
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Mean   float64 `json:"mean"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
	StdDev float64 `json:"stddev"`
}
