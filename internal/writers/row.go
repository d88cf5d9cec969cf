package writers

import (
	"strconv"

	"grna/core/design"
	"grna/core/guide"
	"grna/core/nuclease"
	"grna/core/offtarget"
	"grna/core/score"
	"grna/pkg/api"
)

// Row is one ranked candidate on its way to a writer.
type Row struct {
	RunID     string
	Rank      int // 1-based within its sequence
	Candidate guide.Candidate
}

// RowsFor numbers cands 1..n as they are ranked.
func RowsFor(runID string, cands []guide.Candidate) []Row {
	out := make([]Row, len(cands))
	for i, c := range cands {
		out[i] = Row{RunID: runID, Rank: i + 1, Candidate: c}
	}
	return out
}

// Columns of the tabular formats, in order.
var Columns = []string{
	"sequence_id", "rank", "id", "strand", "start", "end", "guide", "pam", "cut_site",
	"gc", "gc_score", "self_comp_score", "homopolymer_score", "position_score",
	"efficiency", "band", "risk", "off_target_score", "off_targets",
}

// values returns the typed cells of r in Columns order.
func (r Row) values() []any {
	c := r.Candidate
	s := c.Scores
	return []any{
		c.SequenceID, r.Rank, c.ID, c.Strand.String(), c.Start, c.End, c.Guide, c.PAM, c.CutSite,
		round(c.GC, 3), round(s.GC, 3), round(s.SelfComplementarity, 3), round(s.Homopolymer, 3), round(s.Position, 3),
		round(s.Composite, 3), score.Band(s.Composite), c.Risk.Label(), round(c.OffTargetScore, 1), len(c.OffTargets),
	}
}

// record is values rendered as text.
func (r Row) record() []string {
	vals := r.values()
	out := make([]string, len(vals))
	for i, v := range vals {
		switch x := v.(type) {
		case string:
			out[i] = x
		case int:
			out[i] = strconv.Itoa(x)
		case float64:
			out[i] = strconv.FormatFloat(x, 'f', -1, 64)
		}
	}
	return out
}

func round(x float64, digits int) float64 {
	v, _ := strconv.ParseFloat(strconv.FormatFloat(x, 'f', digits, 64), 64)
	return v
}

// ToAPICandidate converts a row to the stable wire schema (v1).
func ToAPICandidate(r Row, withHits bool) api.CandidateV1 {
	c := r.Candidate
	v := api.CandidateV1{
		RunID:          r.RunID,
		Rank:           r.Rank,
		ID:             c.ID,
		SequenceID:     c.SequenceID,
		System:         c.System,
		Start:          c.Start,
		End:            c.End,
		Strand:         c.Strand.String(),
		Guide:          c.Guide,
		PAM:            c.PAM,
		CutSite:        c.CutSite,
		GC:             c.GC,
		Scores:         ToAPIScores(c.Scores),
		Efficiency:     c.Efficiency(),
		Band:           score.Band(c.Efficiency()),
		Risk:           c.Risk.String(),
		OffTargetScore: c.OffTargetScore,
	}
	if withHits {
		v.OffTargets = ToAPIHits(c.OffTargets)
	}
	return v
}

func ToAPIScores(b score.Breakdown) api.ScoresV1 {
	return api.ScoresV1{
		GC:                  b.GC,
		SelfComplementarity: b.SelfComplementarity,
		Homopolymer:         b.Homopolymer,
		Position:            b.Position,
		Composite:           b.Composite,
	}
}

func ToAPIHits(hits []offtarget.Hit) []api.OffTargetHitV1 {
	if len(hits) == 0 {
		return nil
	}
	out := make([]api.OffTargetHitV1, len(hits))
	for i, h := range hits {
		out[i] = api.OffTargetHitV1{
			TargetID:    h.TargetID,
			Start:       h.Start,
			Strand:      h.Strand.String(),
			Mismatches:  h.Mismatches,
			MismatchIdx: append([]int(nil), h.MismatchIdx...),
			Site:        h.Site,
			Tier:        h.Tier.String(),
		}
	}
	return out
}

// ToAPIBatchResult converts one batch outcome, candidates ranked 1..n.
func ToAPIBatchResult(runID string, r design.Result, withHits bool) api.BatchResultV1 {
	v := api.BatchResultV1{
		Index:  r.Index,
		Name:   r.Name,
		Status: string(r.Status),
		Length: r.Sequence.Len(),
	}
	if r.Err != nil {
		v.Error = r.Err.Error()
	}
	for _, row := range RowsFor(runID, r.Candidates) {
		v.Candidates = append(v.Candidates, ToAPICandidate(row, withHits))
	}
	return v
}

func ToAPISystem(s nuclease.System) api.SystemV1 {
	return api.SystemV1{
		Name:           s.Name,
		PAM:            s.PAM,
		PAMSide:        s.Side.String(),
		GuideLength:    s.GuideLen,
		MinGuideLength: s.MinGuideLen,
		MaxGuideLength: s.MaxGuideLen,
		CutOffset:      s.CutOffset,
		Aliases:        append([]string(nil), s.Aliases...),
		Description:    s.Description,
	}
}
