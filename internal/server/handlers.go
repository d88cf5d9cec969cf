package server

import (
	"errors"
	"net/http"

	"grna/core/design"
	"grna/core/guide"
	"grna/core/nuclease"
	"grna/core/offtarget"
	"grna/core/score"
	"grna/core/sequence"
	"grna/internal/common"
	"grna/internal/jsonutil"
	"grna/internal/summary"
	"grna/internal/version"
	"grna/internal/writers"
	"grna/pkg/api"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": version.Version})
}

func (s *Server) handleSystems(w http.ResponseWriter, r *http.Request) {
	all := nuclease.All()
	out := make([]api.SystemV1, len(all))
	for i, sys := range all {
		out[i] = writers.ToAPISystem(sys)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDesign(w http.ResponseWriter, r *http.Request) {
	var req api.DesignRequestV1
	if !decode(w, r, &req) {
		return
	}
	d, err := s.designer(req.System, req.GuideLength, req.Filters, string(design.PoolSelf))
	if err != nil {
		s.fail(w, err)
		return
	}
	seq, err := d.Normalize(req.Sequence, design.EntryName(design.Entry{Name: req.Name}, 0))
	if err != nil {
		s.fail(w, err)
		return
	}
	cands, err := d.Design(seq, []sequence.Sequence{seq})
	if err != nil {
		s.fail(w, err)
		return
	}
	runID := common.NewRunID()
	resp := api.DesignResponseV1{
		RunID:      runID,
		SequenceID: seq.ID,
		Length:     seq.Len(),
		System:     d.System().Name,
		Candidates: make([]api.CandidateV1, 0, len(cands)),
	}
	for _, row := range writers.RowsFor(runID, cands) {
		resp.Candidates = append(resp.Candidates, writers.ToAPICandidate(row, req.OffTargets))
	}
	s.log.Debug("design", "run", runID, "length", seq.Len(), "candidates", len(cands))
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req api.BatchRequestV1
	if !decode(w, r, &req) {
		return
	}
	if len(req.Entries) == 0 {
		writeError(w, http.StatusBadRequest, errors.New("no entries"))
		return
	}
	d, err := s.designer(req.System, 0, req.Filters, req.Pool)
	if err != nil {
		s.fail(w, err)
		return
	}
	entries := make([]design.Entry, len(req.Entries))
	for i, e := range req.Entries {
		entries[i] = design.Entry{Name: e.Name, Raw: e.Sequence}
	}
	results, err := d.ProcessBatch(r.Context(), entries, nil)
	if err != nil {
		s.fail(w, err)
		return
	}
	runID := common.NewRunID()
	sum, err := summary.Build(runID, results)
	if err != nil {
		s.fail(w, err)
		return
	}
	resp := api.BatchResponseV1{RunID: runID, Results: make([]api.BatchResultV1, len(results)), Summary: sum}
	for i, res := range results {
		resp.Results[i] = writers.ToAPIBatchResult(runID, res, req.OffTargets)
	}
	s.log.Info("batch", "run", runID, "sequences", sum.Sequences, "failed", sum.Failed, "candidates", sum.Candidates)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req api.ScoreRequestV1
	if !decode(w, r, &req) {
		return
	}
	sys, err := nuclease.Lookup(s.system(req.System))
	if err != nil {
		s.fail(w, err)
		return
	}
	g, err := sequence.Normalize(req.Guide, sequence.Options{})
	if err != nil {
		s.fail(w, err)
		return
	}
	c, err := design.ScoreCandidate(guide.Candidate{System: sys.Name, Guide: g.Seq})
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.ScoreResponseV1{
		Guide:  c.Guide,
		System: sys.Name,
		GC:     c.GC,
		Scores: writers.ToAPIScores(c.Scores),
		Band:   score.Band(c.Efficiency()),
	})
}

func (s *Server) handleOffTargets(w http.ResponseWriter, r *http.Request) {
	var req api.OffTargetRequestV1
	if !decode(w, r, &req) {
		return
	}
	sys, err := nuclease.Lookup(s.system(req.System))
	if err != nil {
		s.fail(w, err)
		return
	}
	g, err := sequence.Normalize(req.Guide, sequence.Options{})
	if err != nil {
		s.fail(w, err)
		return
	}
	k := s.base.OffTarget.MaxMismatches
	if req.MaxMismatches != nil {
		k = *req.MaxMismatches
	}
	pool := make([]sequence.Sequence, 0, len(req.Targets))
	for i, t := range req.Targets {
		seq, err := sequence.Normalize(t.Sequence, sequence.Options{})
		if err != nil {
			s.fail(w, err)
			return
		}
		seq.ID = design.EntryName(design.Entry{Name: t.Name}, i)
		pool = append(pool, seq)
	}
	c := guide.Candidate{ID: "query", System: sys.Name, Guide: g.Seq, Start: -1}
	hits, err := design.FindOffTargets(c, pool, k)
	if err != nil {
		s.fail(w, &badRequestError{err})
		return
	}
	resp := api.OffTargetResponseV1{
		Guide:          c.Guide,
		Hits:           writers.ToAPIHits(hits),
		Risk:           offtarget.Summarize(hits).String(),
		OffTargetScore: offtarget.AggregateScore(hits),
	}
	if resp.Hits == nil {
		resp.Hits = []api.OffTargetHitV1{}
	}
	writeJSON(w, http.StatusOK, resp)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := jsonutil.DecodeStrict(r.Body, v); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, err)
			return false
		}
		writeError(w, http.StatusBadRequest, err)
		return false
	}
	return true
}

// fail maps engine errors to a status: bad input is 400, an oversized
// batch 413, anything else 500.
func (s *Server) fail(w http.ResponseWriter, err error) {
	var flank *guide.FlankTooShortError
	var length *score.LengthMismatchError
	var bad *badRequestError
	switch {
	case errors.Is(err, design.ErrBatchTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, err)
	case errors.Is(err, sequence.ErrInvalidSequence),
		errors.Is(err, sequence.ErrSequenceTooShort),
		errors.Is(err, nuclease.ErrUnknownSystem),
		errors.As(err, &flank),
		errors.As(err, &length),
		errors.As(err, &bad):
		writeError(w, http.StatusBadRequest, err)
	default:
		s.log.Error("request failed", "err", err)
		writeError(w, http.StatusInternalServerError, err)
	}
}

type badRequestError struct{ err error }

func (e *badRequestError) Error() string { return e.err.Error() }
func (e *badRequestError) Unwrap() error { return e.err }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = jsonutil.EncodePretty(w, v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, api.ErrorV1{Error: err.Error()})
}
