package server

import (
	"grna/core/design"
	"grna/core/offtarget"
	"grna/pkg/api"
)

func (s *Server) system(name string) string {
	if name == "" {
		return s.base.System
	}
	return name
}

// designer applies per-request overrides on top of the server defaults.
func (s *Server) designer(system string, guideLen int, f *api.FiltersV1, pool string) (*design.Designer, error) {
	opts := s.base
	opts.System = s.system(system)
	if guideLen > 0 {
		opts.GuideLength = guideLen
	} else if system != "" {
		opts.GuideLength = 0
	}
	if f != nil {
		filters, err := toFilters(*f)
		if err != nil {
			return nil, &badRequestError{err}
		}
		opts.Filters = filters
	}
	if pool != "" {
		opts.PoolMode = design.PoolMode(pool)
	}
	d, err := design.New(opts)
	if err != nil {
		return nil, &badRequestError{err}
	}
	return d, nil
}

// toFilters fills unset bounds with the permissive defaults.
func toFilters(f api.FiltersV1) (design.Filters, error) {
	out := design.DefaultFilters()
	out.MinScore = f.MinScore
	out.GCMin = f.GCMin
	if f.GCMax > 0 {
		out.GCMax = f.GCMax
	}
	if f.MaxRisk != "" {
		t, err := offtarget.ParseTier(f.MaxRisk)
		if err != nil {
			return out, err
		}
		out.MaxRisk = t
	}
	out.Limit = f.Limit
	return out, nil
}
