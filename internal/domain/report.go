package domain

import "time"

// AnalysisParams are the caller-supplied knobs for one analysis run. They are
// echoed back in the Report so consumers can tell which parameters produced
// which results.
type AnalysisParams struct {
	MinVolume   int64   `json:"min_volume"`
	MinSpread   float64 `json:"min_spread"`
	Limit       int     `json:"limit"`
	Offset      int     `json:"offset"`
	AnalysisCap int     `json:"analysis_cap"`
}

// DefaultAnalysisParams returns the standard parameters used when a request
// leaves a knob unset.
func DefaultAnalysisParams() AnalysisParams {
	return AnalysisParams{
		MinVolume:   DefaultMinVolume,
		MinSpread:   DefaultMinSpreadPercentage,
		Limit:       20,
		Offset:      0,
		AnalysisCap: 100,
	}
}

// Normalize fills unset (zero or negative) fields with their defaults.
// Offset is clamped to zero rather than defaulted, since zero is meaningful.
func (p AnalysisParams) Normalize() AnalysisParams {
	d := DefaultAnalysisParams()
	if p.MinVolume <= 0 {
		p.MinVolume = d.MinVolume
	}
	if p.MinSpread <= 0 {
		p.MinSpread = d.MinSpread
	}
	if p.Limit <= 0 {
		p.Limit = d.Limit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.AnalysisCap <= 0 {
		p.AnalysisCap = d.AnalysisCap
	}
	return p
}

// Report is the aggregate result of one region analysis run. It exclusively
// owns its opportunity slice; accessors only ever return copies or
// sub-slices for reading.
type Report struct {
	RunID              string         `json:"run_id"`
	RegionID           int64          `json:"region_id"`
	RegionName         string         `json:"region_name"`
	Opportunities      []Opportunity  `json:"opportunities"`
	TotalItemsAnalyzed int            `json:"total_items_analyzed"`
	TotalOpportunities int            `json:"total_opportunities"`
	AnalyzedAt         time.Time      `json:"analyzed_at"`
	Params             AnalysisParams `json:"parameters"`
}

// TopOpportunity returns the best-ranked opportunity, if any.
func (r Report) TopOpportunity() (Opportunity, bool) {
	if len(r.Opportunities) == 0 {
		return Opportunity{}, false
	}
	return r.Opportunities[0], true
}

// HighConfidence returns the subset of opportunities at or above the
// high-confidence threshold, preserving rank order.
func (r Report) HighConfidence() []Opportunity {
	var out []Opportunity
	for _, o := range r.Opportunities {
		if o.IsHighConfidence() {
			out = append(out, o)
		}
	}
	return out
}

// AboveSpread returns the subset of opportunities whose percentage spread is
// at least minSpread, preserving rank order.
func (r Report) AboveSpread(minSpread float64) []Opportunity {
	var out []Opportunity
	for _, o := range r.Opportunities {
		if o.SpreadPercentage >= minSpread {
			out = append(out, o)
		}
	}
	return out
}
