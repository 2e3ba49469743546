package model

// Report is the dashboard summary served by /api/reports.
type Report struct {
	Total  float64   `json:"total"`
	Weekly []float64 `json:"weekly"`
}

// Placeholder values shown while the account has no data yet.
var (
	PlaceholderWeekly = []float64{2.5, 1.8, 3.2, 2.1, 1.5, 2.8, 1.9}
	PlaceholderTotal  = 15.8
)

// WithDefaults fills an empty report with the placeholder series.
func (r Report) WithDefaults() Report {
	if r.Total == 0 {
		r.Total = PlaceholderTotal
	}
	if len(r.Weekly) == 0 {
		r.Weekly = PlaceholderWeekly
	}
	return r
}

// Validate checks a report decoded from the API.
func (r *Report) Validate() error {
	if !finite(r.Total) {
		return invalid("report total not a number")
	}
	for _, v := range r.Weekly {
		if !finite(v) {
			return invalid("report weekly value not a number")
		}
	}
	return nil
}
