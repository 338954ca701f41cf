package model

// ReportRecord is one earnings report as returned by the upstream feed.
// Pointer fields are nullable in the feed and render as "N/A" downstream.
type ReportRecord struct {
	EpsDate            string   `json:"epsDate"`
	Ticker             string   `json:"ticker"`
	Name               string   `json:"name"`
	Summary            string   `json:"summary"`
	Subject            string   `json:"subject"`
	Estimate           *float64 `json:"estimate"`
	Whisper            *float64 `json:"whisper"`
	Eps                *float64 `json:"eps"`
	Revenue            *float64 `json:"revenue"`
	RevenueEstimate    *float64 `json:"revenueEstimate"`
	EarningsSurprise   *float64 `json:"earningsSurprise"`
	RevenueSurprise    *float64 `json:"revenueSurprise"`
	PrevEarningsGrowth *float64 `json:"prevEarningsGrowth"`
	PrevRevenueGrowth  *float64 `json:"prevRevenueGrowth"`
	EpsGrade           string   `json:"epsGrade"`
	RevGrade           string   `json:"revGrade"`
	FileName           string   `json:"fileName"`
}

// Key returns the composite identity of a report. Two fetches of the same
// report always agree on this pair even if other fields drift.
func (r *ReportRecord) Key() ReportKey {
	return ReportKey{EpsDate: r.EpsDate, Ticker: r.Ticker}
}

// ReportKey identifies a report across runs.
type ReportKey struct {
	EpsDate string
	Ticker  string
}
