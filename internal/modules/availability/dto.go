package availability

import "time"

type BookedRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type Result struct {
	IsAvailable       bool          `json:"is_available"`
	BookedRanges      []BookedRange `json:"booked_ranges"`
	AvailableUnitKeys []string      `json:"available_option_keys"`
}
