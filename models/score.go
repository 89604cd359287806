package models

// ScoreBreakdown itemizes the components of a preference-match score.
type ScoreBreakdown struct {
	DateMatch           float64 `json:"dateMatch"`
	TimeOfDayMatch      float64 `json:"timeOfDayMatch"`
	AvoidPenalty        float64 `json:"avoidPenalty"`
	WeekendEveningBonus float64 `json:"weekendEveningBonus"`
}

// SlotCandidate is one scored, feasible slot sequence for a booking request.
type SlotCandidate struct {
	Score       float64        `json:"score"`
	Breakdown   ScoreBreakdown `json:"breakdown"`
	SlotIDs     []string       `json:"slotIds"`
	Date        string         `json:"date"`
	Start       int            `json:"start"` // minutes from midnight
	End         int            `json:"end"`
	NeedsReview bool           `json:"needsReview"` // negative total; surfaced as a manual-review hint
}
