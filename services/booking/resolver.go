package booking

import (
	"context"
	"sort"
	"time"

	timeslotRepo "fitbook/database/repository/timeslot"
	"fitbook/models"
	"fitbook/utils"
)

// maxCandidates caps how many scored sequences are ever enumerated per
// request before the caller-supplied limit is applied.
const maxCandidates = 50

// maxLookaheadDays bounds the date range a preference request may scan.
const maxLookaheadDays = 60

// Resolver turns a desired start and duration into the ordered run of
// consecutive slots required, and enumerates ranked candidates for
// preference-based requests. It is read-only over slot state; slots can
// become unavailable between resolution and the coordinator's commit, which
// is why the commit phase re-checks everything.
type Resolver struct {
	Slots       timeslotRepo.Repository
	Granularity int // slot granularity in minutes
}

// RequiredSlotCount returns how many consecutive slots a duration needs.
func (r *Resolver) RequiredSlotCount(durationMinutes int) int {
	return (durationMinutes + r.Granularity - 1) / r.Granularity
}

// ResolveDirect finds the run of consecutive free slots covering
// durationMinutes at or after desiredStart on the given date. Consecutive
// means each slot starts exactly where the previous one ends.
func (r *Resolver) ResolveDirect(ctx context.Context, trainerID, date string, desiredStart, durationMinutes int, now time.Time) ([]models.TimeSlot, error) {
	count := r.RequiredSlotCount(durationMinutes)

	slots, err := r.Slots.GetBookable(ctx, trainerID, []string{date}, now)
	if err != nil {
		return nil, err
	}

	for i := range slots {
		if slots[i].Start < desiredStart {
			continue
		}
		if run, ok := consecutiveRunAt(slots, i, count); ok {
			return run, nil
		}
	}
	return nil, InfeasibleDurationError{TrainerID: trainerID, DurationMinutes: durationMinutes}
}

// EnumerateCandidates lists every feasible slot sequence across the
// preferred date range, scores each as a whole, and returns them sorted by
// score descending with ties broken by earliest start, truncated to
// maxResults.
func (r *Resolver) EnumerateCandidates(ctx context.Context, trainerID string, prefs models.SchedulePreferences, durationMinutes, maxResults int, now time.Time) ([]models.SlotCandidate, error) {
	count := r.RequiredSlotCount(durationMinutes)

	dates, err := datesInRange(prefs.StartDate, prefs.EndDate)
	if err != nil {
		return nil, err
	}

	slots, err := r.Slots.GetBookable(ctx, trainerID, dates, now)
	if err != nil {
		return nil, err
	}

	grouped := groupByDate(slots)
	var candidates []models.SlotCandidate
	for _, date := range dates {
		daySlots := grouped[date]
		if len(candidates) >= maxCandidates {
			break
		}
		for i := range daySlots {
			run, ok := consecutiveRunAt(daySlots, i, count)
			if !ok {
				continue
			}
			first, last := run[0], run[len(run)-1]
			total, breakdown, err := ScoreCandidate(prefs, first.Date, first.Start, last.End)
			if err != nil {
				return nil, err
			}
			candidates = append(candidates, models.SlotCandidate{
				Score:       total,
				Breakdown:   breakdown,
				SlotIDs:     slotIDs(run),
				Date:        first.Date,
				Start:       first.Start,
				End:         last.End,
				NeedsReview: total < 0,
			})
			if len(candidates) >= maxCandidates {
				break
			}
		}
	}
	if len(candidates) == 0 {
		return nil, InfeasibleDurationError{TrainerID: trainerID, DurationMinutes: durationMinutes}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		if candidates[i].Date != candidates[j].Date {
			return candidates[i].Date < candidates[j].Date
		}
		return candidates[i].Start < candidates[j].Start
	})

	if maxResults > 0 && len(candidates) > maxResults {
		candidates = candidates[:maxResults]
	}
	return candidates, nil
}

// consecutiveRunAt extracts count slots starting at index i where each slot
// begins exactly when the previous one ends, all on the same date.
func consecutiveRunAt(slots []models.TimeSlot, i, count int) ([]models.TimeSlot, bool) {
	if i+count > len(slots) {
		return nil, false
	}
	run := slots[i : i+count]
	for j := 1; j < len(run); j++ {
		if run[j].Date != run[0].Date || run[j].Start != run[j-1].End {
			return nil, false
		}
	}
	return run, true
}

func groupByDate(slots []models.TimeSlot) map[string][]models.TimeSlot {
	grouped := make(map[string][]models.TimeSlot)
	for _, s := range slots {
		grouped[s.Date] = append(grouped[s.Date], s)
	}
	for _, daySlots := range grouped {
		sort.Slice(daySlots, func(i, j int) bool { return daySlots[i].Start < daySlots[j].Start })
	}
	return grouped
}

func slotIDs(slots []models.TimeSlot) []string {
	ids := make([]string, len(slots))
	for i, s := range slots {
		ids[i] = s.ID
	}
	return ids
}

func datesInRange(startDate, endDate string) ([]string, error) {
	from, err := utils.ParseDate(startDate)
	if err != nil {
		return nil, err
	}
	days, err := utils.DaysBetween(startDate, endDate)
	if err != nil {
		return nil, err
	}
	if days < 0 {
		days = 0
	}
	if days > maxLookaheadDays {
		days = maxLookaheadDays
	}
	dates := make([]string, 0, days+1)
	for d := 0; d <= days; d++ {
		dates = append(dates, from.AddDate(0, 0, d).Format(utils.DateLayout))
	}
	return dates, nil
}
