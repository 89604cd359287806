package services

import (
	"context"
	"sort"
	"time"

	timeslotRepo "fitbook/database/repository/timeslot"
	"fitbook/models"
)

// AvailabilityService answers read-only slot queries. Results are advisory:
// only the reservation transaction decides who actually gets a slot.
type AvailabilityService interface {
	// ListAvailableSlots returns the bookable slots for a trainer on a
	// date. When durationMinutes spans multiple slots, only slots that
	// anchor an unbroken run long enough for the session are returned.
	ListAvailableSlots(ctx context.Context, trainerID, date string, durationMinutes int) ([]models.TimeSlot, error)
}

type DefaultAvailabilityService struct {
	Slots       timeslotRepo.Repository
	Granularity int
}

func (s *DefaultAvailabilityService) ListAvailableSlots(ctx context.Context, trainerID, date string, durationMinutes int) ([]models.TimeSlot, error) {
	now := time.Now()
	slots, err := s.Slots.GetBookable(ctx, trainerID, []string{date}, now)
	if err != nil {
		return nil, err
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].Start < slots[j].Start })

	if durationMinutes <= s.Granularity {
		return slots, nil
	}

	need := (durationMinutes + s.Granularity - 1) / s.Granularity
	var anchors []models.TimeSlot
	for i := range slots {
		if i+need > len(slots) {
			break
		}
		run := true
		for j := 1; j < need; j++ {
			if slots[i+j].Start != slots[i+j-1].End {
				run = false
				break
			}
		}
		if run {
			anchors = append(anchors, slots[i])
		}
	}
	return anchors, nil
}
