package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	timeslotRepo "fitbook/database/repository/timeslot"
	trainerRepo "fitbook/database/repository/trainer"
	"fitbook/models"
	"fitbook/utils"
)

// SlotService manages a trainer's slot inventory.
type SlotService interface {
	// BulkCreate expands a daily template across a date range and inserts
	// the resulting slots. Dates that already carry slots are skipped so
	// repeated setup calls cannot duplicate inventory.
	BulkCreate(ctx context.Context, trainerID string, input models.BulkCreateSlotsRequest) ([]string, error)
}

type DefaultSlotService struct {
	Slots       timeslotRepo.Repository
	Trainers    trainerRepo.Repository
	Granularity int
	Logger      *zap.Logger
}

func (s *DefaultSlotService) BulkCreate(ctx context.Context, trainerID string, input models.BulkCreateSlotsRequest) ([]string, error) {
	if _, err := s.Trainers.GetByID(ctx, trainerID); err != nil {
		return nil, fmt.Errorf("trainer %s not found: %w", trainerID, err)
	}

	tpl := input.Template
	if tpl.Duration == 0 {
		tpl.Duration = s.Granularity
	}
	if tpl.Duration <= 0 || tpl.DayStart < 0 || tpl.DayEnd > 24*60 || tpl.DayStart+tpl.Duration > tpl.DayEnd {
		return nil, fmt.Errorf("slot template does not fit inside its day window")
	}

	start, err := utils.ParseDate(input.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := utils.ParseDate(input.EndDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("endDate %s precedes startDate %s", input.EndDate, input.StartDate)
	}

	now := time.Now()
	var batch []models.TimeSlot
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		date := day.Format(utils.DateLayout)

		existing, err := s.Slots.GetByTrainerAndDate(ctx, trainerID, date)
		if err != nil {
			return nil, err
		}
		if len(existing) > 0 {
			s.Logger.Info("skipping date with existing slots",
				zap.String("trainerId", trainerID),
				zap.String("date", date),
			)
			continue
		}

		for at := tpl.DayStart; at+tpl.Duration <= tpl.DayEnd; at += tpl.Duration {
			batch = append(batch, models.TimeSlot{
				ID:        uuid.New().String(),
				TrainerID: trainerID,
				Date:      date,
				Start:     at,
				End:       at + tpl.Duration,
				Duration:  tpl.Duration,
				Available: true,
				CreatedAt: now,
			})
		}
	}

	if len(batch) == 0 {
		return nil, nil
	}
	return s.Slots.CreateMany(ctx, batch)
}
