package notification

import (
	"context"

	"go.uber.org/zap"

	"fitbook/models"
)

// Service is the seam for the external notification collaborator. The
// booking core emits events; delivery content and transport live elsewhere.
type Service interface {
	BookingConfirmed(ctx context.Context, booking *models.Booking, session *models.Session) error
	BookingCancelled(ctx context.Context, booking *models.Booking) error
	RequestRejected(ctx context.Context, req *models.BookingRequest) error
	RequestsExpired(ctx context.Context, count int64) error
}

// LogService is the default Service: it records events in the log stream.
type LogService struct {
	Logger *zap.Logger
}

func (s *LogService) BookingConfirmed(ctx context.Context, booking *models.Booking, session *models.Session) error {
	s.Logger.Info("event: booking confirmed",
		zap.String("bookingId", booking.ID),
		zap.String("sessionId", session.ID),
		zap.String("clientId", booking.ClientID),
		zap.String("trainerId", booking.TrainerID),
	)
	return nil
}

func (s *LogService) BookingCancelled(ctx context.Context, booking *models.Booking) error {
	s.Logger.Info("event: booking cancelled", zap.String("bookingId", booking.ID))
	return nil
}

func (s *LogService) RequestRejected(ctx context.Context, req *models.BookingRequest) error {
	s.Logger.Info("event: request rejected",
		zap.String("requestId", req.ID),
		zap.String("reason", req.RejectReason),
	)
	return nil
}

func (s *LogService) RequestsExpired(ctx context.Context, count int64) error {
	s.Logger.Info("event: requests expired", zap.Int64("count", count))
	return nil
}
