package notifier

import (
	"context"

	"go.uber.org/zap"
)

// logNotifier stands in when no SMTP relay is configured. It records the
// confirmation so local environments still show the outbound intent.
type logNotifier struct {
	log *zap.Logger
}

func NewLog(log *zap.Logger) Notifier {
	return &logNotifier{log: log.Named("notifier.log")}
}

func (n *logNotifier) SendBookingConfirmation(_ context.Context, c BookingConfirmation) error {
	n.log.Info("booking confirmation (not delivered, smtp disabled)",
		zap.String("reservation_id", c.ReservationID.String()),
		zap.String("guest_email", c.GuestEmail),
		zap.String("rooms", c.RoomSummary),
		zap.String("total", c.Total.StringFixed(2)),
	)
	return nil
}
