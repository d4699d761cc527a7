package notifier

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/stayware/stayflow/internal/config"
	"go.uber.org/zap"
)

type smtpNotifier struct {
	addr string
	from string
	log  *zap.Logger

	send func(addr, from string, to []string, msg []byte) error
}

// NewSMTP delivers confirmations through the configured SMTP relay.
func NewSMTP(cfg config.SMTPConfig, log *zap.Logger) Notifier {
	return &smtpNotifier{
		addr: net.JoinHostPort(cfg.Host, cfg.Port),
		from: cfg.From,
		log:  log.Named("notifier.smtp"),
		send: func(addr, from string, to []string, msg []byte) error {
			return smtp.SendMail(addr, nil, from, to, msg)
		},
	}
}

func (n *smtpNotifier) SendBookingConfirmation(ctx context.Context, c BookingConfirmation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := buildConfirmationMessage(n.from, c)
	if err := n.send(n.addr, n.from, []string{c.GuestEmail}, msg); err != nil {
		return fmt.Errorf("send booking confirmation: %w", err)
	}

	n.log.Info("booking confirmation sent",
		zap.String("reservation_id", c.ReservationID.String()),
		zap.String("guest_email", c.GuestEmail),
	)
	return nil
}

func buildConfirmationMessage(from string, c BookingConfirmation) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", c.GuestEmail)
	fmt.Fprintf(&b, "Subject: Booking confirmed (%s)\r\n", c.ReservationID)
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n")
	fmt.Fprintf(&b, "Dear %s,\r\n\r\n", c.GuestName)
	b.WriteString("Your booking is confirmed.\r\n\r\n")
	fmt.Fprintf(&b, "Rooms: %s\r\n", c.RoomSummary)
	fmt.Fprintf(&b, "Check-in: %s\r\n", c.CheckIn.Format("2006-01-02"))
	fmt.Fprintf(&b, "Check-out: %s\r\n", c.CheckOut.Format("2006-01-02"))
	fmt.Fprintf(&b, "Total: %s\r\n\r\n", c.Total.StringFixed(2))
	b.WriteString("We look forward to your stay.\r\n")
	return []byte(b.String())
}
