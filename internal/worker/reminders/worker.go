package reminders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/caramelohq/grooming-platform/internal/notify"
	"github.com/caramelohq/grooming-platform/pkg/logging"
)

type reminderStore interface {
	FetchDue(ctx context.Context, now time.Time, window time.Duration, limit int) ([]Reminder, error)
	MarkSent(ctx context.Context, appointmentID uuid.UUID) error
}

// Worker polls for appointments inside the reminder window and emails the
// client once per appointment.
type Worker struct {
	store     reminderStore
	sender    notify.Sender
	logger    *logging.Logger
	window    time.Duration
	interval  time.Duration
	batchSize int
}

func NewWorker(store reminderStore, sender notify.Sender, logger *logging.Logger) *Worker {
	if store == nil {
		panic("reminders: store required")
	}
	if sender == nil {
		sender = notify.NewStubSender(logger)
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Worker{
		store:     store,
		sender:    sender,
		logger:    logger,
		window:    24 * time.Hour,
		interval:  5 * time.Minute,
		batchSize: 50,
	}
}

func (w *Worker) WithWindow(d time.Duration) *Worker {
	if d > 0 {
		w.window = d
	}
	return w
}

func (w *Worker) WithInterval(d time.Duration) *Worker {
	if d > 0 {
		w.interval = d
	}
	return w
}

func (w *Worker) WithBatchSize(n int) *Worker {
	if n > 0 {
		w.batchSize = n
	}
	return w
}

func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	w.drain(ctx, time.Now())
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.drain(ctx, time.Now())
		}
	}
}

func (w *Worker) drain(ctx context.Context, now time.Time) {
	due, err := w.store.FetchDue(ctx, now, w.window, w.batchSize)
	if err != nil {
		w.logger.Error("reminder fetch failed", "error", err)
		return
	}
	for _, reminder := range due {
		if err := w.sender.Send(ctx, buildMessage(reminder)); err != nil {
			// left unstamped: retried on the next tick
			w.logger.Error("reminder send failed", "error", err, "appointment_id", reminder.AppointmentID)
			continue
		}
		if err := w.store.MarkSent(ctx, reminder.AppointmentID); err != nil {
			w.logger.Error("failed to stamp reminder", "error", err, "appointment_id", reminder.AppointmentID)
			continue
		}
		w.logger.Info("reminder sent", "appointment_id", reminder.AppointmentID, "to", reminder.ClientEmail)
	}
}

func buildMessage(r Reminder) notify.Message {
	when := r.StartTime.Format("02/01/2006 15:04")
	return notify.Message{
		To:      r.ClientEmail,
		ToName:  r.ClientName,
		Subject: fmt.Sprintf("Lembrete: %s para %s", r.ServiceName, r.PetName),
		Text: fmt.Sprintf("Ola %s! Lembrete do agendamento de %s para %s em %s. Ate logo!",
			r.ClientName, r.ServiceName, r.PetName, when),
	}
}
