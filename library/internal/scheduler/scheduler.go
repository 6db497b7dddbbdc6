package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/libris/library-service/library/internal/model"
	"github.com/libris/library-service/pkg/breaker"
	"github.com/libris/library-service/pkg/kafka"
)

//go:generate mockgen -source=scheduler.go -destination=mocks/mock.go -package=mocks

// LoanStore is the slice of the repository the sweep needs.
type LoanStore interface {
	FindLoansByExpectedReturn(ctx context.Context, date model.Date) ([]model.DueLoan, error)
	StatusID(ctx context.Context, status model.NotificationStatus) (int64, error)
	SetNotificationStatus(ctx context.Context, loanID, statusID int64) error
}

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type Publisher interface {
	Publish(topic string, v any) error
}

const (
	// notifyHour is the fixed local wall-clock hour of the daily run.
	notifyHour = 10
	// reminderDays: only loans due in exactly this many days are
	// touched on a given run.
	reminderDays = 3
	// maxWorkers bounds concurrent mail sends.
	maxWorkers = 4
)

// Scheduler runs the daily due-date reminder sweep off the
// request-handling path.
type Scheduler struct {
	loans     LoanStore
	mailer    Mailer
	publisher Publisher
	cb        breaker.Breaker
	log       *zap.Logger
	now       func() time.Time
}

type Option func(*Scheduler)

// WithNow overrides the clock, for tests.
func WithNow(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
	}
}

func New(loans LoanStore, m Mailer, pub Publisher, log *zap.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		loans:     loans,
		mailer:    m,
		publisher: pub,
		cb:        breaker.New(20, time.Minute, 0.5, 3),
		log:       log.Named("sweep"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run blocks until ctx is cancelled, firing Sweep once a day at
// notifyHour server time.
func (s *Scheduler) Run(ctx context.Context) {
	for {
		next := s.nextRun()
		s.log.Info("next sweep scheduled", zap.Time("at", next))
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			if err := s.Sweep(ctx); err != nil {
				s.log.Error("sweep", zap.Error(err))
			}
		}
	}
}

func (s *Scheduler) nextRun() time.Time {
	now := s.now()
	next := time.Date(now.Year(), now.Month(), now.Day(), notifyHour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Sweep finds every loan due in exactly reminderDays and reminds its
// reader. A failed send marks that one loan FAILED and the batch goes
// on; only a store error aborts the run.
func (s *Scheduler) Sweep(ctx context.Context) error {
	due := model.DateOf(s.now()).AddDays(reminderDays)
	loans, err := s.loans.FindLoansByExpectedReturn(ctx, due)
	if err != nil {
		return errors.Wrap(err, "find due loans")
	}
	if len(loans) == 0 {
		s.log.Info("no loans with return date", zap.String("date", due.String()))
		return nil
	}

	successID, err := s.loans.StatusID(ctx, model.NotificationSuccess)
	if err != nil {
		return err
	}
	failedID, err := s.loans.StatusID(ctx, model.NotificationFailed)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)
	for _, loan := range loans {
		loan := loan
		g.Go(func() error {
			s.remind(gctx, loan, successID, failedID)
			return nil
		})
	}
	return g.Wait()
}

func (s *Scheduler) remind(ctx context.Context, loan model.DueLoan, successID, failedID int64) {
	subject := "Book return reminder"
	body := fmt.Sprintf(
		"Dear %s, the return period for %q ends on %s. Please extend the loan or return the book.",
		loan.ReaderFirstName, loan.BookTitle, loan.ExpectedReturn,
	)

	sendErr := s.cb.Call(func() error {
		return s.mailer.Send(ctx, loan.ReaderEmail, subject, body)
	})

	statusID, status := successID, model.NotificationSuccess
	if sendErr != nil {
		statusID, status = failedID, model.NotificationFailed
		s.log.Error("send reminder",
			zap.Int64("loan", loan.ID),
			zap.Int64("book", loan.BookID),
			zap.Error(sendErr))
	}

	if err := s.loans.SetNotificationStatus(ctx, loan.ID, statusID); err != nil {
		s.log.Error("set notification status", zap.Int64("loan", loan.ID), zap.Error(err))
		return
	}

	if s.publisher != nil {
		event := model.NotificationEvent{
			LoanUID: loan.LoanUID,
			Email:   loan.ReaderEmail,
			DueDate: loan.ExpectedReturn,
			Status:  status,
		}
		if err := s.publisher.Publish(kafka.NotificationTopic, event); err != nil {
			s.log.Warn("publish notification event", zap.String("loan", loan.LoanUID), zap.Error(err))
		}
	}
}
