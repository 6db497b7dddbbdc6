package scheduler_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/libris/library-service/library/internal/model"
	"github.com/libris/library-service/library/internal/scheduler"
	"github.com/libris/library-service/library/internal/scheduler/mocks"
	"github.com/libris/library-service/library/internal/service"
	"github.com/libris/library-service/pkg/kafka"
)

func fixedNow() time.Time {
	return time.Date(2024, time.May, 10, 10, 0, 0, 0, time.UTC)
}

func TestScheduler_Sweep_NoDueLoans(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	defer c.Finish()
	loans := mocks.NewMockLoanStore(c)
	m := mocks.NewMockMailer(c)

	// three days out from the fixed clock, time of day dropped
	loans.EXPECT().
		FindLoansByExpectedReturn(gomock.Any(), model.NewDate(2024, time.May, 13)).
		Return(nil, nil)

	s := scheduler.New(loans, m, nil, zap.NewNop(), scheduler.WithNow(fixedNow))
	require.NoError(t, s.Sweep(context.Background()))
}

func TestScheduler_Sweep_StoreErrorAborts(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	defer c.Finish()
	loans := mocks.NewMockLoanStore(c)
	m := mocks.NewMockMailer(c)

	dbErr := errors.New("connection refused")
	loans.EXPECT().
		FindLoansByExpectedReturn(gomock.Any(), model.NewDate(2024, time.May, 13)).
		Return(nil, dbErr)

	s := scheduler.New(loans, m, nil, zap.NewNop(), scheduler.WithNow(fixedNow))
	err := s.Sweep(context.Background())
	require.Error(t, err)
	require.True(t, errors.Is(err, dbErr))
}

func TestScheduler_Sweep(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	defer c.Finish()
	loans := mocks.NewMockLoanStore(c)
	m := mocks.NewMockMailer(c)
	pub := mocks.NewMockPublisher(c)

	due := model.NewDate(2024, time.May, 13)
	ok := model.DueLoan{
		LoanRecord: model.LoanRecord{
			ID:             1,
			LoanUID:        "5f6b2a50-7c3f-4f29-8c2a-6a2cf1b1e001",
			BookID:         11,
			ExpectedReturn: due,
		},
		BookTitle:       "The Go Programming Language",
		ReaderFirstName: "Ann",
		ReaderEmail:     "ann@example.com",
	}
	down := model.DueLoan{
		LoanRecord: model.LoanRecord{
			ID:             2,
			LoanUID:        "5f6b2a50-7c3f-4f29-8c2a-6a2cf1b1e002",
			BookID:         12,
			ExpectedReturn: due,
		},
		BookTitle:       "SICP",
		ReaderFirstName: "Bob",
		ReaderEmail:     "bob@example.com",
	}

	loans.EXPECT().
		FindLoansByExpectedReturn(gomock.Any(), due).
		Return([]model.DueLoan{ok, down}, nil)
	loans.EXPECT().StatusID(gomock.Any(), model.NotificationSuccess).Return(int64(2), nil)
	loans.EXPECT().StatusID(gomock.Any(), model.NotificationFailed).Return(int64(3), nil)

	m.EXPECT().
		Send(gomock.Any(), "ann@example.com", "Book return reminder",
			`Dear Ann, the return period for "The Go Programming Language" ends on 2024-05-13. Please extend the loan or return the book.`).
		Return(nil)
	m.EXPECT().
		Send(gomock.Any(), "bob@example.com", "Book return reminder",
			`Dear Bob, the return period for "SICP" ends on 2024-05-13. Please extend the loan or return the book.`).
		Return(errors.New("smtp timeout"))

	// the failed send marks that loan only, the batch completes
	loans.EXPECT().SetNotificationStatus(gomock.Any(), int64(1), int64(2)).Return(nil)
	loans.EXPECT().SetNotificationStatus(gomock.Any(), int64(2), int64(3)).Return(nil)

	pub.EXPECT().Publish(kafka.NotificationTopic, model.NotificationEvent{
		LoanUID: ok.LoanUID,
		Email:   "ann@example.com",
		DueDate: due,
		Status:  model.NotificationSuccess,
	}).Return(nil)
	pub.EXPECT().Publish(kafka.NotificationTopic, model.NotificationEvent{
		LoanUID: down.LoanUID,
		Email:   "bob@example.com",
		DueDate: due,
		Status:  model.NotificationFailed,
	}).Return(nil)

	s := scheduler.New(loans, m, pub, zap.NewNop(), scheduler.WithNow(fixedNow))
	require.NoError(t, s.Sweep(context.Background()))
}

// Full reminder walk-through: a loan borrowed today comes due in four
// weeks, and 25 days in the reminder fires for it with the right
// patron, book and date, leaving the record SUCCESS.
func TestLoanReminderScenario(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	defer c.Finish()
	loans := mocks.NewMockLoanStore(c)
	m := mocks.NewMockMailer(c)

	borrow := model.NewDate(2024, time.May, 1)
	due := service.DueDate(borrow)
	require.Equal(t, model.NewDate(2024, time.May, 29), due)

	day25 := func() time.Time {
		return time.Date(2024, time.May, 26, 10, 0, 0, 0, time.UTC)
	}

	loans.EXPECT().
		FindLoansByExpectedReturn(gomock.Any(), due).
		Return([]model.DueLoan{{
			LoanRecord: model.LoanRecord{
				ID:             41,
				LoanUID:        "5f6b2a50-7c3f-4f29-8c2a-6a2cf1b1e041",
				BookID:         8,
				BorrowDate:     borrow,
				ExpectedReturn: due,
				Status:         model.NotificationPending,
			},
			BookTitle:       "Anna Karenina",
			ReaderFirstName: "Lev",
			ReaderEmail:     "lev@example.com",
		}}, nil)
	loans.EXPECT().StatusID(gomock.Any(), model.NotificationSuccess).Return(int64(2), nil)
	loans.EXPECT().StatusID(gomock.Any(), model.NotificationFailed).Return(int64(3), nil)
	m.EXPECT().
		Send(gomock.Any(), "lev@example.com", "Book return reminder",
			`Dear Lev, the return period for "Anna Karenina" ends on 2024-05-29. Please extend the loan or return the book.`).
		Return(nil)
	loans.EXPECT().SetNotificationStatus(gomock.Any(), int64(41), int64(2)).Return(nil)

	s := scheduler.New(loans, m, nil, zap.NewNop(), scheduler.WithNow(day25))
	require.NoError(t, s.Sweep(context.Background()))
}

func TestScheduler_Sweep_StatusUpdateFailureSkipsEvent(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	defer c.Finish()
	loans := mocks.NewMockLoanStore(c)
	m := mocks.NewMockMailer(c)
	pub := mocks.NewMockPublisher(c)

	due := model.NewDate(2024, time.May, 13)
	loan := model.DueLoan{
		LoanRecord: model.LoanRecord{
			ID:             7,
			LoanUID:        "5f6b2a50-7c3f-4f29-8c2a-6a2cf1b1e007",
			BookID:         70,
			ExpectedReturn: due,
		},
		BookTitle:       "Dune",
		ReaderFirstName: "Cal",
		ReaderEmail:     "cal@example.com",
	}

	loans.EXPECT().FindLoansByExpectedReturn(gomock.Any(), due).Return([]model.DueLoan{loan}, nil)
	loans.EXPECT().StatusID(gomock.Any(), model.NotificationSuccess).Return(int64(2), nil)
	loans.EXPECT().StatusID(gomock.Any(), model.NotificationFailed).Return(int64(3), nil)
	m.EXPECT().Send(gomock.Any(), "cal@example.com", gomock.Any(), gomock.Any()).Return(nil)
	loans.EXPECT().
		SetNotificationStatus(gomock.Any(), int64(7), int64(2)).
		Return(errors.New("row lock"))
	// no Publish expected: the outcome was not recorded

	s := scheduler.New(loans, m, pub, zap.NewNop(), scheduler.WithNow(fixedNow))
	require.NoError(t, s.Sweep(context.Background()))
}
