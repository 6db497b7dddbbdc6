package service

import (
	"context"
	"crypto/rand"
	"math/big"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/libris/library-service/library/internal/errs"
	"github.com/libris/library-service/library/internal/model"
)

// loanPeriodDays is the fixed four-week loan period; it is not
// configurable per loan.
const loanPeriodDays = 28

// DueDate computes the expected-return date for a loan taken out on
// borrow. The result depends only on the calendar day.
func DueDate(borrow model.Date) model.Date {
	return borrow.AddDays(loanPeriodDays)
}

// CreateLoan opens a loan record: borrow date defaults to today, due
// date is computed once here, notification state starts at PENDING.
func (s *Service) CreateLoan(ctx context.Context, req model.CreateLoanRequest) (model.LoanRecord, error) {
	card, err := s.repo.GetCardByNumber(ctx, req.CardNumber)
	if err != nil {
		return model.LoanRecord{}, err
	}

	borrow := model.Today()
	if req.BorrowDate != nil && !req.BorrowDate.IsZero() {
		borrow = *req.BorrowDate
	}

	rec := model.LoanRecord{
		LoanUID:        uuid.NewString(),
		BookID:         req.BookID,
		CardID:         card.ID,
		BorrowDate:     borrow,
		ExpectedReturn: DueDate(borrow),
		Status:         model.NotificationPending,
	}
	return s.repo.CreateLoan(ctx, rec)
}

func (s *Service) ListLoans(ctx context.Context, cardID int64) ([]model.LoanRecord, error) {
	return s.repo.ListLoans(ctx, cardID)
}

func (s *Service) GetLoan(ctx context.Context, id int64) (model.LoanRecord, error) {
	return s.repo.GetLoan(ctx, id)
}

// ReturnLoan records the physical return; the notification state is
// left alone.
func (s *Service) ReturnLoan(ctx context.Context, id int64, req model.ReturnLoanRequest) (model.LoanRecord, error) {
	date := model.Today()
	if req.ReturnDate != nil && !req.ReturnDate.IsZero() {
		date = *req.ReturnDate
	}
	return s.repo.SetActualReturn(ctx, id, date)
}

func (s *Service) UpdateLoan(ctx context.Context, id int64, req model.UpdateLoanRequest) (model.LoanRecord, error) {
	return s.repo.UpdateLoan(ctx, id, req)
}

func (s *Service) DeleteLoan(ctx context.Context, id int64) error {
	return s.repo.DeleteLoan(ctx, id)
}

// CreateReader completes a reader profile and issues the library
// card. Card numbers are 13 random digits; on the rare collision the
// insert is retried with a fresh number.
func (s *Service) CreateReader(ctx context.Context, req model.CreateReaderRequest) (model.ReaderView, error) {
	reader := model.Reader{
		UserID:    req.UserID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Passport:  req.Passport,
		Phone:     req.Phone,
	}

	const attempts = 5
	for i := 0; i < attempts; i++ {
		number, err := newCardNumber()
		if err != nil {
			return model.ReaderView{}, err
		}
		view, err := s.repo.CreateReader(ctx, reader, number)
		if err != nil {
			if errors.Is(err, errs.ErrConflict) && i < attempts-1 {
				s.log.Warn("card number collision, retrying", zap.String("number", number))
				continue
			}
			return model.ReaderView{}, err
		}
		return view, nil
	}
	return model.ReaderView{}, errors.Wrap(errs.ErrConflict, "card number")
}

const cardNumberLen = 13

func newCardNumber() (string, error) {
	var b strings.Builder
	b.Grow(cardNumberLen)
	for i := 0; i < cardNumberLen; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", errors.Wrap(err, "card number")
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}
