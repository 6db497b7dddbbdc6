package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/libris/library-service/library/internal/errs"
	"github.com/libris/library-service/library/internal/model"
)

func loanSelect() sq.SelectBuilder {
	return qb.Select(
		"l.id", "l.loan_uid", "l.book_id", "l.card_id",
		"l.borrow_date", "l.expected_return", "l.actual_return",
		"ns.status_name as status",
	).
		From(loansTableName + " l").
		Join(statusesTableName + " ns on ns.id = l.status_id")
}

func (r *repository) ListLoans(ctx context.Context, cardID int64) ([]model.LoanRecord, error) {
	b := loanSelect().OrderBy("l.id")
	if cardID != 0 {
		b = b.Where(sq.Eq{"l.card_id": cardID})
	}
	q, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	var items []model.LoanRecord
	if err := r.db.SelectContext(ctx, &items, q, args...); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) GetLoan(ctx context.Context, id int64) (model.LoanRecord, error) {
	q, args, err := loanSelect().Where(sq.Eq{"l.id": id}).ToSql()
	if err != nil {
		return model.LoanRecord{}, err
	}
	var rec model.LoanRecord
	if err := r.db.GetContext(ctx, &rec, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.LoanRecord{}, errors.Wrapf(errs.ErrNotFound, "loan %d", id)
		}
		return model.LoanRecord{}, err
	}
	return rec, nil
}

func (r *repository) CreateLoan(ctx context.Context, rec model.LoanRecord) (model.LoanRecord, error) {
	statusID, err := r.StatusID(ctx, rec.Status)
	if err != nil {
		return model.LoanRecord{}, err
	}
	q, args, err := qb.Insert(loansTableName).
		Columns("loan_uid", "book_id", "card_id", "borrow_date", "expected_return", "status_id").
		Values(rec.LoanUID, rec.BookID, rec.CardID, rec.BorrowDate, rec.ExpectedReturn, statusID).
		Suffix("returning id").
		ToSql()
	if err != nil {
		return model.LoanRecord{}, err
	}
	var id int64
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&id); err != nil {
		r.log.Error("CreateLoan", zap.String("q", q), zap.Any("args", args))
		return model.LoanRecord{}, wrapFKViolation(err)
	}
	return r.GetLoan(ctx, id)
}

// UpdateLoan is the administrative patch; it writes whatever fields
// are supplied, notification state machine included.
func (r *repository) UpdateLoan(ctx context.Context, id int64, req model.UpdateLoanRequest) (model.LoanRecord, error) {
	upd := qb.Update(loansTableName).Where(sq.Eq{"id": id}).Suffix("returning id")
	touched := false
	if req.BorrowDate != nil {
		upd, touched = upd.Set("borrow_date", *req.BorrowDate), true
	}
	if req.ExpectedReturn != nil {
		upd, touched = upd.Set("expected_return", *req.ExpectedReturn), true
	}
	if req.ActualReturn != nil {
		upd, touched = upd.Set("actual_return", *req.ActualReturn), true
	}
	if req.Status != nil {
		statusID, err := r.StatusID(ctx, *req.Status)
		if err != nil {
			return model.LoanRecord{}, err
		}
		upd, touched = upd.Set("status_id", statusID), true
	}
	if !touched {
		return r.GetLoan(ctx, id)
	}
	q, args, err := upd.ToSql()
	if err != nil {
		return model.LoanRecord{}, err
	}
	var updated int64
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.LoanRecord{}, errors.Wrapf(errs.ErrNotFound, "loan %d", id)
		}
		return model.LoanRecord{}, err
	}
	return r.GetLoan(ctx, id)
}

// SetActualReturn records the physical return of the book. It does
// not touch the notification state.
func (r *repository) SetActualReturn(ctx context.Context, id int64, date model.Date) (model.LoanRecord, error) {
	q, args, err := qb.Update(loansTableName).
		Set("actual_return", date).
		Where(sq.Eq{"id": id}).
		Suffix("returning id").
		ToSql()
	if err != nil {
		return model.LoanRecord{}, err
	}
	var updated int64
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.LoanRecord{}, errors.Wrapf(errs.ErrNotFound, "loan %d", id)
		}
		return model.LoanRecord{}, err
	}
	return r.GetLoan(ctx, id)
}

func (r *repository) DeleteLoan(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, loansTableName, id)
}

// FindLoansByExpectedReturn is the sweep query: exact-date match, not
// a range, so a loan is eligible on exactly one day.
func (r *repository) FindLoansByExpectedReturn(ctx context.Context, date model.Date) ([]model.DueLoan, error) {
	q, args, err := qb.Select(
		"l.id", "l.loan_uid", "l.book_id", "l.card_id",
		"l.borrow_date", "l.expected_return", "l.actual_return",
		"ns.status_name as status",
		"b.title as book_title",
		"rd.first_name as reader_first_name",
		"u.email as reader_email",
	).
		From(loansTableName + " l").
		Join(statusesTableName + " ns on ns.id = l.status_id").
		Join(booksTableName + " b on b.id = l.book_id").
		Join(cardsTableName + " lc on lc.id = l.card_id").
		Join(readersTableName + " rd on rd.id = lc.reader_id").
		Join(usersTableName + " u on u.id = rd.user_id").
		Where(sq.Eq{"l.expected_return": date}).
		ToSql()
	if err != nil {
		return nil, err
	}
	var items []model.DueLoan
	if err := r.db.SelectContext(ctx, &items, q, args...); err != nil {
		return nil, err
	}
	return items, nil
}

// StatusID resolves a symbolic notification status to its seeded row.
// A missing row is a startup-data error, not a per-request condition.
func (r *repository) StatusID(ctx context.Context, status model.NotificationStatus) (int64, error) {
	q, args, err := qb.Select("id").
		From(statusesTableName).
		Where(sq.Eq{"status_name": status}).
		ToSql()
	if err != nil {
		return 0, err
	}
	var id int64
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, errors.Wrapf(errs.ErrNotFound, "notification status %q not seeded", status)
		}
		return 0, err
	}
	return id, nil
}

func (r *repository) SetNotificationStatus(ctx context.Context, loanID, statusID int64) error {
	q, args, err := qb.Update(loansTableName).
		Set("status_id", statusID).
		Where(sq.Eq{"id": loanID}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.Wrapf(errs.ErrNotFound, "loan %d", loanID)
	}
	return nil
}
