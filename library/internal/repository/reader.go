package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/libris/library-service/library/internal/errs"
	"github.com/libris/library-service/library/internal/model"
	"github.com/libris/library-service/library/internal/query"
)

var readerSortable = map[string]string{
	"id":                "r.id",
	"firstName":         "r.first_name",
	"lastName":          "r.last_name",
	"phone":             "r.phone",
	"libraryCardNumber": "lc.card_number",
}

func readerConditions(f model.ReaderFilter) []query.Condition {
	return []query.Condition{
		query.Contains{Column: "r.first_name", Value: f.FirstName},
		query.Contains{Column: "r.last_name", Value: f.LastName},
		query.Contains{Column: "r.passport", Value: f.Passport},
		query.Contains{Column: "lc.card_number", Value: f.CardNumber},
		query.Contains{Column: "r.phone", Value: f.Phone},
	}
}

func readerSelect() sq.SelectBuilder {
	return qb.Select(
		"r.id", "r.user_id", "r.first_name", "r.last_name", "r.passport", "r.phone",
		"lc.card_number", "u.email",
	).
		From(readersTableName + " r").
		Join(cardsTableName + " lc on lc.reader_id = r.id").
		Join(usersTableName + " u on u.id = r.user_id")
}

func (r *repository) ListReaders(ctx context.Context, f model.ReaderFilter, page int, sort string) (model.ListReaders, error) {
	order, err := query.ParseSort(sort, readerSortable)
	if err != nil {
		return model.ListReaders{}, err
	}
	conds := readerConditions(f)

	q, args, err := query.Apply(readerSelect(), conds...).
		OrderBy(order.String()).
		Limit(pageSize).
		Offset(offset(page)).
		ToSql()
	if err != nil {
		return model.ListReaders{}, err
	}

	var items []model.ReaderView
	if err := r.db.SelectContext(ctx, &items, q, args...); err != nil {
		return model.ListReaders{}, err
	}

	total, err := r.total(ctx, query.Apply(
		qb.Select("count(*)").
			From(readersTableName+" r").
			Join(cardsTableName+" lc on lc.reader_id = r.id").
			Join(usersTableName+" u on u.id = r.user_id"),
		conds...))
	if err != nil {
		return model.ListReaders{}, err
	}

	return model.ListReaders{
		Paging: model.Paging{
			Page:          page,
			PageSize:      pageSize,
			TotalElements: total,
		},
		Items: items,
	}, nil
}

func (r *repository) GetReader(ctx context.Context, id int64) (model.ReaderView, error) {
	q, args, err := readerSelect().Where(sq.Eq{"r.id": id}).ToSql()
	if err != nil {
		return model.ReaderView{}, err
	}
	var reader model.ReaderView
	if err := r.db.GetContext(ctx, &reader, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ReaderView{}, errors.Wrapf(errs.ErrNotFound, "reader %d", id)
		}
		return model.ReaderView{}, err
	}
	return reader, nil
}

// CreateReader inserts the reader profile and issues its library card
// in one transaction. A card-number collision surfaces as ErrConflict
// so the caller can retry with a fresh number.
func (r *repository) CreateReader(ctx context.Context, reader model.Reader, cardNumber string) (model.ReaderView, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.ReaderView{}, err
	}
	defer tx.Rollback() //nolint:errcheck

	q, args, err := qb.Insert(readersTableName).
		Columns("user_id", "first_name", "last_name", "passport", "phone").
		Values(reader.UserID, reader.FirstName, reader.LastName, reader.Passport, reader.Phone).
		Suffix("returning id").
		ToSql()
	if err != nil {
		return model.ReaderView{}, err
	}
	var id int64
	if err := tx.QueryRowContext(ctx, q, args...).Scan(&id); err != nil {
		err = wrapFKViolation(err)
		return model.ReaderView{}, wrapUniqueViolation(err)
	}

	q, args, err = qb.Insert(cardsTableName).
		Columns("reader_id", "card_number", "created_at").
		Values(id, cardNumber, model.Today()).
		ToSql()
	if err != nil {
		return model.ReaderView{}, err
	}
	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		return model.ReaderView{}, wrapUniqueViolation(err)
	}

	if err := tx.Commit(); err != nil {
		return model.ReaderView{}, err
	}
	return r.GetReader(ctx, id)
}

func (r *repository) UpdateReader(ctx context.Context, id int64, req model.UpdateReaderRequest) (model.ReaderView, error) {
	upd := qb.Update(readersTableName).Where(sq.Eq{"id": id}).Suffix("returning id")
	touched := false
	if req.FirstName != nil {
		upd, touched = upd.Set("first_name", *req.FirstName), true
	}
	if req.LastName != nil {
		upd, touched = upd.Set("last_name", *req.LastName), true
	}
	if req.Passport != nil {
		upd, touched = upd.Set("passport", *req.Passport), true
	}
	if req.Phone != nil {
		upd, touched = upd.Set("phone", *req.Phone), true
	}
	if !touched {
		return r.GetReader(ctx, id)
	}
	q, args, err := upd.ToSql()
	if err != nil {
		return model.ReaderView{}, err
	}
	var updated int64
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ReaderView{}, errors.Wrapf(errs.ErrNotFound, "reader %d", id)
		}
		return model.ReaderView{}, err
	}
	return r.GetReader(ctx, id)
}

func (r *repository) DeleteReader(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, readersTableName, id)
}

const cardColumns = "id, reader_id, card_number, created_at"

func (r *repository) ListCards(ctx context.Context) ([]model.LibraryCard, error) {
	q, args, err := qb.Select(cardColumns).From(cardsTableName).OrderBy("id").ToSql()
	if err != nil {
		return nil, err
	}
	var items []model.LibraryCard
	if err := r.db.SelectContext(ctx, &items, q, args...); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) GetCard(ctx context.Context, id int64) (model.LibraryCard, error) {
	var card model.LibraryCard
	if err := r.getByID(ctx, &card, cardsTableName, cardColumns, id); err != nil {
		return model.LibraryCard{}, errors.Wrapf(err, "library card %d", id)
	}
	return card, nil
}

func (r *repository) GetCardByNumber(ctx context.Context, cardNumber string) (model.LibraryCard, error) {
	q, args, err := qb.Select(cardColumns).
		From(cardsTableName).
		Where(sq.Eq{"card_number": cardNumber}).
		ToSql()
	if err != nil {
		return model.LibraryCard{}, err
	}
	var card model.LibraryCard
	if err := r.db.GetContext(ctx, &card, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.LibraryCard{}, errors.Wrapf(errs.ErrNotFound, "library card %s", cardNumber)
		}
		return model.LibraryCard{}, err
	}
	return card, nil
}

func (r *repository) GetCardByReader(ctx context.Context, readerID int64) (model.LibraryCard, error) {
	q, args, err := qb.Select(cardColumns).
		From(cardsTableName).
		Where(sq.Eq{"reader_id": readerID}).
		ToSql()
	if err != nil {
		return model.LibraryCard{}, err
	}
	var card model.LibraryCard
	if err := r.db.GetContext(ctx, &card, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.LibraryCard{}, errors.Wrapf(errs.ErrNotFound, "library card of reader %d", readerID)
		}
		return model.LibraryCard{}, err
	}
	return card, nil
}

func (r *repository) DeleteCard(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, cardsTableName, id)
}

const userColumns = "id, email, password_hash, role"

func (r *repository) CreateUser(ctx context.Context, email, passwordHash, role string) (model.User, error) {
	q, args, err := qb.Insert(usersTableName).
		Columns("email", "password_hash", "role").
		Values(email, passwordHash, role).
		Suffix("returning " + userColumns).
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	var user model.User
	if err := r.db.GetContext(ctx, &user, q, args...); err != nil {
		return model.User{}, wrapUniqueViolation(err)
	}
	return user, nil
}

func (r *repository) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	q, args, err := qb.Select(userColumns).
		From(usersTableName).
		Where(sq.Eq{"email": email}).
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	var user model.User
	if err := r.db.GetContext(ctx, &user, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, errors.Wrapf(errs.ErrNotFound, "user %s", email)
		}
		return model.User{}, err
	}
	return user, nil
}
