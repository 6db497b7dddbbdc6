package repository

import (
	"context"
	"database/sql"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/libris/library-service/library/internal/errs"
	"github.com/libris/library-service/library/internal/model"
	"github.com/libris/library-service/library/internal/query"
)

// caller-visible sort field -> SQL column
var bookSortable = map[string]string{
	"id":                    "b.id",
	"title":                 "b.title",
	"authorFirstName":       "a.first_name",
	"authorSurname":         "a.surname",
	"publisherTitle":        "p.title",
	"directionOfLiterature": "b.direction",
}

var authorSortable = map[string]string{
	"id":        "id",
	"firstName": "first_name",
	"surname":   "surname",
}

func bookConditions(f model.BookFilter) []query.Condition {
	return []query.Condition{
		query.Contains{Column: "b.title", Value: f.Title},
		query.Contains{Column: "a.first_name", Value: f.AuthorFirstName},
		query.Contains{Column: "a.surname", Value: f.AuthorSurname},
		query.Contains{Column: "p.title", Value: f.PublisherTitle},
		query.Contains{Column: "b.direction", Value: f.Direction},
		query.MemberOf{
			From:   bookGenresTableName + " bg join " + genresTableName + " g on g.id = bg.genre_id",
			Link:   "bg.book_id = b.id",
			Column: "g.name",
			Values: f.Genres,
		},
	}
}

func bookSelect() sq.SelectBuilder {
	return qb.Select(
		"b.id", "b.title",
		"a.first_name as author_first_name", "a.surname as author_surname",
		"p.title as publisher_title", "b.direction",
		"string_agg(distinct g.name, ',') as genres",
	).
		From(booksTableName + " b").
		Join(authorsTableName + " a on a.id = b.author_id").
		Join(publishersTableName + " p on p.id = b.publisher_id").
		LeftJoin(bookGenresTableName + " bg on bg.book_id = b.id").
		LeftJoin(genresTableName + " g on g.id = bg.genre_id").
		GroupBy("b.id", "a.first_name", "a.surname", "p.title")
}

func (r *repository) ListBooks(ctx context.Context, f model.BookFilter, page int, sort string) (model.ListBooks, error) {
	order, err := query.ParseSort(sort, bookSortable)
	if err != nil {
		return model.ListBooks{}, err
	}
	conds := bookConditions(f)

	q, args, err := query.Apply(bookSelect(), conds...).
		OrderBy(order.String()).
		Limit(pageSize).
		Offset(offset(page)).
		ToSql()
	if err != nil {
		return model.ListBooks{}, err
	}
	r.log.Debug("ListBooks", zap.String("query", q), zap.Any("args", args))

	var items []model.BookView
	if err := r.db.SelectContext(ctx, &items, q, args...); err != nil {
		return model.ListBooks{}, err
	}
	for i := range items {
		items[i].Genres = splitGenres(items[i].GenresAgg)
	}

	total, err := r.total(ctx, query.Apply(
		qb.Select("count(*)").
			From(booksTableName+" b").
			Join(authorsTableName+" a on a.id = b.author_id").
			Join(publishersTableName+" p on p.id = b.publisher_id"),
		conds...))
	if err != nil {
		return model.ListBooks{}, err
	}

	return model.ListBooks{
		Paging: model.Paging{
			Page:          page,
			PageSize:      pageSize,
			TotalElements: total,
		},
		Items: items,
	}, nil
}

func (r *repository) GetBook(ctx context.Context, id int64) (model.BookView, error) {
	q, args, err := bookSelect().Where(sq.Eq{"b.id": id}).ToSql()
	if err != nil {
		return model.BookView{}, err
	}
	var book model.BookView
	if err := r.db.GetContext(ctx, &book, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.BookView{}, errors.Wrapf(errs.ErrNotFound, "book %d", id)
		}
		return model.BookView{}, err
	}
	book.Genres = splitGenres(book.GenresAgg)
	return book, nil
}

func (r *repository) CreateBook(ctx context.Context, req model.CreateBookRequest) (model.BookView, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.BookView{}, err
	}
	defer tx.Rollback() //nolint:errcheck

	q, args, err := qb.Insert(booksTableName).
		Columns("title", "author_id", "publisher_id", "direction").
		Values(req.Title, req.AuthorID, req.PublisherID, req.Direction).
		Suffix("returning id").
		ToSql()
	if err != nil {
		return model.BookView{}, err
	}
	var id int64
	if err := tx.QueryRowContext(ctx, q, args...).Scan(&id); err != nil {
		return model.BookView{}, wrapFKViolation(err)
	}
	if err := r.attachGenres(ctx, tx, id, req.Genres); err != nil {
		return model.BookView{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.BookView{}, err
	}
	return r.GetBook(ctx, id)
}

func (r *repository) UpdateBook(ctx context.Context, id int64, req model.UpdateBookRequest) (model.BookView, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.BookView{}, err
	}
	defer tx.Rollback() //nolint:errcheck

	upd := qb.Update(booksTableName).Where(sq.Eq{"id": id}).Suffix("returning id")
	touched := false
	if req.Title != nil {
		upd, touched = upd.Set("title", *req.Title), true
	}
	if req.AuthorID != nil {
		upd, touched = upd.Set("author_id", *req.AuthorID), true
	}
	if req.PublisherID != nil {
		upd, touched = upd.Set("publisher_id", *req.PublisherID), true
	}
	if req.Direction != nil {
		upd, touched = upd.Set("direction", *req.Direction), true
	}
	if touched {
		q, args, err := upd.ToSql()
		if err != nil {
			return model.BookView{}, err
		}
		var updated int64
		if err := tx.QueryRowContext(ctx, q, args...).Scan(&updated); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return model.BookView{}, errors.Wrapf(errs.ErrNotFound, "book %d", id)
			}
			return model.BookView{}, wrapFKViolation(err)
		}
	}
	if req.Genres != nil {
		q, args, err := qb.Delete(bookGenresTableName).Where(sq.Eq{"book_id": id}).ToSql()
		if err != nil {
			return model.BookView{}, err
		}
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return model.BookView{}, err
		}
		if err := r.attachGenres(ctx, tx, id, *req.Genres); err != nil {
			return model.BookView{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return model.BookView{}, err
	}
	return r.GetBook(ctx, id)
}

func (r *repository) DeleteBook(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, booksTableName, id)
}

// attachGenres links the book to every named genre; an unknown genre
// name is a not-found error.
func (r *repository) attachGenres(ctx context.Context, tx *sqlx.Tx, bookID int64, names []string) error {
	if len(names) == 0 {
		return nil
	}
	q, args, err := qb.Select("id", "name").
		From(genresTableName).
		Where(sq.Eq{"name": names}).
		ToSql()
	if err != nil {
		return err
	}
	var genres []model.Genre
	if err := tx.SelectContext(ctx, &genres, q, args...); err != nil {
		return err
	}
	if len(genres) != len(uniqueStrings(names)) {
		return errors.Wrap(errs.ErrNotFound, "genre")
	}

	ins := qb.Insert(bookGenresTableName).Columns("book_id", "genre_id")
	for _, g := range genres {
		ins = ins.Values(bookID, g.ID)
	}
	q, args, err = ins.ToSql()
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, q, args...)
	return err
}

func (r *repository) ListAuthors(ctx context.Context, f model.AuthorFilter, page int, sort string) (model.ListAuthors, error) {
	order, err := query.ParseSort(sort, authorSortable)
	if err != nil {
		return model.ListAuthors{}, err
	}
	conds := []query.Condition{
		query.Contains{Column: "first_name", Value: f.FirstName},
		query.Contains{Column: "surname", Value: f.Surname},
	}

	q, args, err := query.Apply(
		qb.Select("id", "first_name", "surname").From(authorsTableName),
		conds...).
		OrderBy(order.String()).
		Limit(pageSize).
		Offset(offset(page)).
		ToSql()
	if err != nil {
		return model.ListAuthors{}, err
	}

	var items []model.Author
	if err := r.db.SelectContext(ctx, &items, q, args...); err != nil {
		return model.ListAuthors{}, err
	}

	total, err := r.total(ctx, query.Apply(qb.Select("count(*)").From(authorsTableName), conds...))
	if err != nil {
		return model.ListAuthors{}, err
	}

	return model.ListAuthors{
		Paging: model.Paging{
			Page:          page,
			PageSize:      pageSize,
			TotalElements: total,
		},
		Items: items,
	}, nil
}

func (r *repository) GetAuthor(ctx context.Context, id int64) (model.Author, error) {
	var author model.Author
	if err := r.getByID(ctx, &author, authorsTableName, "id, first_name, surname", id); err != nil {
		return model.Author{}, errors.Wrapf(err, "author %d", id)
	}
	return author, nil
}

func (r *repository) CreateAuthor(ctx context.Context, req model.CreateAuthorRequest) (model.Author, error) {
	q, args, err := qb.Insert(authorsTableName).
		Columns("first_name", "surname").
		Values(req.FirstName, req.Surname).
		Suffix("returning id, first_name, surname").
		ToSql()
	if err != nil {
		return model.Author{}, err
	}
	var author model.Author
	if err := r.db.GetContext(ctx, &author, q, args...); err != nil {
		return model.Author{}, err
	}
	return author, nil
}

func (r *repository) UpdateAuthor(ctx context.Context, id int64, req model.UpdateAuthorRequest) (model.Author, error) {
	upd := qb.Update(authorsTableName).Where(sq.Eq{"id": id}).
		Suffix("returning id, first_name, surname")
	touched := false
	if req.FirstName != nil {
		upd, touched = upd.Set("first_name", *req.FirstName), true
	}
	if req.Surname != nil {
		upd, touched = upd.Set("surname", *req.Surname), true
	}
	if !touched {
		return r.GetAuthor(ctx, id)
	}
	q, args, err := upd.ToSql()
	if err != nil {
		return model.Author{}, err
	}
	var author model.Author
	if err := r.db.GetContext(ctx, &author, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Author{}, errors.Wrapf(errs.ErrNotFound, "author %d", id)
		}
		return model.Author{}, err
	}
	return author, nil
}

func (r *repository) DeleteAuthor(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, authorsTableName, id)
}

func (r *repository) ListGenres(ctx context.Context) ([]model.Genre, error) {
	q, args, err := qb.Select("id", "name").From(genresTableName).OrderBy("id").ToSql()
	if err != nil {
		return nil, err
	}
	var items []model.Genre
	if err := r.db.SelectContext(ctx, &items, q, args...); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) GetGenre(ctx context.Context, id int64) (model.Genre, error) {
	var genre model.Genre
	if err := r.getByID(ctx, &genre, genresTableName, "id, name", id); err != nil {
		return model.Genre{}, errors.Wrapf(err, "genre %d", id)
	}
	return genre, nil
}

func (r *repository) CreateGenre(ctx context.Context, req model.CreateGenreRequest) (model.Genre, error) {
	q, args, err := qb.Insert(genresTableName).
		Columns("name").
		Values(req.Name).
		Suffix("returning id, name").
		ToSql()
	if err != nil {
		return model.Genre{}, err
	}
	var genre model.Genre
	if err := r.db.GetContext(ctx, &genre, q, args...); err != nil {
		return model.Genre{}, wrapUniqueViolation(err)
	}
	return genre, nil
}

func (r *repository) DeleteGenre(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, genresTableName, id)
}

func (r *repository) ListPublishers(ctx context.Context) ([]model.Publisher, error) {
	q, args, err := qb.Select("id", "title", "city").From(publishersTableName).OrderBy("id").ToSql()
	if err != nil {
		return nil, err
	}
	var items []model.Publisher
	if err := r.db.SelectContext(ctx, &items, q, args...); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) GetPublisher(ctx context.Context, id int64) (model.Publisher, error) {
	var pub model.Publisher
	if err := r.getByID(ctx, &pub, publishersTableName, "id, title, city", id); err != nil {
		return model.Publisher{}, errors.Wrapf(err, "publisher %d", id)
	}
	return pub, nil
}

func (r *repository) CreatePublisher(ctx context.Context, req model.CreatePublisherRequest) (model.Publisher, error) {
	q, args, err := qb.Insert(publishersTableName).
		Columns("title", "city").
		Values(req.Title, req.City).
		Suffix("returning id, title, city").
		ToSql()
	if err != nil {
		return model.Publisher{}, err
	}
	var pub model.Publisher
	if err := r.db.GetContext(ctx, &pub, q, args...); err != nil {
		return model.Publisher{}, err
	}
	return pub, nil
}

func (r *repository) UpdatePublisher(ctx context.Context, id int64, req model.UpdatePublisherRequest) (model.Publisher, error) {
	upd := qb.Update(publishersTableName).Where(sq.Eq{"id": id}).
		Suffix("returning id, title, city")
	touched := false
	if req.Title != nil {
		upd, touched = upd.Set("title", *req.Title), true
	}
	if req.City != nil {
		upd, touched = upd.Set("city", *req.City), true
	}
	if !touched {
		return r.GetPublisher(ctx, id)
	}
	q, args, err := upd.ToSql()
	if err != nil {
		return model.Publisher{}, err
	}
	var pub model.Publisher
	if err := r.db.GetContext(ctx, &pub, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Publisher{}, errors.Wrapf(errs.ErrNotFound, "publisher %d", id)
		}
		return model.Publisher{}, err
	}
	return pub, nil
}

func (r *repository) DeletePublisher(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, publishersTableName, id)
}

func splitGenres(agg sql.NullString) []string {
	if !agg.Valid || agg.String == "" {
		return nil
	}
	return strings.Split(agg.String, ",")
}

func uniqueStrings(ss []string) []string {
	seen := make(map[string]struct{}, len(ss))
	out := ss[:0:0]
	for _, s := range ss {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
