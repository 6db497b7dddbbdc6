package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/libris/library-service/library/internal/errs"
	"github.com/libris/library-service/library/internal/model"
)

// Repository is the entity store. List operations run the query
// engine: resolved sort + folded filter predicate + fixed-size page.
type Repository interface {
	ListBooks(ctx context.Context, f model.BookFilter, page int, sort string) (model.ListBooks, error)
	GetBook(ctx context.Context, id int64) (model.BookView, error)
	CreateBook(ctx context.Context, req model.CreateBookRequest) (model.BookView, error)
	UpdateBook(ctx context.Context, id int64, req model.UpdateBookRequest) (model.BookView, error)
	DeleteBook(ctx context.Context, id int64) error

	ListAuthors(ctx context.Context, f model.AuthorFilter, page int, sort string) (model.ListAuthors, error)
	GetAuthor(ctx context.Context, id int64) (model.Author, error)
	CreateAuthor(ctx context.Context, req model.CreateAuthorRequest) (model.Author, error)
	UpdateAuthor(ctx context.Context, id int64, req model.UpdateAuthorRequest) (model.Author, error)
	DeleteAuthor(ctx context.Context, id int64) error

	ListGenres(ctx context.Context) ([]model.Genre, error)
	GetGenre(ctx context.Context, id int64) (model.Genre, error)
	CreateGenre(ctx context.Context, req model.CreateGenreRequest) (model.Genre, error)
	DeleteGenre(ctx context.Context, id int64) error

	ListPublishers(ctx context.Context) ([]model.Publisher, error)
	GetPublisher(ctx context.Context, id int64) (model.Publisher, error)
	CreatePublisher(ctx context.Context, req model.CreatePublisherRequest) (model.Publisher, error)
	UpdatePublisher(ctx context.Context, id int64, req model.UpdatePublisherRequest) (model.Publisher, error)
	DeletePublisher(ctx context.Context, id int64) error

	ListReaders(ctx context.Context, f model.ReaderFilter, page int, sort string) (model.ListReaders, error)
	GetReader(ctx context.Context, id int64) (model.ReaderView, error)
	CreateReader(ctx context.Context, reader model.Reader, cardNumber string) (model.ReaderView, error)
	UpdateReader(ctx context.Context, id int64, req model.UpdateReaderRequest) (model.ReaderView, error)
	DeleteReader(ctx context.Context, id int64) error

	ListCards(ctx context.Context) ([]model.LibraryCard, error)
	GetCard(ctx context.Context, id int64) (model.LibraryCard, error)
	GetCardByNumber(ctx context.Context, cardNumber string) (model.LibraryCard, error)
	GetCardByReader(ctx context.Context, readerID int64) (model.LibraryCard, error)
	DeleteCard(ctx context.Context, id int64) error

	CreateUser(ctx context.Context, email, passwordHash, role string) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)

	ListLoans(ctx context.Context, cardID int64) ([]model.LoanRecord, error)
	GetLoan(ctx context.Context, id int64) (model.LoanRecord, error)
	CreateLoan(ctx context.Context, rec model.LoanRecord) (model.LoanRecord, error)
	UpdateLoan(ctx context.Context, id int64, req model.UpdateLoanRequest) (model.LoanRecord, error)
	SetActualReturn(ctx context.Context, id int64, date model.Date) (model.LoanRecord, error)
	DeleteLoan(ctx context.Context, id int64) error

	FindLoansByExpectedReturn(ctx context.Context, date model.Date) ([]model.DueLoan, error)
	StatusID(ctx context.Context, status model.NotificationStatus) (int64, error)
	SetNotificationStatus(ctx context.Context, loanID, statusID int64) error
}

type repository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewRepository(db *sqlx.DB, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	booksTableName      = `books`
	authorsTableName    = `authors`
	genresTableName     = `genres`
	publishersTableName = `publishers`
	bookGenresTableName = `book_genres`
	readersTableName    = `readers`
	cardsTableName      = `library_cards`
	usersTableName      = `users`
	loansTableName      = `loan_records`
	statusesTableName   = `notification_statuses`
)

// pageSize is fixed, not caller-configurable.
const pageSize = 10

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func offset(page int) uint64 {
	if page < 1 {
		page = 1
	}
	return uint64((page - 1) * pageSize)
}

func (r *repository) getByID(ctx context.Context, dest any, table, columns string, id int64) error {
	q, args, err := qb.Select(columns).From(table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	if err := r.db.GetContext(ctx, dest, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return errs.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *repository) deleteByID(ctx context.Context, table string, id int64) error {
	q, args, err := qb.Delete(table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func wrapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return errors.Wrap(errs.ErrConflict, pgErr.ConstraintName)
	}
	return err
}

func wrapFKViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
		return errors.Wrap(errs.ErrNotFound, pgErr.ConstraintName)
	}
	return err
}

func (r *repository) total(ctx context.Context, countQuery sq.SelectBuilder) (int, error) {
	q, args, err := countQuery.ToSql()
	if err != nil {
		return 0, err
	}
	var total int
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
