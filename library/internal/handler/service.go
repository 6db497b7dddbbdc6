package handler

import (
	"context"

	"github.com/libris/library-service/library/internal/model"
)

//go:generate mockgen -source=service.go -destination=mocks/mock.go -package=mocks

// CatalogService serves the catalog entities: books, authors, genres
// and publishers.
type CatalogService interface {
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
}

// PatronService serves readers and their library cards.
type PatronService interface {
	ListReaders(ctx context.Context, f model.ReaderFilter, page int, sort string) (model.ListReaders, error)
	GetReader(ctx context.Context, id int64) (model.ReaderView, error)
	CreateReader(ctx context.Context, req model.CreateReaderRequest) (model.ReaderView, error)
	UpdateReader(ctx context.Context, id int64, req model.UpdateReaderRequest) (model.ReaderView, error)
	DeleteReader(ctx context.Context, id int64) error

	ListCards(ctx context.Context) ([]model.LibraryCard, error)
	GetCard(ctx context.Context, id int64) (model.LibraryCard, error)
	GetCardByReader(ctx context.Context, readerID int64) (model.LibraryCard, error)
	DeleteCard(ctx context.Context, id int64) error
}

// LoanService serves the loan lifecycle.
type LoanService interface {
	ListLoans(ctx context.Context, cardID int64) ([]model.LoanRecord, error)
	GetLoan(ctx context.Context, id int64) (model.LoanRecord, error)
	CreateLoan(ctx context.Context, req model.CreateLoanRequest) (model.LoanRecord, error)
	UpdateLoan(ctx context.Context, id int64, req model.UpdateLoanRequest) (model.LoanRecord, error)
	ReturnLoan(ctx context.Context, id int64, req model.ReturnLoanRequest) (model.LoanRecord, error)
	DeleteLoan(ctx context.Context, id int64) error
}

type AuthService interface {
	Register(ctx context.Context, req model.RegisterRequest) (model.User, error)
	Login(ctx context.Context, req model.LoginRequest) (model.TokenResponse, error)
}
