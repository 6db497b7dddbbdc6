package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/libris/library-service/library/internal/model"
	libraryRepo "github.com/libris/library-service/library/internal/repository"
	"github.com/libris/library-service/pkg/auth"
)

type Service struct {
	log     *zap.Logger
	repo    libraryRepo.Repository
	authCfg auth.Config
}

func NewService(repo libraryRepo.Repository, authCfg auth.Config, log *zap.Logger) *Service {
	return &Service{
		log:     log,
		repo:    repo,
		authCfg: authCfg,
	}
}

func (s *Service) ListBooks(ctx context.Context, f model.BookFilter, page int, sort string) (model.ListBooks, error) {
	return s.repo.ListBooks(ctx, f, page, sort)
}

func (s *Service) GetBook(ctx context.Context, id int64) (model.BookView, error) {
	return s.repo.GetBook(ctx, id)
}

func (s *Service) CreateBook(ctx context.Context, req model.CreateBookRequest) (model.BookView, error) {
	return s.repo.CreateBook(ctx, req)
}

func (s *Service) UpdateBook(ctx context.Context, id int64, req model.UpdateBookRequest) (model.BookView, error) {
	return s.repo.UpdateBook(ctx, id, req)
}

func (s *Service) DeleteBook(ctx context.Context, id int64) error {
	return s.repo.DeleteBook(ctx, id)
}

func (s *Service) ListAuthors(ctx context.Context, f model.AuthorFilter, page int, sort string) (model.ListAuthors, error) {
	return s.repo.ListAuthors(ctx, f, page, sort)
}

func (s *Service) GetAuthor(ctx context.Context, id int64) (model.Author, error) {
	return s.repo.GetAuthor(ctx, id)
}

func (s *Service) CreateAuthor(ctx context.Context, req model.CreateAuthorRequest) (model.Author, error) {
	return s.repo.CreateAuthor(ctx, req)
}

func (s *Service) UpdateAuthor(ctx context.Context, id int64, req model.UpdateAuthorRequest) (model.Author, error) {
	return s.repo.UpdateAuthor(ctx, id, req)
}

func (s *Service) DeleteAuthor(ctx context.Context, id int64) error {
	return s.repo.DeleteAuthor(ctx, id)
}

func (s *Service) ListGenres(ctx context.Context) ([]model.Genre, error) {
	return s.repo.ListGenres(ctx)
}

func (s *Service) GetGenre(ctx context.Context, id int64) (model.Genre, error) {
	return s.repo.GetGenre(ctx, id)
}

func (s *Service) CreateGenre(ctx context.Context, req model.CreateGenreRequest) (model.Genre, error) {
	return s.repo.CreateGenre(ctx, req)
}

func (s *Service) DeleteGenre(ctx context.Context, id int64) error {
	return s.repo.DeleteGenre(ctx, id)
}

func (s *Service) ListPublishers(ctx context.Context) ([]model.Publisher, error) {
	return s.repo.ListPublishers(ctx)
}

func (s *Service) GetPublisher(ctx context.Context, id int64) (model.Publisher, error) {
	return s.repo.GetPublisher(ctx, id)
}

func (s *Service) CreatePublisher(ctx context.Context, req model.CreatePublisherRequest) (model.Publisher, error) {
	return s.repo.CreatePublisher(ctx, req)
}

func (s *Service) UpdatePublisher(ctx context.Context, id int64, req model.UpdatePublisherRequest) (model.Publisher, error) {
	return s.repo.UpdatePublisher(ctx, id, req)
}

func (s *Service) DeletePublisher(ctx context.Context, id int64) error {
	return s.repo.DeletePublisher(ctx, id)
}

func (s *Service) ListReaders(ctx context.Context, f model.ReaderFilter, page int, sort string) (model.ListReaders, error) {
	return s.repo.ListReaders(ctx, f, page, sort)
}

func (s *Service) GetReader(ctx context.Context, id int64) (model.ReaderView, error) {
	return s.repo.GetReader(ctx, id)
}

func (s *Service) UpdateReader(ctx context.Context, id int64, req model.UpdateReaderRequest) (model.ReaderView, error) {
	return s.repo.UpdateReader(ctx, id, req)
}

func (s *Service) DeleteReader(ctx context.Context, id int64) error {
	return s.repo.DeleteReader(ctx, id)
}

func (s *Service) ListCards(ctx context.Context) ([]model.LibraryCard, error) {
	return s.repo.ListCards(ctx)
}

func (s *Service) GetCard(ctx context.Context, id int64) (model.LibraryCard, error) {
	return s.repo.GetCard(ctx, id)
}

func (s *Service) GetCardByReader(ctx context.Context, readerID int64) (model.LibraryCard, error) {
	return s.repo.GetCardByReader(ctx, readerID)
}

func (s *Service) DeleteCard(ctx context.Context, id int64) error {
	return s.repo.DeleteCard(ctx, id)
}
