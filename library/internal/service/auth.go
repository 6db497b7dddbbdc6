package service

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/libris/library-service/library/internal/errs"
	"github.com/libris/library-service/library/internal/model"
	"github.com/libris/library-service/pkg/auth"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

func (s *Service) Register(ctx context.Context, req model.RegisterRequest) (model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, errors.Wrap(err, "hash password")
	}
	role := req.Role
	if role == "" {
		role = auth.RoleReader
	}
	return s.repo.CreateUser(ctx, req.Email, string(hash), role)
}

func (s *Service) Login(ctx context.Context, req model.LoginRequest) (model.TokenResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.TokenResponse{}, ErrInvalidCredentials
		}
		return model.TokenResponse{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return model.TokenResponse{}, ErrInvalidCredentials
	}
	token, err := auth.IssueToken(s.authCfg, user.Email, user.Role)
	if err != nil {
		return model.TokenResponse{}, errors.Wrap(err, "issue token")
	}
	return model.TokenResponse{Token: token}, nil
}
