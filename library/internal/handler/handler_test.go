package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/libris/library-service/library/internal/errs"
	"github.com/libris/library-service/library/internal/handler"
	"github.com/libris/library-service/library/internal/model"
	"github.com/libris/library-service/pkg/auth"
	"github.com/libris/library-service/pkg/validate"

	service_mocks "github.com/libris/library-service/library/internal/handler/mocks"
)

func newTestHandler(t *testing.T) (*handler.Handler, *service_mocks.MockCatalogService, *service_mocks.MockLoanService, *echo.Echo) {
	t.Helper()
	c := gomock.NewController(t)
	t.Cleanup(c.Finish)
	catalog := service_mocks.NewMockCatalogService(c)
	patrons := service_mocks.NewMockPatronService(c)
	loans := service_mocks.NewMockLoanService(c)
	authSvc := service_mocks.NewMockAuthService(c)
	log := zap.NewExample().Named("test")
	h := handler.New(catalog, patrons, loans, authSvc, auth.Config{}, log)

	e := echo.New()
	e.Validator = validate.NewCustomValidator()
	return h, catalog, loans, e
}

func TestHandler_GetBooks(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode  int
		expectedBody  string
		expectedTotal string
	}
	type mockBehavior func(r *service_mocks.MockCatalogService)

	var tests = []struct {
		name         string
		target       string
		mockBehavior mockBehavior
		response     response
		wantErr      bool
	}{
		{
			name:   "ok",
			target: "/books?bookCont=go&genreTypes=Fantasy&genreTypes=Horror&page=2&sort=title,%20desc",
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().
					ListBooks(context.Background(), model.BookFilter{
						Title:  "go",
						Genres: []string{"Fantasy", "Horror"},
					}, 2, "title, desc").
					Return(model.ListBooks{
						Paging: model.Paging{
							Page:          2,
							PageSize:      10,
							TotalElements: 11,
						},
						Items: []model.BookView{
							{
								ID:              21,
								Title:           "The Go Programming Language",
								AuthorFirstName: "Alan",
								AuthorSurname:   "Donovan",
								PublisherTitle:  "Addison-Wesley",
								Direction:       "NONFICTION",
								Genres:          []string{"Fantasy"},
							},
						},
					}, nil)
			},
			response: response{
				expectedCode:  http.StatusOK,
				expectedBody:  `[{"id":21,"title":"The Go Programming Language","authorFirstName":"Alan","authorSurname":"Donovan","publisherTitle":"Addison-Wesley","directionOfLiterature":"NONFICTION","genres":["Fantasy"]}]`,
				expectedTotal: "11",
			},
			wantErr: false,
		},
		{
			name:   "default page and sort",
			target: "/books",
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().
					ListBooks(context.Background(), model.BookFilter{}, 1, "id, asc").
					Return(model.ListBooks{
						Paging: model.Paging{Page: 1, PageSize: 10},
						Items:  []model.BookView{},
					}, nil)
			},
			response: response{
				expectedCode:  http.StatusOK,
				expectedBody:  `[]`,
				expectedTotal: "0",
			},
			wantErr: false,
		},
		{
			name:   "err. invalid sort",
			target: "/books?sort=passwordHash,%20asc",
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().
					ListBooks(context.Background(), model.BookFilter{}, 1, "passwordHash, asc").
					Return(model.ListBooks{}, errors.Wrap(errs.ErrInvalidSort, `unknown sort field "passwordHash"`))
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"unknown sort field \"passwordHash\": invalid sort"}`,
			},
			wantErr: true,
		},
		{
			name:         "err. invalid page",
			target:       "/books?page=0",
			mockBehavior: func(r *service_mocks.MockCatalogService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"page is invalid"}`,
			},
			wantErr: true,
		},
		{
			name:   "err. internal",
			target: "/books",
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().
					ListBooks(context.Background(), model.BookFilter{}, 1, "id, asc").
					Return(model.ListBooks{}, errors.New("db internal"))
			},
			response: response{
				expectedCode: http.StatusInternalServerError,
				expectedBody: `{"message":"db internal"}`,
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, catalog, _, e := newTestHandler(t)
			e.GET("/books", h.GetBooks)
			tt.mockBehavior(catalog)

			r := httptest.NewRequest(http.MethodGet, tt.target, http.NoBody)
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
			if !tt.wantErr {
				require.Equal(t, tt.response.expectedTotal, w.Header().Get(handler.TotalCountHeader))
			}
		})
	}
}

func TestHandler_GetReaders(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	defer c.Finish()
	catalog := service_mocks.NewMockCatalogService(c)
	patrons := service_mocks.NewMockPatronService(c)
	loans := service_mocks.NewMockLoanService(c)
	authSvc := service_mocks.NewMockAuthService(c)
	h := handler.New(catalog, patrons, loans, authSvc, auth.Config{}, zap.NewExample().Named("test"))

	patrons.EXPECT().
		ListReaders(context.Background(), model.ReaderFilter{
			LastName:   "smith",
			CardNumber: "0001",
		}, 1, "lastName, asc").
		Return(model.ListReaders{
			Paging: model.Paging{Page: 1, PageSize: 10, TotalElements: 1},
			Items: []model.ReaderView{
				{
					Reader: model.Reader{
						ID:        3,
						UserID:    9,
						FirstName: "Jane",
						LastName:  "Smith",
						Passport:  "4510 123456",
						Phone:     "+15550001122",
					},
					CardNumber: "0001934882711",
					Email:      "jane@example.com",
				},
			},
		}, nil)

	e := echo.New()
	e.Validator = validate.NewCustomValidator()
	e.GET("/readers", h.GetReaders)

	r := httptest.NewRequest(http.MethodGet,
		"/readers?lastNameCont=smith&libraryCardNumberCont=0001&sort=lastName,%20asc", http.NoBody)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "1", w.Header().Get(handler.TotalCountHeader))
	require.Equal(t,
		`[{"id":3,"userId":9,"firstName":"Jane","lastName":"Smith","passportDetails":"4510 123456","phone":"+15550001122","libraryCardNumber":"0001934882711","email":"jane@example.com"}]`,
		strings.Trim(w.Body.String(), "\n"))
}

func TestHandler_CreateLoan(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockLoanService)

	borrow := model.NewDate(2024, 5, 1)
	expected := model.NewDate(2024, 5, 29)

	var tests = []struct {
		name         string
		body         string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "ok",
			body: `{"bookId":11,"libraryCardNumber":"0001934882711","borrowDate":"2024-05-01"}`,
			mockBehavior: func(r *service_mocks.MockLoanService) {
				r.EXPECT().
					CreateLoan(context.Background(), model.CreateLoanRequest{
						BookID:     11,
						CardNumber: "0001934882711",
						BorrowDate: &borrow,
					}).
					Return(model.LoanRecord{
						ID:             5,
						LoanUID:        "5f6b2a50-7c3f-4f29-8c2a-6a2cf1b1e005",
						BookID:         11,
						CardID:         3,
						BorrowDate:     borrow,
						ExpectedReturn: expected,
						Status:         model.NotificationPending,
					}, nil)
			},
			response: response{
				expectedCode: http.StatusCreated,
				expectedBody: `{"id":5,"loanUid":"5f6b2a50-7c3f-4f29-8c2a-6a2cf1b1e005","bookId":11,"cardId":3,"borrowDate":"2024-05-01","expectedReturn":"2024-05-29","actualReturn":null,"notificationStatus":"PENDING"}`,
			},
		},
		{
			name:         "err. missing card number",
			body:         `{"bookId":11}`,
			mockBehavior: func(r *service_mocks.MockLoanService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
			},
		},
		{
			name: "err. unknown card",
			body: `{"bookId":11,"libraryCardNumber":"0000000000000"}`,
			mockBehavior: func(r *service_mocks.MockLoanService) {
				r.EXPECT().
					CreateLoan(context.Background(), model.CreateLoanRequest{
						BookID:     11,
						CardNumber: "0000000000000",
					}).
					Return(model.LoanRecord{}, errors.Wrap(errs.ErrNotFound, "card"))
			},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"card: not found"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, _, loans, e := newTestHandler(t)
			e.POST("/loans", h.CreateLoan)
			tt.mockBehavior(loans)

			r := httptest.NewRequest(http.MethodPost, "/loans", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			if tt.response.expectedBody != "" {
				require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
			}
		})
	}
}
