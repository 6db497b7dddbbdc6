package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/libris/library-service/library/internal/errs"
	svc "github.com/libris/library-service/library/internal/service"
	"github.com/libris/library-service/pkg/auth"
	md "github.com/libris/library-service/pkg/middleware"
	"github.com/libris/library-service/pkg/validate"
)

// TotalCountHeader carries the true size of the filtered result set,
// not the length of the returned page.
const TotalCountHeader = "X-Total-Count"

type Handler struct {
	catalog CatalogService
	patrons PatronService
	loans   LoanService
	auth    AuthService
	authCfg auth.Config
	log     *zap.Logger
}

func New(catalog CatalogService, patrons PatronService, loans LoanService, authSvc AuthService, authCfg auth.Config, log *zap.Logger) *Handler {
	return &Handler{
		catalog: catalog,
		patrons: patrons,
		loans:   loans,
		auth:    authSvc,
		authCfg: authCfg,
		log:     log,
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig()),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)

	api.POST("/register", h.Register)
	api.POST("/login", h.Login)

	authed := api.Group("", md.JWTAuth(h.authCfg))

	authed.GET("/books", h.GetBooks)
	authed.GET("/books/:id", h.GetBook)
	authed.POST("/books", h.CreateBook, md.AdminOnly)
	authed.PUT("/books/:id", h.UpdateBook, md.AdminOnly)
	authed.DELETE("/books/:id", h.DeleteBook, md.AdminOnly)

	authed.GET("/authors", h.GetAuthors)
	authed.GET("/authors/:id", h.GetAuthor)
	authed.POST("/authors", h.CreateAuthor, md.AdminOnly)
	authed.PUT("/authors/:id", h.UpdateAuthor, md.AdminOnly)
	authed.DELETE("/authors/:id", h.DeleteAuthor, md.AdminOnly)

	authed.GET("/genres", h.GetGenres)
	authed.GET("/genres/:id", h.GetGenre)
	authed.POST("/genres", h.CreateGenre, md.AdminOnly)
	authed.DELETE("/genres/:id", h.DeleteGenre, md.AdminOnly)

	authed.GET("/publishers", h.GetPublishers)
	authed.GET("/publishers/:id", h.GetPublisher)
	authed.POST("/publishers", h.CreatePublisher, md.AdminOnly)
	authed.PUT("/publishers/:id", h.UpdatePublisher, md.AdminOnly)
	authed.DELETE("/publishers/:id", h.DeletePublisher, md.AdminOnly)

	authed.GET("/readers", h.GetReaders)
	authed.GET("/readers/:id", h.GetReader)
	authed.GET("/readers/:id/card", h.GetReaderCard)
	authed.POST("/readers", h.CreateReader)
	authed.PUT("/readers/:id", h.UpdateReader)
	authed.DELETE("/readers/:id", h.DeleteReader, md.AdminOnly)

	authed.GET("/cards", h.GetCards, md.AdminOnly)
	authed.GET("/cards/:id", h.GetCard)
	authed.DELETE("/cards/:id", h.DeleteCard, md.AdminOnly)

	authed.GET("/loans", h.GetLoans)
	authed.GET("/loans/:id", h.GetLoan)
	authed.POST("/loans", h.CreateLoan)
	authed.PATCH("/loans/:id", h.UpdateLoan, md.AdminOnly)
	authed.POST("/loans/:id/return", h.ReturnLoan)
	authed.DELETE("/loans/:id", h.DeleteLoan, md.AdminOnly)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id is invalid")
	}
	return id, nil
}

func pageParam(c echo.Context) (int, error) {
	page := 1
	if pageParam := c.QueryParam("page"); pageParam != "" {
		var err error
		if page, err = strconv.Atoi(pageParam); err != nil || page < 1 {
			return 0, echo.NewHTTPError(http.StatusBadRequest, "page is invalid")
		}
	}
	return page, nil
}

func sortParam(c echo.Context) string {
	if sort := c.QueryParam("sort"); sort != "" {
		return sort
	}
	return "id, asc"
}

// httpErr maps service errors onto status codes.
func httpErr(err error) error {
	switch {
	case errors.Is(err, errs.ErrInvalidSort):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, svc.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
