package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/libris/library-service/library/internal/model"
)

func (h *Handler) GetBooks(c echo.Context) error {
	ctx := c.Request().Context()

	page, err := pageParam(c)
	if err != nil {
		return err
	}
	filter := model.BookFilter{
		Title:           c.QueryParam("bookCont"),
		AuthorFirstName: c.QueryParam("authorFirstNameCont"),
		AuthorSurname:   c.QueryParam("authorSurnameCont"),
		PublisherTitle:  c.QueryParam("publisherTitleCont"),
		Direction:       c.QueryParam("directionOfLiterature"),
		Genres:          c.QueryParams()["genreTypes"],
	}

	books, err := h.catalog.ListBooks(ctx, filter, page, sortParam(c))
	if err != nil {
		return httpErr(err)
	}
	c.Response().Header().Set(TotalCountHeader, strconv.Itoa(books.TotalElements))
	return c.JSON(http.StatusOK, books.Items)
}

func (h *Handler) GetBook(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	book, err := h.catalog.GetBook(c.Request().Context(), id)
	if err != nil {
		return httpErr(err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) CreateBook(c echo.Context) error {
	var req model.CreateBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	book, err := h.catalog.CreateBook(c.Request().Context(), req)
	if err != nil {
		return httpErr(err)
	}
	return c.JSON(http.StatusCreated, book)
}

func (h *Handler) UpdateBook(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req model.UpdateBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	book, err := h.catalog.UpdateBook(c.Request().Context(), id, req)
	if err != nil {
		return httpErr(err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) DeleteBook(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.catalog.DeleteBook(c.Request().Context(), id); err != nil {
		return httpErr(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) GetAuthors(c echo.Context) error {
	ctx := c.Request().Context()

	page, err := pageParam(c)
	if err != nil {
		return err
	}
	filter := model.AuthorFilter{
		FirstName: c.QueryParam("firstNameCont"),
		Surname:   c.QueryParam("surnameCont"),
	}

	authors, err := h.catalog.ListAuthors(ctx, filter, page, sortParam(c))
	if err != nil {
		return httpErr(err)
	}
	c.Response().Header().Set(TotalCountHeader, strconv.Itoa(authors.TotalElements))
	return c.JSON(http.StatusOK, authors.Items)
}

func (h *Handler) GetAuthor(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	author, err := h.catalog.GetAuthor(c.Request().Context(), id)
	if err != nil {
		return httpErr(err)
	}
	return c.JSON(http.StatusOK, author)
}

func (h *Handler) CreateAuthor(c echo.Context) error {
	var req model.CreateAuthorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	author, err := h.catalog.CreateAuthor(c.Request().Context(), req)
	if err != nil {
		return httpErr(err)
	}
	return c.JSON(http.StatusCreated, author)
}

func (h *Handler) UpdateAuthor(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req model.UpdateAuthorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	author, err := h.catalog.UpdateAuthor(c.Request().Context(), id, req)
	if err != nil {
		return httpErr(err)
	}
	return c.JSON(http.StatusOK, author)
}

func (h *Handler) DeleteAuthor(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.catalog.DeleteAuthor(c.Request().Context(), id); err != nil {
		return httpErr(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) GetGenres(c echo.Context) error {
	genres, err := h.catalog.ListGenres(c.Request().Context())
	if err != nil {
		return httpErr(err)
	}
	c.Response().Header().Set(TotalCountHeader, strconv.Itoa(len(genres)))
	return c.JSON(http.StatusOK, genres)
}

func (h *Handler) GetGenre(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	genre, err := h.catalog.GetGenre(c.Request().Context(), id)
	if err != nil {
		return httpErr(err)
	}
	return c.JSON(http.StatusOK, genre)
}

func (h *Handler) CreateGenre(c echo.Context) error {
	var req model.CreateGenreRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	genre, err := h.catalog.CreateGenre(c.Request().Context(), req)
	if err != nil {
		return httpErr(err)
	}
	return c.JSON(http.StatusCreated, genre)
}

func (h *Handler) DeleteGenre(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.catalog.DeleteGenre(c.Request().Context(), id); err != nil {
		return httpErr(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) GetPublishers(c echo.Context) error {
	publishers, err := h.catalog.ListPublishers(c.Request().Context())
	if err != nil {
		return httpErr(err)
	}
	c.Response().Header().Set(TotalCountHeader, strconv.Itoa(len(publishers)))
	return c.JSON(http.StatusOK, publishers)
}

func (h *Handler) GetPublisher(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	pub, err := h.catalog.GetPublisher(c.Request().Context(), id)
	if err != nil {
		return httpErr(err)
	}
	return c.JSON(http.StatusOK, pub)
}

func (h *Handler) CreatePublisher(c echo.Context) error {
	var req model.CreatePublisherRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	pub, err := h.catalog.CreatePublisher(c.Request().Context(), req)
	if err != nil {
		return httpErr(err)
	}
	return c.JSON(http.StatusCreated, pub)
}

func (h *Handler) UpdatePublisher(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req model.UpdatePublisherRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	pub, err := h.catalog.UpdatePublisher(c.Request().Context(), id, req)
	if err != nil {
		return httpErr(err)
	}
	return c.JSON(http.StatusOK, pub)
}

func (h *Handler) DeletePublisher(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.catalog.DeletePublisher(c.Request().Context(), id); err != nil {
		return httpErr(err)
	}
	return c.NoContent(http.StatusNoContent)
}
