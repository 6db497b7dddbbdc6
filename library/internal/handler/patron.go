package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/libris/library-service/library/internal/model"
)

func (h *Handler) GetReaders(c echo.Context) error {
	ctx := c.Request().Context()

	page, err := pageParam(c)
	if err != nil {
		return err
	}
	filter := model.ReaderFilter{
		FirstName:  c.QueryParam("firstNameCont"),
		LastName:   c.QueryParam("lastNameCont"),
		Passport:   c.QueryParam("passportDetailsCont"),
		CardNumber: c.QueryParam("libraryCardNumberCont"),
		Phone:      c.QueryParam("phoneCont"),
	}

	readers, err := h.patrons.ListReaders(ctx, filter, page, sortParam(c))
	if err != nil {
		return httpErr(err)
	}
	c.Response().Header().Set(TotalCountHeader, strconv.Itoa(readers.TotalElements))
	return c.JSON(http.StatusOK, readers.Items)
}

func (h *Handler) GetReader(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	reader, err := h.patrons.GetReader(c.Request().Context(), id)
	if err != nil {
		return httpErr(err)
	}
	return c.JSON(http.StatusOK, reader)
}

func (h *Handler) GetReaderCard(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	card, err := h.patrons.GetCardByReader(c.Request().Context(), id)
	if err != nil {
		return httpErr(err)
	}
	return c.JSON(http.StatusOK, card)
}

func (h *Handler) CreateReader(c echo.Context) error {
	var req model.CreateReaderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	reader, err := h.patrons.CreateReader(c.Request().Context(), req)
	if err != nil {
		return httpErr(err)
	}
	return c.JSON(http.StatusCreated, reader)
}

func (h *Handler) UpdateReader(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req model.UpdateReaderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	reader, err := h.patrons.UpdateReader(c.Request().Context(), id, req)
	if err != nil {
		return httpErr(err)
	}
	return c.JSON(http.StatusOK, reader)
}

func (h *Handler) DeleteReader(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.patrons.DeleteReader(c.Request().Context(), id); err != nil {
		return httpErr(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) GetCards(c echo.Context) error {
	cards, err := h.patrons.ListCards(c.Request().Context())
	if err != nil {
		return httpErr(err)
	}
	c.Response().Header().Set(TotalCountHeader, strconv.Itoa(len(cards)))
	return c.JSON(http.StatusOK, cards)
}

func (h *Handler) GetCard(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	card, err := h.patrons.GetCard(c.Request().Context(), id)
	if err != nil {
		return httpErr(err)
	}
	return c.JSON(http.StatusOK, card)
}

func (h *Handler) DeleteCard(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.patrons.DeleteCard(c.Request().Context(), id); err != nil {
		return httpErr(err)
	}
	return c.NoContent(http.StatusNoContent)
}
