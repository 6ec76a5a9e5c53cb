package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"food-billing-app/internal/dto"
	"food-billing-app/internal/service"
)

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

func itemIDFromPath(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid item id")
	}
	return uint(id), nil
}

func (h *CatalogHandler) ListItems(c echo.Context) error {
	ctx := c.Request().Context()

	// ?search= filters by name substring, same as the dedicated endpoint.
	if query := c.QueryParam("search"); query != "" {
		items, err := h.catalogService.SearchItems(ctx, query)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(http.StatusOK, items)
	}

	items, err := h.catalogService.ListItems(ctx)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHandler) GetItem(c echo.Context) error {
	ctx := c.Request().Context()

	itemID, err := itemIDFromPath(c)
	if err != nil {
		return err
	}

	item, err := h.catalogService.GetItem(ctx, itemID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, item)
}

func (h *CatalogHandler) SearchItems(c echo.Context) error {
	ctx := c.Request().Context()

	query := c.QueryParam("query")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing query parameter")
	}

	items, err := h.catalogService.SearchItems(ctx, query)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHandler) CreateItem(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ItemInput
	if err := c.Bind(&req); err != nil {
		return err
	}

	item, err := h.catalogService.AddItem(ctx, &req)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, item)
}

func (h *CatalogHandler) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()

	itemID, err := itemIDFromPath(c)
	if err != nil {
		return err
	}

	var req dto.ItemInput
	if err := c.Bind(&req); err != nil {
		return err
	}

	item, err := h.catalogService.UpdateItem(ctx, itemID, &req)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, item)
}

func (h *CatalogHandler) DeleteItem(c echo.Context) error {
	ctx := c.Request().Context()

	itemID, err := itemIDFromPath(c)
	if err != nil {
		return err
	}

	if err := h.catalogService.DeleteItem(ctx, itemID); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

func (h *CatalogHandler) RestockAll(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.RestockRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	count, err := h.catalogService.RestockAll(ctx, req.Quantity)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]int64{"restocked": count})
}
