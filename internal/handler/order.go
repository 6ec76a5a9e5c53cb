package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"food-billing-app/internal/dto"
	"food-billing-app/internal/service"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

func pathID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return uint(id), nil
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	order, err := h.orderService.CreateOrder(ctx, &req)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	if status := c.QueryParam("status"); status != "" {
		orders, err := h.orderService.ListOrdersByStatus(ctx, status)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(http.StatusOK, orders)
	}

	orders, err := h.orderService.ListOrders(ctx)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	order, err := h.orderService.GetOrder(ctx, orderID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) UpdatePaymentStatus(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdatePaymentStatusRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	order, err := h.orderService.UpdatePaymentStatus(ctx, orderID, req.PaymentStatus)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) CancelOrder(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	result, err := h.orderService.CancelOrder(ctx, orderID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, result)
}

func (h *OrderHandler) AddLine(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req dto.OrderLineInput
	if err := c.Bind(&req); err != nil {
		return err
	}

	order, err := h.orderService.AddLine(ctx, orderID, &req)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) RemoveLine(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	lineID, err := pathID(c, "lineID")
	if err != nil {
		return err
	}

	order, err := h.orderService.RemoveLine(ctx, orderID, lineID)
	if err != nil {
		return httpError(err)
	}
	if order == nil {
		// Last line removed, order gone with it.
		return c.JSON(http.StatusOK, map[string]bool{"order_deleted": true})
	}

	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) UpdateLine(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	lineID, err := pathID(c, "lineID")
	if err != nil {
		return err
	}

	var req dto.UpdateLineRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	order, err := h.orderService.UpdateLineQuantity(ctx, orderID, lineID, req.Quantity)
	if err != nil {
		return httpError(err)
	}
	if order == nil {
		return c.JSON(http.StatusOK, map[string]bool{"order_deleted": true})
	}

	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) ModifyOrder(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req dto.ModifyOrderRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	order, err := h.orderService.ModifyOrder(ctx, orderID, req.Lines)
	if err != nil {
		return httpError(err)
	}
	if order == nil {
		return c.JSON(http.StatusOK, map[string]bool{"order_deleted": true})
	}

	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) SearchOrders(c echo.Context) error {
	ctx := c.Request().Context()

	var filter dto.OrderSearchFilter
	if err := c.Bind(&filter); err != nil {
		return err
	}

	orders, err := h.orderService.SearchOrders(ctx, &filter)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, orders)
}
