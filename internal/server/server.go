package server

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"food-billing-app/internal/handler"
	"food-billing-app/internal/service"
)

type Server struct {
	echo           *echo.Echo
	catalogHandler *handler.CatalogHandler
	orderHandler   *handler.OrderHandler
}

func NewServer(catalogService service.CatalogService, orderService service.OrderService) *Server {
	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:           e,
		catalogHandler: handler.NewCatalogHandler(catalogService),
		orderHandler:   handler.NewOrderHandler(orderService),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// -------- catalog --------
	api.GET("/items", s.catalogHandler.ListItems)
	api.POST("/items", s.catalogHandler.CreateItem)
	api.GET("/items/search", s.catalogHandler.SearchItems)
	api.GET("/items/:id", s.catalogHandler.GetItem)
	api.PUT("/items/:id", s.catalogHandler.UpdateItem)
	api.DELETE("/items/:id", s.catalogHandler.DeleteItem)
	api.POST("/items/restock-all", s.catalogHandler.RestockAll)

	// -------- orders --------
	api.POST("/orders", s.orderHandler.CreateOrder)
	api.GET("/orders", s.orderHandler.ListOrders)
	api.GET("/orders/search", s.orderHandler.SearchOrders)
	api.GET("/orders/:id", s.orderHandler.GetOrder)
	api.PUT("/orders/:id", s.orderHandler.ModifyOrder)
	api.POST("/orders/:id/payment-status", s.orderHandler.UpdatePaymentStatus)
	api.POST("/orders/:id/cancel", s.orderHandler.CancelOrder)
	api.POST("/orders/:id/lines", s.orderHandler.AddLine)
	api.PUT("/orders/:id/lines/:lineID", s.orderHandler.UpdateLine)
	api.DELETE("/orders/:id/lines/:lineID", s.orderHandler.RemoveLine)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
