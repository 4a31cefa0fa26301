package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/service/catalog"
	"github.com/vladislavdragonenkov/storefront/internal/service/customer"
	"github.com/vladislavdragonenkov/storefront/internal/service/order"
)

// Server — HTTP-фасад магазина поверх fiber. Вся доменная логика живёт
// в сервисах; здесь только разбор запросов и отображение ошибок в статусы.
type Server struct {
	app        *fiber.App
	categories *catalog.CategoryService
	products   *catalog.ProductService
	customers  *customer.Service
	orders     *order.Engine
	logger     *log.Entry
}

// NewServer создаёт HTTP-сервер и регистрирует маршруты.
func NewServer(
	categories *catalog.CategoryService,
	products *catalog.ProductService,
	customers *customer.Service,
	orders *order.Engine,
	logger *log.Entry,
) *Server {
	if logger == nil {
		logger = log.New().WithField("component", "http")
	}

	app := fiber.New(fiber.Config{
		AppName:      "storefront",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	})

	s := &Server{
		app:        app,
		categories: categories,
		products:   products,
		customers:  customers,
		orders:     orders,
		logger:     logger,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.app.Group("/api/v1")

	categories := api.Group("/categories")
	categories.Post("/", s.createCategory)
	categories.Get("/", s.listCategories)
	categories.Get("/:id", s.getCategory)
	categories.Put("/:id", s.updateCategory)
	categories.Delete("/:id", s.deleteCategory)

	products := api.Group("/products")
	products.Post("/", s.createProduct)
	products.Get("/", s.listProducts)
	products.Get("/:id", s.getProduct)
	products.Put("/:id", s.updateProduct)
	products.Delete("/:id", s.deleteProduct)

	customers := api.Group("/customers")
	customers.Post("/", s.createCustomer)
	customers.Get("/", s.listCustomers)
	customers.Get("/:id", s.getCustomer)
	customers.Put("/:id", s.updateCustomer)
	customers.Delete("/:id", s.deleteCustomer)
	customers.Post("/login", s.loginCustomer)

	orders := api.Group("/orders")
	orders.Post("/", s.createOrder)
	orders.Get("/", s.listOrders)
	orders.Get("/:id", s.getOrder)
	orders.Put("/:id", s.updateOrder)
	orders.Delete("/:id", s.deleteOrder)
}

// Listen блокируется, обслуживая запросы на addr.
func (s *Server) Listen(addr string) error {
	s.logger.WithField("addr", addr).Info("http server listening")
	return s.app.Listen(addr)
}

// Shutdown корректно останавливает сервер, дожидаясь активных запросов.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App возвращает приложение fiber (для тестов через app.Test).
func (s *Server) App() *fiber.App {
	return s.app
}
