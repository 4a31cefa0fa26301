package http

import (
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// errorResponse — единый формат ошибки API. Error содержит машинный вид
// ошибки, Violations заполняется только для нарушений входного контракта.
type errorResponse struct {
	Error      string                  `json:"error"`
	Message    string                  `json:"message"`
	Violations []domain.FieldViolation `json:"violations,omitempty"`
}

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type categoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type productRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	PriceMinor  int64   `json:"price_minor"`
	Stock       int32   `json:"stock"`
	CategoryID  *string `json:"category_id"`
}

type productResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	PriceMinor  int64             `json:"price_minor"`
	Stock       int32             `json:"stock"`
	CategoryID  *string           `json:"category_id,omitempty"`
	Category    *categoryResponse `json:"category,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

type customerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	TaxID    string `json:"tax_id"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type customerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	TaxID     string    `json:"tax_id"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type orderLineRequest struct {
	ID        string `json:"id,omitempty"`
	ProductID string `json:"product_id"`
	Qty       int32  `json:"qty"`
}

type createOrderRequest struct {
	CustomerID string             `json:"customer_id"`
	OrderDate  *time.Time         `json:"order_date"`
	Lines      []orderLineRequest `json:"lines"`
}

type updateOrderRequest struct {
	Status *string             `json:"status"`
	Lines  *[]orderLineRequest `json:"lines"`
}

type orderLineResponse struct {
	ID        string           `json:"id"`
	ProductID string           `json:"product_id"`
	Qty       int32            `json:"qty"`
	Product   *productResponse `json:"product,omitempty"`
}

type orderResponse struct {
	ID         string              `json:"id"`
	CustomerID string              `json:"customer_id"`
	Customer   *customerResponse   `json:"customer,omitempty"`
	Status     string              `json:"status"`
	OrderDate  time.Time           `json:"order_date"`
	TotalMinor int64               `json:"total_minor"`
	Lines      []orderLineResponse `json:"lines"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

func toCategoryResponse(category domain.Category) categoryResponse {
	return categoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		CreatedAt:   category.CreatedAt,
		UpdatedAt:   category.UpdatedAt,
	}
}

func toProductResponse(product domain.Product) productResponse {
	resp := productResponse{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		PriceMinor:  product.PriceMinor,
		Stock:       product.Stock,
		CategoryID:  product.CategoryID,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
	if product.Category != nil {
		category := toCategoryResponse(*product.Category)
		resp.Category = &category
	}
	return resp
}

func toCustomerResponse(customer domain.Customer) customerResponse {
	return customerResponse{
		ID:        customer.ID,
		Name:      customer.Name,
		Email:     customer.Email,
		TaxID:     customer.TaxID,
		Phone:     customer.Phone,
		CreatedAt: customer.CreatedAt,
		UpdatedAt: customer.UpdatedAt,
	}
}

func toOrderResponse(order domain.Order) orderResponse {
	resp := orderResponse{
		ID:         order.ID,
		CustomerID: order.CustomerID,
		Status:     string(order.Status),
		OrderDate:  order.OrderDate,
		TotalMinor: order.TotalMinor,
		Lines:      make([]orderLineResponse, 0, len(order.Lines)),
		CreatedAt:  order.CreatedAt,
		UpdatedAt:  order.UpdatedAt,
	}
	if order.Customer != nil {
		customer := toCustomerResponse(order.Customer.Sanitized())
		resp.Customer = &customer
	}
	for _, line := range order.Lines {
		lineResp := orderLineResponse{
			ID:        line.ID,
			ProductID: line.ProductID,
			Qty:       line.Qty,
		}
		if line.Product != nil {
			product := toProductResponse(*line.Product)
			lineResp.Product = &product
		}
		resp.Lines = append(resp.Lines, lineResp)
	}
	return resp
}
