package memory

import (
	"context"
	"sort"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

type orderRepository struct {
	s session
}

// Create сохраняет заказ вместе с позициями.
func (r *orderRepository) Create(_ context.Context, order domain.Order) error {
	return r.s.mutate(func(d *dataset) error {
		if _, ok := d.customers[order.CustomerID]; !ok {
			return domain.ErrCustomerNotFound
		}
		lines := order.Lines
		order.Lines = nil
		order.Customer = nil
		d.orders[order.ID] = order
		for _, line := range lines {
			line.OrderID = order.ID
			line.Product = nil
			d.lines[line.ID] = line
		}
		return nil
	})
}

// Get возвращает полностью гидрированный заказ или ErrOrderNotFound.
func (r *orderRepository) Get(_ context.Context, id string) (domain.Order, error) {
	var order domain.Order
	err := r.s.view(func(d *dataset) error {
		stored, ok := d.orders[id]
		if !ok {
			return domain.ErrOrderNotFound
		}
		order = hydrateOrder(d, stored)
		return nil
	})
	return order, err
}

// List возвращает гидрированные заказы по фильтру, свежие первыми.
func (r *orderRepository) List(_ context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	var result []domain.Order
	err := r.s.view(func(d *dataset) error {
		result = make([]domain.Order, 0, len(d.orders))
		for _, order := range d.orders {
			if filter.CustomerID != nil && order.CustomerID != *filter.CustomerID {
				continue
			}
			if filter.Status != nil && order.Status != *filter.Status {
				continue
			}
			result = append(result, hydrateOrder(d, order))
		}
		sort.Slice(result, func(i, j int) bool {
			if !result[i].OrderDate.Equal(result[j].OrderDate) {
				return result[i].OrderDate.After(result[j].OrderDate)
			}
			return result[i].ID > result[j].ID
		})
		return nil
	})
	return result, err
}

// Save применяет статус, сумму и updated_at к существующему заказу.
func (r *orderRepository) Save(_ context.Context, order domain.Order) error {
	return r.s.mutate(func(d *dataset) error {
		stored, ok := d.orders[order.ID]
		if !ok {
			return domain.ErrOrderNotFound
		}
		stored.Status = order.Status
		stored.TotalMinor = order.TotalMinor
		stored.UpdatedAt = order.UpdatedAt
		d.orders[order.ID] = stored
		return nil
	})
}

func (r *orderRepository) InsertLine(_ context.Context, line domain.OrderLine) error {
	return r.s.mutate(func(d *dataset) error {
		if _, ok := d.orders[line.OrderID]; !ok {
			return domain.ErrOrderNotFound
		}
		line.Product = nil
		d.lines[line.ID] = line
		return nil
	})
}

func (r *orderRepository) UpdateLineQty(_ context.Context, lineID string, qty int32) error {
	return r.s.mutate(func(d *dataset) error {
		line, ok := d.lines[lineID]
		if !ok {
			return domain.ErrOrderLineNotFound
		}
		line.Qty = qty
		d.lines[lineID] = line
		return nil
	})
}

func (r *orderRepository) DeleteLine(_ context.Context, lineID string) error {
	return r.s.mutate(func(d *dataset) error {
		if _, ok := d.lines[lineID]; !ok {
			return domain.ErrOrderLineNotFound
		}
		delete(d.lines, lineID)
		return nil
	})
}

func (r *orderRepository) DeleteLines(_ context.Context, orderID string) error {
	return r.s.mutate(func(d *dataset) error {
		for id, line := range d.lines {
			if line.OrderID == orderID {
				delete(d.lines, id)
			}
		}
		return nil
	})
}

func (r *orderRepository) Delete(_ context.Context, id string) error {
	return r.s.mutate(func(d *dataset) error {
		if _, ok := d.orders[id]; !ok {
			return domain.ErrOrderNotFound
		}
		delete(d.orders, id)
		return nil
	})
}

func (r *orderRepository) CountByCustomer(_ context.Context, customerID string) (int, error) {
	count := 0
	err := r.s.view(func(d *dataset) error {
		for _, order := range d.orders {
			if order.CustomerID == customerID {
				count++
			}
		}
		return nil
	})
	return count, err
}

func (r *orderRepository) CountLinesByProduct(_ context.Context, productID string) (int, error) {
	count := 0
	err := r.s.view(func(d *dataset) error {
		for _, line := range d.lines {
			if line.ProductID == productID {
				count++
			}
		}
		return nil
	})
	return count, err
}

func hydrateOrder(d *dataset, order domain.Order) domain.Order {
	if customer, ok := d.customers[order.CustomerID]; ok {
		// Гидрация повторяет контракт SQL-реализации: без учётных данных.
		sanitized := customer.Sanitized()
		order.Customer = &sanitized
	}
	lines := make([]domain.OrderLine, 0)
	for _, line := range d.lines {
		if line.OrderID != order.ID {
			continue
		}
		if product, ok := d.products[line.ProductID]; ok {
			hydrated := hydrateProduct(d, product)
			line.Product = &hydrated
		}
		lines = append(lines, line)
	}
	sort.Slice(lines, func(i, j int) bool {
		if !lines[i].CreatedAt.Equal(lines[j].CreatedAt) {
			return lines[i].CreatedAt.Before(lines[j].CreatedAt)
		}
		return lines[i].ID < lines[j].ID
	})
	order.Lines = lines
	return order
}

var _ domain.OrderRepository = (*orderRepository)(nil)
