package memory

import (
	"context"
	"sort"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

type productRepository struct {
	s session
}

func (r *productRepository) Create(_ context.Context, product domain.Product) error {
	return r.s.mutate(func(d *dataset) error {
		if product.CategoryID != nil {
			if _, ok := d.categories[*product.CategoryID]; !ok {
				return domain.ErrCategoryNotFound
			}
		}
		product.Category = nil
		d.products[product.ID] = product
		return nil
	})
}

func (r *productRepository) Get(_ context.Context, id string) (domain.Product, error) {
	var product domain.Product
	err := r.s.view(func(d *dataset) error {
		stored, ok := d.products[id]
		if !ok {
			return domain.ErrProductNotFound
		}
		product = hydrateProduct(d, stored)
		return nil
	})
	return product, err
}

func (r *productRepository) List(_ context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	var result []domain.Product
	err := r.s.view(func(d *dataset) error {
		result = make([]domain.Product, 0, len(d.products))
		for _, product := range d.products {
			if filter.CategoryID != nil {
				if product.CategoryID == nil || *product.CategoryID != *filter.CategoryID {
					continue
				}
			}
			result = append(result, hydrateProduct(d, product))
		}
		sort.Slice(result, func(i, j int) bool {
			return result[i].Name < result[j].Name
		})
		return nil
	})
	return result, err
}

func (r *productRepository) Update(_ context.Context, product domain.Product) error {
	return r.s.mutate(func(d *dataset) error {
		if _, ok := d.products[product.ID]; !ok {
			return domain.ErrProductNotFound
		}
		if product.CategoryID != nil {
			if _, ok := d.categories[*product.CategoryID]; !ok {
				return domain.ErrCategoryNotFound
			}
		}
		product.Category = nil
		d.products[product.ID] = product
		return nil
	})
}

func (r *productRepository) Delete(_ context.Context, id string) error {
	return r.s.mutate(func(d *dataset) error {
		if _, ok := d.products[id]; !ok {
			return domain.ErrProductNotFound
		}
		delete(d.products, id)
		return nil
	})
}

// AdjustStock применяет знаковую дельту, не позволяя остатку уйти ниже нуля.
// Блокировка store на время операции заменяет row-level lock.
func (r *productRepository) AdjustStock(_ context.Context, id string, delta int32) (domain.Product, error) {
	var product domain.Product
	err := r.s.mutate(func(d *dataset) error {
		stored, ok := d.products[id]
		if !ok {
			return domain.ErrProductNotFound
		}
		newStock := stored.Stock + delta
		if newStock < 0 {
			return &domain.InsufficientStockError{
				ProductID:   stored.ID,
				ProductName: stored.Name,
				Available:   stored.Stock,
				Requested:   -delta,
			}
		}
		stored.Stock = newStock
		d.products[id] = stored
		product = hydrateProduct(d, stored)
		return nil
	})
	return product, err
}

func (r *productRepository) CountByCategory(_ context.Context, categoryID string) (int, error) {
	count := 0
	err := r.s.view(func(d *dataset) error {
		for _, product := range d.products {
			if product.CategoryID != nil && *product.CategoryID == categoryID {
				count++
			}
		}
		return nil
	})
	return count, err
}

func hydrateProduct(d *dataset, product domain.Product) domain.Product {
	if product.CategoryID != nil {
		if category, ok := d.categories[*product.CategoryID]; ok {
			product.Category = &category
		}
	}
	return product
}

var _ domain.ProductRepository = (*productRepository)(nil)
