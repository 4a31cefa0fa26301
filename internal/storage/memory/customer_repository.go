package memory

import (
	"context"
	"sort"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

type customerRepository struct {
	s session
}

// Create сохраняет покупателя, проверяя уникальность email и tax id.
func (r *customerRepository) Create(_ context.Context, customer domain.Customer) error {
	return r.s.mutate(func(d *dataset) error {
		for _, existing := range d.customers {
			if existing.Email == customer.Email {
				return domain.ErrEmailTaken
			}
			if existing.TaxID == customer.TaxID {
				return domain.ErrTaxIDTaken
			}
		}
		d.customers[customer.ID] = customer
		return nil
	})
}

func (r *customerRepository) Get(_ context.Context, id string) (domain.Customer, error) {
	var customer domain.Customer
	err := r.s.view(func(d *dataset) error {
		stored, ok := d.customers[id]
		if !ok {
			return domain.ErrCustomerNotFound
		}
		customer = stored
		return nil
	})
	return customer, err
}

func (r *customerRepository) GetByEmail(_ context.Context, email string) (domain.Customer, error) {
	var customer domain.Customer
	err := r.s.view(func(d *dataset) error {
		for _, stored := range d.customers {
			if stored.Email == email {
				customer = stored
				return nil
			}
		}
		return domain.ErrCustomerNotFound
	})
	return customer, err
}

func (r *customerRepository) List(_ context.Context) ([]domain.Customer, error) {
	var result []domain.Customer
	err := r.s.view(func(d *dataset) error {
		result = make([]domain.Customer, 0, len(d.customers))
		for _, customer := range d.customers {
			result = append(result, customer)
		}
		sort.Slice(result, func(i, j int) bool {
			return result[i].Name < result[j].Name
		})
		return nil
	})
	return result, err
}

func (r *customerRepository) Update(_ context.Context, customer domain.Customer) error {
	return r.s.mutate(func(d *dataset) error {
		if _, ok := d.customers[customer.ID]; !ok {
			return domain.ErrCustomerNotFound
		}
		for id, existing := range d.customers {
			if id == customer.ID {
				continue
			}
			if existing.Email == customer.Email {
				return domain.ErrEmailTaken
			}
			if existing.TaxID == customer.TaxID {
				return domain.ErrTaxIDTaken
			}
		}
		d.customers[customer.ID] = customer
		return nil
	})
}

func (r *customerRepository) Delete(_ context.Context, id string) error {
	return r.s.mutate(func(d *dataset) error {
		if _, ok := d.customers[id]; !ok {
			return domain.ErrCustomerNotFound
		}
		delete(d.customers, id)
		return nil
	})
}

var _ domain.CustomerRepository = (*customerRepository)(nil)
