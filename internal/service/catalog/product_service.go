package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// ProductInput — входной контракт создания и полного обновления товара.
// Nil CategoryID означает товар без категории.
type ProductInput struct {
	Name        string
	Description string
	PriceMinor  int64
	Stock       int32
	CategoryID  *string
}

// ProductService управляет товарами каталога.
type ProductService struct {
	store  domain.Store
	logger *log.Entry
}

// NewProductService создаёт сервис товаров.
func NewProductService(store domain.Store, logger *log.Entry) *ProductService {
	if logger == nil {
		logger = log.New().WithField("component", "catalog")
	}
	return &ProductService{store: store, logger: logger}
}

// Create сохраняет новый товар. Указанная категория должна существовать.
func (s *ProductService) Create(ctx context.Context, input ProductInput) (domain.Product, error) {
	now := time.Now().UTC()
	product := domain.Product{
		ID:          uuid.NewString(),
		Name:        input.Name,
		Description: input.Description,
		PriceMinor:  input.PriceMinor,
		Stock:       input.Stock,
		CategoryID:  input.CategoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := validateProduct(&product); err != nil {
		return domain.Product{}, err
	}

	if input.CategoryID != nil {
		if _, err := s.store.Categories().Get(ctx, *input.CategoryID); err != nil {
			return domain.Product{}, err
		}
	}

	if err := s.store.Products().Create(ctx, product); err != nil {
		return domain.Product{}, err
	}
	s.logger.WithFields(log.Fields{
		"product_id":  product.ID,
		"name":        product.Name,
		"price_minor": product.PriceMinor,
		"stock":       product.Stock,
	}).Info("product created")

	return s.store.Products().Get(ctx, product.ID)
}

// Get возвращает товар с гидрированной категорией.
func (s *ProductService) Get(ctx context.Context, id string) (domain.Product, error) {
	return s.store.Products().Get(ctx, id)
}

// List возвращает товары по фильтру, отсортированные по имени.
func (s *ProductService) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	return s.store.Products().List(ctx, filter)
}

// Update полностью перезаписывает атрибуты товара. Прямое выставление
// остатка допускается только здесь: workflow заказов двигает остаток
// исключительно дельтами.
func (s *ProductService) Update(ctx context.Context, id string, input ProductInput) (domain.Product, error) {
	product, err := s.store.Products().Get(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	product.Name = input.Name
	product.Description = input.Description
	product.PriceMinor = input.PriceMinor
	product.Stock = input.Stock
	product.CategoryID = input.CategoryID
	product.UpdatedAt = time.Now().UTC()
	if err := validateProduct(&product); err != nil {
		return domain.Product{}, err
	}

	if input.CategoryID != nil {
		if _, err := s.store.Categories().Get(ctx, *input.CategoryID); err != nil {
			return domain.Product{}, err
		}
	}

	if err := s.store.Products().Update(ctx, product); err != nil {
		return domain.Product{}, err
	}
	return s.store.Products().Get(ctx, id)
}

// Delete удаляет товар. Пока на товар ссылается хотя бы одна позиция заказа,
// удаление отклоняется.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	return s.store.RunAtomic(ctx, func(tx domain.Store) error {
		if _, err := tx.Products().Get(ctx, id); err != nil {
			return err
		}
		count, err := tx.Orders().CountLinesByProduct(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrProductReferenced
		}
		return tx.Products().Delete(ctx, id)
	})
}

func validateProduct(product *domain.Product) error {
	errs := product.ValidateInvariants()
	if len(errs) == 0 {
		return nil
	}
	violations := make([]domain.FieldViolation, 0, len(errs))
	for _, err := range errs {
		field := "name"
		switch err {
		case domain.ErrPriceNegative:
			field = "price_minor"
		case domain.ErrStockNegative:
			field = "stock"
		}
		violations = append(violations, domain.FieldViolation{
			Field:   field,
			Message: err.Error(),
		})
	}
	return domain.NewValidationError(violations...)
}
