package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// CategoryInput — входной контракт создания и полного обновления категории.
type CategoryInput struct {
	Name        string
	Description string
}

// CategoryService управляет категориями каталога.
type CategoryService struct {
	store  domain.Store
	logger *log.Entry
}

// NewCategoryService создаёт сервис категорий.
func NewCategoryService(store domain.Store, logger *log.Entry) *CategoryService {
	if logger == nil {
		logger = log.New().WithField("component", "catalog")
	}
	return &CategoryService{store: store, logger: logger}
}

// Create сохраняет новую категорию. Имя обязательно и уникально.
func (s *CategoryService) Create(ctx context.Context, input CategoryInput) (domain.Category, error) {
	now := time.Now().UTC()
	category := domain.Category{
		ID:          uuid.NewString(),
		Name:        input.Name,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := validateCategory(&category); err != nil {
		return domain.Category{}, err
	}

	if err := s.store.Categories().Create(ctx, category); err != nil {
		return domain.Category{}, err
	}
	s.logger.WithFields(log.Fields{
		"category_id": category.ID,
		"name":        category.Name,
	}).Info("category created")
	return category, nil
}

// Get возвращает категорию по идентификатору.
func (s *CategoryService) Get(ctx context.Context, id string) (domain.Category, error) {
	return s.store.Categories().Get(ctx, id)
}

// List возвращает все категории, отсортированные по имени.
func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	return s.store.Categories().List(ctx)
}

// Update полностью перезаписывает атрибуты категории.
func (s *CategoryService) Update(ctx context.Context, id string, input CategoryInput) (domain.Category, error) {
	category, err := s.store.Categories().Get(ctx, id)
	if err != nil {
		return domain.Category{}, err
	}

	category.Name = input.Name
	category.Description = input.Description
	category.UpdatedAt = time.Now().UTC()
	if err := validateCategory(&category); err != nil {
		return domain.Category{}, err
	}

	if err := s.store.Categories().Update(ctx, category); err != nil {
		return domain.Category{}, err
	}
	return category, nil
}

// Delete удаляет категорию. Пока на категорию ссылается хотя бы один товар,
// удаление отклоняется.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	return s.store.RunAtomic(ctx, func(tx domain.Store) error {
		if _, err := tx.Categories().Get(ctx, id); err != nil {
			return err
		}
		count, err := tx.Products().CountByCategory(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrCategoryHasProducts
		}
		return tx.Categories().Delete(ctx, id)
	})
}

func validateCategory(category *domain.Category) error {
	errs := category.ValidateInvariants()
	if len(errs) == 0 {
		return nil
	}
	violations := make([]domain.FieldViolation, 0, len(errs))
	for _, err := range errs {
		violations = append(violations, domain.FieldViolation{
			Field:   "name",
			Message: err.Error(),
		})
	}
	return domain.NewValidationError(violations...)
}
