package memory

import (
	"context"
	"sort"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

type categoryRepository struct {
	s session
}

// Create сохраняет категорию, проверяя уникальность имени.
func (r *categoryRepository) Create(_ context.Context, category domain.Category) error {
	return r.s.mutate(func(d *dataset) error {
		for _, existing := range d.categories {
			if existing.Name == category.Name {
				return domain.ErrCategoryNameTaken
			}
		}
		d.categories[category.ID] = category
		return nil
	})
}

// Get возвращает категорию или ErrCategoryNotFound.
func (r *categoryRepository) Get(_ context.Context, id string) (domain.Category, error) {
	var category domain.Category
	err := r.s.view(func(d *dataset) error {
		stored, ok := d.categories[id]
		if !ok {
			return domain.ErrCategoryNotFound
		}
		category = stored
		return nil
	})
	return category, err
}

// List возвращает категории, отсортированные по имени.
func (r *categoryRepository) List(_ context.Context) ([]domain.Category, error) {
	var result []domain.Category
	err := r.s.view(func(d *dataset) error {
		result = make([]domain.Category, 0, len(d.categories))
		for _, category := range d.categories {
			result = append(result, category)
		}
		sort.Slice(result, func(i, j int) bool {
			return result[i].Name < result[j].Name
		})
		return nil
	})
	return result, err
}

// Update перезаписывает категорию, сохраняя уникальность имени.
func (r *categoryRepository) Update(_ context.Context, category domain.Category) error {
	return r.s.mutate(func(d *dataset) error {
		if _, ok := d.categories[category.ID]; !ok {
			return domain.ErrCategoryNotFound
		}
		for id, existing := range d.categories {
			if id != category.ID && existing.Name == category.Name {
				return domain.ErrCategoryNameTaken
			}
		}
		d.categories[category.ID] = category
		return nil
	})
}

// Delete удаляет категорию; ссылочные ограничения проверяет сервисный слой.
func (r *categoryRepository) Delete(_ context.Context, id string) error {
	return r.s.mutate(func(d *dataset) error {
		if _, ok := d.categories[id]; !ok {
			return domain.ErrCategoryNotFound
		}
		delete(d.categories, id)
		return nil
	})
}

var _ domain.CategoryRepository = (*categoryRepository)(nil)
