package services

import (
	"context"
	"fmt"
	"strings"

	apperrors "finflow/internal/errors"
	"finflow/internal/events"
	"finflow/internal/models"
)

// findCategory looks name up exactly. Callers must hold s.mu.
func (s *ledgerService) findCategory(name string) (models.Category, bool) {
	for _, c := range s.cats {
		if c.Name == name {
			return c, true
		}
	}
	return models.Category{}, false
}

// GetCategories returns every category in stored order.
func (s *ledgerService) GetCategories() []models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Category, len(s.cats))
	copy(out, s.cats)
	return out
}

// GetCategoriesByType returns the categories of one type.
func (s *ledgerService) GetCategoriesByType(categoryType models.CategoryType) ([]models.Category, error) {
	if !categoryType.IsValid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category type must be income or expense")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Category, 0)
	for _, c := range s.cats {
		if c.Type == categoryType {
			out = append(out, c)
		}
	}
	return out, nil
}

// GetUsedCategories returns the distinct category names referenced by
// transactions, in first-appearance order.
func (s *ledgerService) GetUsedCategories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, tx := range s.ledger {
		if _, ok := seen[tx.Category]; ok {
			continue
		}
		seen[tx.Category] = struct{}{}
		out = append(out, tx.Category)
	}
	return out
}

// AddCategory appends a new category. An empty color gets the default.
func (s *ledgerService) AddCategory(ctx context.Context, name string, categoryType models.CategoryType, color string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	if !categoryType.IsValid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category type must be income or expense")
	}
	if color == "" {
		color = models.DefaultCategoryColor
	}

	category := models.Category{Name: name, Type: categoryType, Color: color}

	err := func() error {
		s.mu.Lock()
		defer s.mu.Unlock()

		if _, exists := s.findCategory(name); exists {
			return apperrors.WithMessage(apperrors.ErrDuplicateCategory,
				fmt.Sprintf("category %q already exists", name))
		}

		next := make([]models.Category, 0, len(s.cats)+1)
		next = append(next, s.cats...)
		next = append(next, category)
		if err := s.categories.SaveCategories(ctx, next); err != nil {
			return err
		}
		s.cats = next
		return nil
	}()
	if err != nil {
		return nil, err
	}

	s.log.Infow("category added", "name", name, "type", categoryType)
	s.publish(ctx, events.NewCategoryEvent(events.TypeCategoryCreated, category, s.now()))
	return &category, nil
}

// RemoveCategory deletes a category no transaction refers to.
func (s *ledgerService) RemoveCategory(ctx context.Context, name string) error {
	removed, err := func() (models.Category, error) {
		s.mu.Lock()
		defer s.mu.Unlock()

		idx := -1
		for i, c := range s.cats {
			if c.Name == name {
				idx = i
				break
			}
		}
		if idx < 0 {
			return models.Category{}, apperrors.ErrCategoryNotFound
		}

		inUse := 0
		for _, tx := range s.ledger {
			if tx.Category == name {
				inUse++
			}
		}
		if inUse > 0 {
			return models.Category{}, apperrors.WithMessage(apperrors.ErrCategoryInUse,
				fmt.Sprintf("category %q is used by %d transaction(s)", name, inUse))
		}

		next := make([]models.Category, 0, len(s.cats)-1)
		next = append(next, s.cats[:idx]...)
		next = append(next, s.cats[idx+1:]...)
		if err := s.categories.SaveCategories(ctx, next); err != nil {
			return models.Category{}, err
		}
		removed := s.cats[idx]
		s.cats = next
		return removed, nil
	}()
	if err != nil {
		return err
	}

	s.log.Infow("category removed", "name", name)
	s.publish(ctx, events.NewCategoryEvent(events.TypeCategoryDeleted, removed, s.now()))
	return nil
}
