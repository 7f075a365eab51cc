package services

import (
	"context"
	"fmt"

	"moneywise/internal/core"
	"moneywise/internal/store"
)

type CategoryService struct {
	repo store.CategoryRepository
}

func NewCategoryService(repo store.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) List(ctx context.Context, sess core.Session) ([]core.Category, error) {
	return s.repo.ListCategories(ctx, sess)
}

func (s *CategoryService) Add(ctx context.Context, sess core.Session, c core.Category) (core.Category, error) {
	c.IsDefault = false
	return s.repo.AddCategory(ctx, sess, c)
}

func (s *CategoryService) Update(ctx context.Context, sess core.Session, id string, p store.CategoryPatch) (core.Category, error) {
	return s.repo.UpdateCategory(ctx, sess, id, p)
}

// Delete refuses to remove catalog defaults.
func (s *CategoryService) Delete(ctx context.Context, sess core.Session, id string) error {
	categories, err := s.repo.ListCategories(ctx, sess)
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}
	for _, c := range categories {
		if c.ID == id && c.IsDefault {
			return core.ErrDefaultImmutable
		}
	}
	return s.repo.DeleteCategory(ctx, sess, id)
}

func (s *CategoryService) InitializeDefaults(ctx context.Context, sess core.Session) ([]core.Category, error) {
	return s.repo.InitializeDefaultCategories(ctx, sess)
}

// Names returns the user's category names, falling back to the default
// catalog when the registry is empty so pickers are never blank.
func (s *CategoryService) Names(ctx context.Context, sess core.Session) ([]string, error) {
	categories, err := s.repo.ListCategories(ctx, sess)
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return core.DefaultCategoryNames(), nil
	}
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.Name
	}
	return names, nil
}
