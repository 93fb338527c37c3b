package category

import (
	"context"
	"strings"

	"github.com/gestfin/gestfin/internal/failure"
)

var (
	ErrNameRequired = failure.Rule("category name is required")
	ErrInvalidType  = failure.Rule("category type must be income, expense or transfer")
)

type Service interface {
	Create(ctx context.Context, category Category) (Category, error)
	GetById(ctx context.Context, id int) (*Category, error)
	ListByFamily(ctx context.Context, familyId int, filter Filter) ([]Category, error)
	Update(ctx context.Context, id int, p Patch) (*Category, error)
	Delete(ctx context.Context, id int) (bool, error)
}

type ServiceImpl struct {
	repo Repository
}

func NewService(repo Repository) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) Create(ctx context.Context, category Category) (Category, error) {
	if strings.TrimSpace(category.Name) == "" {
		return Category{}, ErrNameRequired
	}
	if !category.Type.Valid() {
		return Category{}, ErrInvalidType
	}
	id, err := s.repo.Create(ctx, category)
	if err != nil {
		return Category{}, failure.Store("create category", err)
	}
	category.Id = id
	return category, nil
}

func (s *ServiceImpl) GetById(ctx context.Context, id int) (*Category, error) {
	category, err := s.repo.GetById(ctx, id)
	return category, failure.Store("get category", err)
}

func (s *ServiceImpl) ListByFamily(ctx context.Context, familyId int, filter Filter) ([]Category, error) {
	categories, err := s.repo.ListByFamily(ctx, familyId, filter)
	return categories, failure.Store("list categories", err)
}

func (s *ServiceImpl) Update(ctx context.Context, id int, p Patch) (*Category, error) {
	if p.Name.IsNull() || p.Type.IsNull() {
		return nil, ErrNameRequired
	}
	if t, ok := p.Type.Get(); ok && !t.Valid() {
		return nil, ErrInvalidType
	}
	if len(p.Assignments()) == 0 {
		return s.GetById(ctx, id)
	}
	found, err := s.repo.Update(ctx, id, p)
	if err != nil {
		return nil, failure.Store("update category", err)
	}
	if !found {
		return nil, nil
	}
	return s.GetById(ctx, id)
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) (bool, error) {
	ok, err := s.repo.Delete(ctx, id)
	return ok, failure.Store("delete category", err)
}
