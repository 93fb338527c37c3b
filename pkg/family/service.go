package family

import (
	"context"
	"strings"

	"github.com/gestfin/gestfin/internal/database"
	"github.com/gestfin/gestfin/internal/failure"
	"github.com/gestfin/gestfin/internal/utils"
)

var (
	ErrNameRequired = failure.Rule("family name is required")
	ErrInvalidRole  = failure.Rule("role must be admin or member")
)

type Service interface {
	Create(ctx context.Context, family Family) (Family, error)
	GetById(ctx context.Context, id int) (*Family, error)
	ListByUser(ctx context.Context, userId int) ([]Family, error)
	Update(ctx context.Context, id int, p Patch) (*Family, error)
	Delete(ctx context.Context, id int) (bool, error)
}

type ServiceImpl struct {
	repo  Repository
	clock utils.Clock
}

func NewService(repo Repository, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, clock: clock}
}

func (s *ServiceImpl) Create(ctx context.Context, family Family) (Family, error) {
	if strings.TrimSpace(family.Name) == "" {
		return Family{}, ErrNameRequired
	}
	if family.Role == "" {
		family.Role = RoleAdmin
	}
	if !family.Role.Valid() {
		return Family{}, ErrInvalidRole
	}
	family.CreatedAt = database.Timestamp(s.clock.Now())

	id, err := s.repo.Create(ctx, family)
	if err != nil {
		return Family{}, failure.Store("create family", err)
	}
	family.Id = id
	return family, nil
}

func (s *ServiceImpl) GetById(ctx context.Context, id int) (*Family, error) {
	family, err := s.repo.GetById(ctx, id)
	return family, failure.Store("get family", err)
}

func (s *ServiceImpl) ListByUser(ctx context.Context, userId int) ([]Family, error) {
	families, err := s.repo.ListByUser(ctx, userId)
	return families, failure.Store("list families", err)
}

func (s *ServiceImpl) Update(ctx context.Context, id int, p Patch) (*Family, error) {
	if p.Name.IsNull() || p.OwnerUserId.IsNull() || p.Role.IsNull() {
		return nil, ErrNameRequired
	}
	if role, ok := p.Role.Get(); ok && !role.Valid() {
		return nil, ErrInvalidRole
	}
	if len(p.Assignments()) == 0 {
		return s.GetById(ctx, id)
	}
	found, err := s.repo.Update(ctx, id, p)
	if err != nil {
		return nil, failure.Store("update family", err)
	}
	if !found {
		return nil, nil
	}
	return s.GetById(ctx, id)
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) (bool, error) {
	ok, err := s.repo.Delete(ctx, id)
	return ok, failure.Store("delete family", err)
}
