package account

import (
	"context"
	"strings"

	"github.com/gestfin/gestfin/internal/database"
	"github.com/gestfin/gestfin/internal/failure"
	"github.com/gestfin/gestfin/internal/utils"
)

var (
	ErrNameRequired = failure.Rule("account name is required")
	ErrInvalidType  = failure.Rule("unknown account type")
)

type Service interface {
	Create(ctx context.Context, account Account) (Account, error)
	GetById(ctx context.Context, id int) (*Account, error)
	ListByFamily(ctx context.Context, familyId int, filter Filter) ([]Account, error)
	Update(ctx context.Context, id int, p Patch) (*Account, error)
	Delete(ctx context.Context, id int) (bool, error)
	TotalBalance(ctx context.Context, familyId int) ([]Balance, error)
}

type ServiceImpl struct {
	repo  Repository
	clock utils.Clock
}

func NewService(repo Repository, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, clock: clock}
}

func (s *ServiceImpl) Create(ctx context.Context, account Account) (Account, error) {
	if strings.TrimSpace(account.Name) == "" {
		return Account{}, ErrNameRequired
	}
	if !account.Type.Valid() {
		return Account{}, ErrInvalidType
	}
	if account.Currency == "" {
		account.Currency = DefaultCurrency
	}
	account.CreatedAt = database.Timestamp(s.clock.Now())

	id, err := s.repo.Create(ctx, account)
	if err != nil {
		return Account{}, failure.Store("create account", err)
	}
	account.Id = id
	return account, nil
}

func (s *ServiceImpl) GetById(ctx context.Context, id int) (*Account, error) {
	account, err := s.repo.GetById(ctx, id)
	return account, failure.Store("get account", err)
}

func (s *ServiceImpl) ListByFamily(ctx context.Context, familyId int, filter Filter) ([]Account, error) {
	accounts, err := s.repo.ListByFamily(ctx, familyId, filter)
	return accounts, failure.Store("list accounts", err)
}

func (s *ServiceImpl) Update(ctx context.Context, id int, p Patch) (*Account, error) {
	if p.Name.IsNull() || p.Balance.IsNull() || p.Type.IsNull() || p.Currency.IsNull() {
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
		return nil, failure.Store("update account", err)
	}
	if !found {
		return nil, nil
	}
	return s.GetById(ctx, id)
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) (bool, error) {
	ok, err := s.repo.Delete(ctx, id)
	return ok, failure.Store("delete account", err)
}

func (s *ServiceImpl) TotalBalance(ctx context.Context, familyId int) ([]Balance, error) {
	balances, err := s.repo.TotalBalance(ctx, familyId)
	return balances, failure.Store("sum account balances", err)
}
