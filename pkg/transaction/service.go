package transaction

import (
	"context"

	"github.com/gestfin/gestfin/internal/database"
	"github.com/gestfin/gestfin/internal/failure"
	"github.com/gestfin/gestfin/internal/patch"
	"github.com/gestfin/gestfin/internal/utils"
)

var (
	ErrInvalidType   = failure.Rule("transaction type must be income, expense or transfer")
	ErrInvalidStatus = failure.Rule("transaction status must be valid, pending or cancelled")
	ErrMissingField  = failure.Rule("account, user, amount, date and type are required")
)

type Service interface {
	Create(ctx context.Context, transaction Transaction) (Transaction, error)
	GetById(ctx context.Context, id int) (*Transaction, error)
	ListByAccount(ctx context.Context, accountId int, filter Filter) ([]Transaction, error)
	ListByUser(ctx context.Context, userId int, filter Filter) ([]Transaction, error)
	Update(ctx context.Context, id int, p Patch) (*Transaction, error)
	Delete(ctx context.Context, id int) (bool, error)
}

type ServiceImpl struct {
	repo  Repository
	clock utils.Clock
}

func NewService(repo Repository, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, clock: clock}
}

func (s *ServiceImpl) Create(ctx context.Context, transaction Transaction) (Transaction, error) {
	if transaction.Status == "" {
		transaction.Status = Valid
	}
	if err := validate(transaction.Type, transaction.Status); err != nil {
		return Transaction{}, err
	}
	transaction.Date = database.Day(transaction.Date)
	transaction.CreatedAt = database.Timestamp(s.clock.Now())

	id, err := s.repo.Create(ctx, transaction)
	if err != nil {
		return Transaction{}, failure.Store("create transaction", err)
	}
	transaction.Id = id
	return transaction, nil
}

func (s *ServiceImpl) GetById(ctx context.Context, id int) (*Transaction, error) {
	transaction, err := s.repo.GetById(ctx, id)
	return transaction, failure.Store("get transaction", err)
}

func (s *ServiceImpl) ListByAccount(ctx context.Context, accountId int, filter Filter) ([]Transaction, error) {
	transactions, err := s.repo.ListByAccount(ctx, accountId, filter)
	return transactions, failure.Store("list transactions", err)
}

func (s *ServiceImpl) ListByUser(ctx context.Context, userId int, filter Filter) ([]Transaction, error) {
	transactions, err := s.repo.ListByUser(ctx, userId, filter)
	return transactions, failure.Store("list transactions", err)
}

func (s *ServiceImpl) Update(ctx context.Context, id int, p Patch) (*Transaction, error) {
	if p.AccountId.IsNull() || p.Amount.IsNull() || p.Date.IsNull() || p.Type.IsNull() || p.Status.IsNull() {
		return nil, ErrMissingField
	}
	if t, ok := p.Type.Get(); ok && !t.Valid() {
		return nil, ErrInvalidType
	}
	if st, ok := p.Status.Get(); ok && !st.Valid() {
		return nil, ErrInvalidStatus
	}
	if date, ok := p.Date.Get(); ok {
		p.Date = patch.Set(database.Day(date))
	}
	if len(p.Assignments()) == 0 {
		return s.GetById(ctx, id)
	}
	found, err := s.repo.Update(ctx, id, p)
	if err != nil {
		return nil, failure.Store("update transaction", err)
	}
	if !found {
		return nil, nil
	}
	return s.GetById(ctx, id)
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) (bool, error) {
	ok, err := s.repo.Delete(ctx, id)
	return ok, failure.Store("delete transaction", err)
}

func validate(t Type, status Status) error {
	if !t.Valid() {
		return ErrInvalidType
	}
	if !status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}
