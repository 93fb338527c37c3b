package bill

import (
	"context"

	"github.com/gestfin/gestfin/internal/database"
	"github.com/gestfin/gestfin/internal/failure"
	"github.com/gestfin/gestfin/internal/patch"
	"github.com/gestfin/gestfin/internal/utils"
	log "github.com/sirupsen/logrus"
)

var (
	ErrInvalidAmount    = failure.Rule("bill amount cannot be negative")
	ErrInvalidFrequency = failure.Rule("bill frequency must be once, weekly, monthly, quarterly or yearly")
	ErrInvalidStatus    = failure.Rule("bill status must be paid, pending or overdue")
	ErrInvalidDays      = failure.Rule("number of days cannot be negative")
	ErrMissingField     = failure.Rule("amount, due date, frequency and status are required")
)

type Service interface {
	Create(ctx context.Context, bill Bill) (Bill, error)
	GetById(ctx context.Context, id int) (*Bill, error)
	ListByFamily(ctx context.Context, familyId int, filter Filter) ([]Bill, error)
	// ListUpcoming lists unpaid bills due from today to days ahead.
	ListUpcoming(ctx context.Context, familyId int, days int) ([]Bill, error)
	Update(ctx context.Context, id int, p Patch) (*Bill, error)
	Delete(ctx context.Context, id int) (bool, error)
	CheckOverdue(ctx context.Context) (int, error)
	MarkPaid(ctx context.Context, id int) (*Payment, error)
}

type ServiceImpl struct {
	repo  Repository
	clock utils.Clock
}

func NewService(repo Repository, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, clock: clock}
}

func (s *ServiceImpl) Create(ctx context.Context, bill Bill) (Bill, error) {
	if bill.Frequency == "" {
		bill.Frequency = Once
	}
	if bill.Status == "" {
		bill.Status = Pending
	}
	if !bill.Frequency.Valid() {
		return Bill{}, ErrInvalidFrequency
	}
	if !bill.Status.Valid() {
		return Bill{}, ErrInvalidStatus
	}
	if bill.Amount.IsNegative() {
		return Bill{}, ErrInvalidAmount
	}
	bill.DueDate = database.Day(bill.DueDate)
	bill.CreatedAt = database.Timestamp(s.clock.Now())

	id, err := s.repo.Create(ctx, bill)
	if err != nil {
		return Bill{}, failure.Store("create bill", err)
	}
	bill.Id = id
	return bill, nil
}

func (s *ServiceImpl) GetById(ctx context.Context, id int) (*Bill, error) {
	bill, err := s.repo.GetById(ctx, id)
	return bill, failure.Store("get bill", err)
}

func (s *ServiceImpl) ListByFamily(ctx context.Context, familyId int, filter Filter) ([]Bill, error) {
	bills, err := s.repo.ListByFamily(ctx, familyId, filter)
	return bills, failure.Store("list bills", err)
}

func (s *ServiceImpl) ListUpcoming(ctx context.Context, familyId int, days int) ([]Bill, error) {
	if days < 0 {
		return nil, ErrInvalidDays
	}
	today := utils.Today(s.clock)
	bills, err := s.repo.ListDue(ctx, familyId, today, today.AddDate(0, 0, days))
	return bills, failure.Store("list upcoming bills", err)
}

func (s *ServiceImpl) Update(ctx context.Context, id int, p Patch) (*Bill, error) {
	if p.Amount.IsNull() || p.DueDate.IsNull() || p.Frequency.IsNull() || p.Status.IsNull() {
		return nil, ErrMissingField
	}
	if amount, ok := p.Amount.Get(); ok && amount.IsNegative() {
		return nil, ErrInvalidAmount
	}
	if frequency, ok := p.Frequency.Get(); ok && !frequency.Valid() {
		return nil, ErrInvalidFrequency
	}
	if status, ok := p.Status.Get(); ok && !status.Valid() {
		return nil, ErrInvalidStatus
	}
	if due, ok := p.DueDate.Get(); ok {
		p.DueDate = patch.Set(database.Day(due))
	}
	if len(p.Assignments()) == 0 {
		return s.GetById(ctx, id)
	}
	found, err := s.repo.Update(ctx, id, p)
	if err != nil {
		return nil, failure.Store("update bill", err)
	}
	if !found {
		return nil, nil
	}
	return s.GetById(ctx, id)
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) (bool, error) {
	ok, err := s.repo.Delete(ctx, id)
	return ok, failure.Store("delete bill", err)
}

func (s *ServiceImpl) CheckOverdue(ctx context.Context) (int, error) {
	count, err := s.repo.MarkOverdue(ctx, utils.Today(s.clock))
	if err != nil {
		return 0, failure.Store("check overdue bills", err)
	}
	if count > 0 {
		log.Infof("%d bill(s) are now overdue", count)
	}
	return count, nil
}

// MarkPaid returns nil when the bill does not exist. Paying an already paid
// bill creates no further occurrence.
func (s *ServiceImpl) MarkPaid(ctx context.Context, id int) (*Payment, error) {
	bill, err := s.GetById(ctx, id)
	if err != nil || bill == nil {
		return nil, err
	}

	var next *Bill
	if dueDate, recurring := bill.Frequency.Next(bill.DueDate); recurring && bill.Status != Paid {
		next = &Bill{
			FamilyId:    bill.FamilyId,
			CategoryId:  bill.CategoryId,
			Amount:      bill.Amount,
			DueDate:     dueDate,
			Frequency:   bill.Frequency,
			Status:      Pending,
			Description: bill.Description,
			CreatedAt:   database.Timestamp(s.clock.Now()),
		}
	}

	paid, nextId, err := s.repo.MarkPaid(ctx, id, next)
	if err != nil {
		return nil, failure.Store("pay bill", err)
	}
	if !paid {
		return nil, nil
	}
	bill.Status = Paid
	if next != nil {
		next.Id = nextId
	}
	return &Payment{Paid: *bill, Next: next}, nil
}
