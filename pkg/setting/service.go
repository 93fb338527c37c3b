package setting

import (
	"context"
	"strings"

	"github.com/gestfin/gestfin/internal/database"
	"github.com/gestfin/gestfin/internal/failure"
	"github.com/gestfin/gestfin/internal/utils"
	log "github.com/sirupsen/logrus"
)

var (
	ErrKeyRequired  = failure.Rule("setting key is required")
	ErrMissingField = failure.Rule("key and value are required")
)

type Service interface {
	Set(ctx context.Context, userId int, key string, value string) (Setting, error)
	Get(ctx context.Context, userId int, key string) (*Setting, error)
	GetById(ctx context.Context, id int) (*Setting, error)
	ListByUser(ctx context.Context, userId int) ([]Setting, error)
	Update(ctx context.Context, id int, p Patch) (*Setting, error)
	Delete(ctx context.Context, id int) (bool, error)
}

type ServiceImpl struct {
	repo  Repository
	clock utils.Clock
}

func NewService(repo Repository, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, clock: clock}
}

func (s *ServiceImpl) Set(ctx context.Context, userId int, key string, value string) (Setting, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return Setting{}, ErrKeyRequired
	}
	setting := Setting{UserId: userId, Key: key, Value: value, ModifiedAt: database.Timestamp(s.clock.Now())}
	id, err := s.repo.Upsert(ctx, setting)
	if err != nil {
		return Setting{}, failure.Store("save setting", err)
	}
	setting.Id = id
	return setting, nil
}

func (s *ServiceImpl) Get(ctx context.Context, userId int, key string) (*Setting, error) {
	setting, err := s.repo.Get(ctx, userId, strings.TrimSpace(key))
	return setting, failure.Store("get setting", err)
}

func (s *ServiceImpl) GetById(ctx context.Context, id int) (*Setting, error) {
	setting, err := s.repo.GetById(ctx, id)
	return setting, failure.Store("get setting", err)
}

func (s *ServiceImpl) ListByUser(ctx context.Context, userId int) ([]Setting, error) {
	settings, err := s.repo.ListByUser(ctx, userId)
	return settings, failure.Store("list settings", err)
}

func (s *ServiceImpl) Update(ctx context.Context, id int, p Patch) (*Setting, error) {
	if p.Key.IsNull() || p.Value.IsNull() {
		return nil, ErrMissingField
	}
	if key, ok := p.Key.Get(); ok && strings.TrimSpace(key) == "" {
		return nil, ErrKeyRequired
	}
	found, err := s.repo.Update(ctx, id, p, database.Timestamp(s.clock.Now()))
	if err != nil {
		return nil, failure.Store("update setting", err)
	}
	if !found {
		log.Warnf("setting %d not found for update", id)
		return nil, nil
	}
	return s.GetById(ctx, id)
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) (bool, error) {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, failure.Store("delete setting", err)
	}
	if !ok {
		log.Warnf("setting %d not found for delete", id)
	}
	return ok, nil
}
