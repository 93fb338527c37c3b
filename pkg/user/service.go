package user

import (
	"context"
	"strings"

	"github.com/gestfin/gestfin/internal/database"
	"github.com/gestfin/gestfin/internal/failure"
	"github.com/gestfin/gestfin/internal/patch"
	"github.com/gestfin/gestfin/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

var ErrUserDataInvalid = failure.Rule("name, email and password are required")

type Service interface {
	Create(ctx context.Context, newUser NewUser) (User, error)
	GetById(ctx context.Context, id int) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetCurrentUser(ctx context.Context) (*User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, id int, p Patch) (*User, error)
	Delete(ctx context.Context, id int) (bool, error)
	// CheckPassword reports whether password matches the stored hash.
	CheckPassword(user User, password string) bool
}

type ServiceImpl struct {
	repo       Repository
	clock      utils.Clock
	bcryptCost int
}

func NewService(repo Repository, clock utils.Clock, bcryptCost int) *ServiceImpl {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &ServiceImpl{repo: repo, clock: clock, bcryptCost: bcryptCost}
}

func (s *ServiceImpl) Create(ctx context.Context, newUser NewUser) (User, error) {
	email := normalizeEmail(newUser.Email)
	if strings.TrimSpace(newUser.Name) == "" || email == "" || newUser.Password == "" {
		return User{}, ErrUserDataInvalid
	}
	hash, err := s.hash(newUser.Password)
	if err != nil {
		return User{}, failure.Store("hash password", err)
	}

	user := User{
		Name:         newUser.Name,
		Email:        email,
		PasswordHash: hash,
		Photo:        newUser.Photo,
		CreatedAt:    database.Timestamp(s.clock.Now()),
	}
	id, err := s.repo.Create(ctx, user)
	if err != nil {
		return User{}, failure.Store("create user", err)
	}
	user.Id = id
	return user, nil
}

func (s *ServiceImpl) GetById(ctx context.Context, id int) (*User, error) {
	user, err := s.repo.GetById(ctx, id)
	return user, failure.Store("get user", err)
}

func (s *ServiceImpl) GetByEmail(ctx context.Context, email string) (*User, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	return user, failure.Store("get user", err)
}

func (s *ServiceImpl) GetCurrentUser(ctx context.Context) (*User, error) {
	userId, err := CurrentId(ctx)
	if err != nil {
		return nil, nil
	}
	return s.GetById(ctx, userId)
}

func (s *ServiceImpl) List(ctx context.Context) ([]User, error) {
	users, err := s.repo.List(ctx)
	return users, failure.Store("list users", err)
}

func (s *ServiceImpl) Update(ctx context.Context, id int, p Patch) (*User, error) {
	if p.Name.IsNull() || p.Email.IsNull() || p.Password.IsNull() {
		return nil, ErrUserDataInvalid
	}
	if email, ok := p.Email.Get(); ok {
		p.Email = patch.Set(normalizeEmail(email))
	}
	if password, ok := p.Password.Get(); ok {
		hash, err := s.hash(password)
		if err != nil {
			return nil, failure.Store("hash password", err)
		}
		p.passwordHash = patch.Set(hash)
	}
	if len(p.Assignments()) == 0 {
		return s.GetById(ctx, id)
	}

	found, err := s.repo.Update(ctx, id, p)
	if err != nil {
		return nil, failure.Store("update user", err)
	}
	if !found {
		return nil, nil
	}
	return s.GetById(ctx, id)
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) (bool, error) {
	ok, err := s.repo.Delete(ctx, id)
	return ok, failure.Store("delete user", err)
}

func (s *ServiceImpl) CheckPassword(user User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

func (s *ServiceImpl) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
