package user

import (
	"context"
	"sort"
)

type StubRepository struct {
	nextId int
	data   map[int]User
}

func NewStubRepository() *StubRepository {
	return &StubRepository{data: map[int]User{}}
}

func (s *StubRepository) Create(_ context.Context, user User) (int, error) {
	for _, existing := range s.data {
		if existing.Email == user.Email {
			return 0, ErrEmailTaken
		}
	}
	s.nextId++
	user.Id = s.nextId
	s.data[s.nextId] = user
	return s.nextId, nil
}

func (s *StubRepository) GetById(_ context.Context, id int) (*User, error) {
	user, ok := s.data[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (s *StubRepository) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, user := range s.data {
		if user.Email == email {
			return &user, nil
		}
	}
	return nil, nil
}

func (s *StubRepository) List(_ context.Context) ([]User, error) {
	users := make([]User, 0, len(s.data))
	for _, user := range s.data {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users, nil
}

func (s *StubRepository) Update(_ context.Context, id int, p Patch) (bool, error) {
	user, ok := s.data[id]
	if !ok {
		return false, nil
	}
	user.Name = p.Name.OrElse(user.Name)
	user.Email = p.Email.OrElse(user.Email)
	user.PasswordHash = p.passwordHash.OrElse(user.PasswordHash)
	if p.Photo.IsSet() {
		user.Photo = nil
		if photo, ok := p.Photo.Get(); ok {
			user.Photo = &photo
		}
	}
	s.data[id] = user
	return true, nil
}

func (s *StubRepository) Delete(_ context.Context, id int) (bool, error) {
	if _, ok := s.data[id]; !ok {
		return false, nil
	}
	delete(s.data, id)
	return true, nil
}

func (s *StubRepository) Cleanup() {
	s.nextId = 0
	s.data = map[int]User{}
}
