package repository

import (
	"context"
	"errors"
	"strings"

	"singularshift/internal/model"
)

const usersCollection = "users"

// ErrUserExists is returned when an email is already registered
var ErrUserExists = errors.New("user already exists")

// UserRepo handles registered accounts
type UserRepo interface {
	Create(ctx context.Context, user *model.User) (string, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

type userRepo struct {
	gw Gateway
}

func NewUserRepo(gw Gateway) UserRepo {
	return &userRepo{gw: gw}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) (string, error) {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	existing, err := r.GetByEmail(ctx, user.Email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", ErrUserExists
	}
	id, err := r.gw.Add(ctx, usersCollection, user)
	if errors.Is(err, ErrDuplicate) {
		return "", ErrUserExists
	}
	if err != nil {
		return "", err
	}
	user.ID = id
	return id, nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	found, err := r.gw.Get(ctx, usersCollection, id, &user)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var users []*model.User
	err := r.gw.Query(ctx, usersCollection, Query{
		Where: []Where{{Field: "email", Op: OpEq, Value: strings.ToLower(strings.TrimSpace(email))}},
		Limit: 1,
	}, &users)
	if err != nil || len(users) == 0 {
		return nil, err
	}
	return users[0], nil
}
