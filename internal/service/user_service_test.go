package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/classwork-api/internal/models"
	"github.com/noah-isme/classwork-api/internal/repository"
	appErrors "github.com/noah-isme/classwork-api/pkg/errors"
)

type userRepoMock struct {
	users     map[string]*models.User
	createErr error
}

func newUserRepoMock() *userRepoMock {
	return &userRepoMock{users: make(map[string]*models.User)}
}

func (m *userRepoMock) FindByID(ctx context.Context, id string) (*models.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *userRepoMock) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := m.users[email]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func (m *userRepoMock) Create(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = "user-" + user.Email
	m.users[user.Email] = user
	return nil
}

func newTestUserService(repo *userRepoMock) *UserService {
	svc := NewUserService(repo, nil, nil)
	svc.cost = bcrypt.MinCost
	return svc
}

func TestUserServiceCreate(t *testing.T) {
	repo := newUserRepoMock()
	svc := newTestUserService(repo)

	user, err := svc.Create(context.Background(), models.CreateUserRequest{
		Email:    " Sari@School.Test ",
		Password: "password123",
		FullName: "Bu Sari",
		Role:     "Teacher",
	})
	require.NoError(t, err)
	assert.Equal(t, "sari@school.test", user.Email)
	assert.Equal(t, models.RoleTeacher, user.Role)
	assert.True(t, user.Active)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))

	fetched, err := svc.Get(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, fetched.Email)

	_, err = svc.Create(context.Background(), models.CreateUserRequest{
		Email: "SARI@school.test", Password: "password123", FullName: "Copy", Role: models.RoleTeacher,
	})
	requireAppError(t, err, appErrors.ErrDuplicate)
}

func TestUserServiceCreateValidation(t *testing.T) {
	svc := newTestUserService(newUserRepoMock())

	cases := map[string]models.CreateUserRequest{
		"bad email":      {Email: "nope", Password: "password123", FullName: "A", Role: models.RoleStudent},
		"short password": {Email: "a@b.test", Password: "short", FullName: "A", Role: models.RoleStudent},
		"unknown role":   {Email: "a@b.test", Password: "password123", FullName: "A", Role: "admin"},
		"missing name":   {Email: "a@b.test", Password: "password123", Role: models.RoleStudent},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), req)
			requireAppError(t, err, appErrors.ErrValidation)
		})
	}
}

func TestUserServiceCreateRepositoryErrors(t *testing.T) {
	repo := newUserRepoMock()
	svc := newTestUserService(repo)
	req := models.CreateUserRequest{Email: "a@b.test", Password: "password123", FullName: "A", Role: models.RoleStudent}

	repo.createErr = repository.ErrUniqueViolation
	_, err := svc.Create(context.Background(), req)
	requireAppError(t, err, appErrors.ErrDuplicate)

	repo.createErr = errors.New("disk full")
	_, err = svc.Create(context.Background(), req)
	requireAppError(t, err, appErrors.ErrInternal)

	_, err = svc.Get(context.Background(), "missing")
	requireAppError(t, err, appErrors.ErrNotFound)
}
