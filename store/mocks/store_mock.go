package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mermadic/mermadic/models"
)

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) CreateUser(ctx context.Context, username, email, passwordHash string) (models.User, error) {
	args := m.Called(ctx, username, email, passwordHash)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserStore) CreateGoogleUser(ctx context.Context, username, email, googleID, profilePicture string) (models.User, error) {
	args := m.Called(ctx, username, email, googleID, profilePicture)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserStore) GetUserByID(ctx context.Context, id int64) (models.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserStore) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserStore) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserStore) GetUserByGoogleID(ctx context.Context, googleID string) (models.User, error) {
	args := m.Called(ctx, googleID)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserStore) LinkGoogleAccount(ctx context.Context, userID int64, googleID, profilePicture string) (models.User, error) {
	args := m.Called(ctx, userID, googleID, profilePicture)
	return args.Get(0).(models.User), args.Error(1)
}

type MockChartStore struct {
	mock.Mock
}

func (m *MockChartStore) CreateChart(ctx context.Context, userID int64, title, content string, public bool) (models.Chart, error) {
	args := m.Called(ctx, userID, title, content, public)
	return args.Get(0).(models.Chart), args.Error(1)
}

func (m *MockChartStore) GetChartByID(ctx context.Context, id int64) (models.Chart, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Chart), args.Error(1)
}

func (m *MockChartStore) GetChartByShareID(ctx context.Context, shareID string) (models.Chart, error) {
	args := m.Called(ctx, shareID)
	return args.Get(0).(models.Chart), args.Error(1)
}

func (m *MockChartStore) GetChartsByUser(ctx context.Context, userID int64) ([]models.Chart, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Chart), args.Error(1)
}

func (m *MockChartStore) UpdateChart(ctx context.Context, id int64, title, content string, public bool) (int64, error) {
	args := m.Called(ctx, id, title, content, public)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockChartStore) DeleteChart(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}
