package store

import (
	"context"
	"errors"

	"github.com/mermadic/mermadic/models"
)

type UserStore interface {
	CreateUser(ctx context.Context, username, email, passwordHash string) (models.User, error)
	CreateGoogleUser(ctx context.Context, username, email, googleID, profilePicture string) (models.User, error)
	GetUserByID(ctx context.Context, id int64) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	GetUserByGoogleID(ctx context.Context, googleID string) (models.User, error)
	LinkGoogleAccount(ctx context.Context, userID int64, googleID, profilePicture string) (models.User, error)
}

type ChartStore interface {
	CreateChart(ctx context.Context, userID int64, title, content string, public bool) (models.Chart, error)
	GetChartByID(ctx context.Context, id int64) (models.Chart, error)
	GetChartByShareID(ctx context.Context, shareID string) (models.Chart, error)
	GetChartsByUser(ctx context.Context, userID int64) ([]models.Chart, error)
	UpdateChart(ctx context.Context, id int64, title, content string, public bool) (int64, error)
	DeleteChart(ctx context.Context, id int64) (int64, error)
}

// Custom error types for clarity
var (
	ErrNotFound  = errors.New("record does not exist")
	ErrDuplicate = errors.New("record already exists")
)
