package repository

import (
	"context"

	"github.com/nexthome/backend/internal/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.

type UserRepo interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByAuthID(ctx context.Context, authID string) (*models.User, error)
	GetByConfirmationTokenHash(ctx context.Context, hash string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error
	DeleteUser(ctx context.Context, id string) error
	EmailExists(ctx context.Context, email string) (bool, error)
}

type ExperienceCardRepo interface {
	CreateExperienceCard(ctx context.Context, c *models.ExperienceCard) error
	GetExperienceCard(ctx context.Context, id string) (*models.ExperienceCard, error)
	ListExperienceCardsByUser(ctx context.Context, userID string) ([]models.ExperienceCard, error)
	GetExperienceCardsByIDs(ctx context.Context, ids []string) ([]models.ExperienceCard, error)
	UpdateExperienceCard(ctx context.Context, c *models.ExperienceCard) error
	DeleteExperienceCard(ctx context.Context, id string) error
}

type ChallengeCardRepo interface {
	CreateChallengeCard(ctx context.Context, c *models.ChallengeCard) error
	GetChallengeCard(ctx context.Context, id string) (*models.ChallengeCard, error)
	ListChallengeCardsByUser(ctx context.Context, userID string) ([]models.ChallengeCard, error)
	UpdateChallengeCard(ctx context.Context, c *models.ChallengeCard) error
	DeleteChallengeCard(ctx context.Context, id string) error
}
