package mock

import (
	"context"

	"github.com/nexthome/backend/internal/models"
)

// Test helpers and mocks
type Mocks struct {
	UserRepo *UserRepo
	ExpRepo  *ExperienceCardRepo
	ChalRepo *ChallengeCardRepo
}

func NewMocks() *Mocks {
	return &Mocks{
		UserRepo: &UserRepo{Users: map[string]*models.User{}},
		ExpRepo:  &ExperienceCardRepo{Cards: map[string]*models.ExperienceCard{}},
		ChalRepo: &ChallengeCardRepo{Cards: map[string]*models.ChallengeCard{}},
	}
}

type UserRepo struct {
	Users     map[string]*models.User
	CreateErr error
	UpdateErr error
}

func (m *UserRepo) CreateUser(ctx context.Context, u *models.User) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	cp := *u
	m.Users[u.ID] = &cp
	return nil
}

func (m *UserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.Users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.Users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *UserRepo) GetByAuthID(ctx context.Context, authID string) (*models.User, error) {
	for _, u := range m.Users {
		if u.AuthID == authID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *UserRepo) GetByConfirmationTokenHash(ctx context.Context, hash string) (*models.User, error) {
	if hash == "" {
		return nil, nil
	}
	for _, u := range m.Users {
		if u.ConfirmationTokenHash == hash {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *UserRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(m.Users))
	for _, u := range m.Users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *UserRepo) UpdateUser(ctx context.Context, u *models.User) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	cp := *u
	m.Users[u.ID] = &cp
	return nil
}

func (m *UserRepo) DeleteUser(ctx context.Context, id string) error {
	delete(m.Users, id)
	return nil
}

func (m *UserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	u, _ := m.GetByEmail(ctx, email)
	return u != nil, nil
}

type ExperienceCardRepo struct {
	Cards     map[string]*models.ExperienceCard
	CreateErr error
	UpdateErr error
}

func (m *ExperienceCardRepo) CreateExperienceCard(ctx context.Context, c *models.ExperienceCard) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	cp := *c
	m.Cards[c.ID] = &cp
	return nil
}

func (m *ExperienceCardRepo) GetExperienceCard(ctx context.Context, id string) (*models.ExperienceCard, error) {
	if c, ok := m.Cards[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (m *ExperienceCardRepo) ListExperienceCardsByUser(ctx context.Context, userID string) ([]models.ExperienceCard, error) {
	var out []models.ExperienceCard
	for _, c := range m.Cards {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *ExperienceCardRepo) GetExperienceCardsByIDs(ctx context.Context, ids []string) ([]models.ExperienceCard, error) {
	var out []models.ExperienceCard
	for _, id := range ids {
		if c, ok := m.Cards[id]; ok {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *ExperienceCardRepo) UpdateExperienceCard(ctx context.Context, c *models.ExperienceCard) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	cp := *c
	m.Cards[c.ID] = &cp
	return nil
}

func (m *ExperienceCardRepo) DeleteExperienceCard(ctx context.Context, id string) error {
	delete(m.Cards, id)
	return nil
}

type ChallengeCardRepo struct {
	Cards     map[string]*models.ChallengeCard
	CreateErr error
	UpdateErr error
}

func (m *ChallengeCardRepo) CreateChallengeCard(ctx context.Context, c *models.ChallengeCard) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	cp := *c
	m.Cards[c.ID] = &cp
	return nil
}

func (m *ChallengeCardRepo) GetChallengeCard(ctx context.Context, id string) (*models.ChallengeCard, error) {
	if c, ok := m.Cards[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (m *ChallengeCardRepo) ListChallengeCardsByUser(ctx context.Context, userID string) ([]models.ChallengeCard, error) {
	var out []models.ChallengeCard
	for _, c := range m.Cards {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *ChallengeCardRepo) UpdateChallengeCard(ctx context.Context, c *models.ChallengeCard) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	cp := *c
	m.Cards[c.ID] = &cp
	return nil
}

func (m *ChallengeCardRepo) DeleteChallengeCard(ctx context.Context, id string) error {
	delete(m.Cards, id)
	return nil
}
