package models

// Status classifies a user within the platform.
type Status int

const (
	StatusStudent  Status = 1
	StatusEmployer Status = 2
	StatusOther    Status = 3
)

type User struct {
	ID           string `json:"id" db:"id"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password_hash"`
	// AuthId is set instead of PasswordHash for externally authenticated accounts.
	AuthID             string  `json:"-" db:"auth_id"`
	FirstName          string  `json:"first_name" db:"first_name"`
	LastName           string  `json:"last_name" db:"last_name"`
	Country            string  `json:"country" db:"country"`
	City               string  `json:"city" db:"city"`
	Status             *Status `json:"status,omitempty" db:"status"`
	ImmigrationDate    *string `json:"immigration_date,omitempty" db:"immigration_date"`
	AvatarURL          string  `json:"avatar_url,omitempty" db:"avatar_url"`
	IsEmailConfirmed   bool    `json:"is_email_confirmed" db:"is_email_confirmed"`
	IsProfileCompleted bool    `json:"is_profile_completed" db:"is_profile_completed"`
	// ConfirmationTokenHash stores the SHA-256 of the raw confirmation token;
	// the raw token only ever leaves the system inside the confirmation link.
	ConfirmationTokenHash string `json:"-" db:"confirmation_token_hash"`
	ConfirmationExpiry    *int64 `json:"-" db:"confirmation_expiry"`
	Created               int64  `json:"created" db:"created"`
}

type ExperienceCard struct {
	ID          string `json:"id" db:"id"`
	UserID      string `json:"user_id" db:"user_id"`
	Title       string `json:"title" db:"title"`
	Description string `json:"description" db:"description"`
	Created     int64  `json:"created" db:"created"`
}

type ChallengeCard struct {
	ID          string `json:"id" db:"id"`
	UserID      string `json:"user_id" db:"user_id"`
	Title       string `json:"title" db:"title"`
	Description string `json:"description" db:"description"`
	Created     int64  `json:"created" db:"created"`
}

// Card is the capability shared by both card kinds.
type Card interface {
	CardID() string
	CardTitle() string
	CardDescription() string
}

func (c ExperienceCard) CardID() string          { return c.ID }
func (c ExperienceCard) CardTitle() string       { return c.Title }
func (c ExperienceCard) CardDescription() string { return c.Description }

func (c ChallengeCard) CardID() string          { return c.ID }
func (c ChallengeCard) CardTitle() string       { return c.Title }
func (c ChallengeCard) CardDescription() string { return c.Description }

// Country is a static reference entry loaded from the bundled CSV.
type Country struct {
	Name string `json:"name" csv:"name"`
	Code string `json:"code" csv:"code"`
}
