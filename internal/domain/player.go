package domain

import (
	"fmt"
	"strings"

	"github.com/emberlit/guessparty/internal/infrastructure/profanity"
	"github.com/emberlit/guessparty/internal/infrastructure/validate"
	"github.com/google/uuid"
)

// Player is a roster member of exactly one session. The IsMaster flag is
// session-scoped: it marks the single member allowed to start the next round.
type Player struct {
	ID       string `bson:"id" json:"id"`
	Username string `bson:"username" json:"username"`
	Score    int    `bson:"score" json:"score"`
	IsMaster bool   `bson:"is_master" json:"isMaster"`
}

func NewPlayer(rawName string) (*Player, error) {
	validateUsername := validate.Compose(
		validate.Required(),
		validate.MinLength(2),
		validate.MaxLength(32),
		validate.NoSpaces(),
		// Allow letters, numbers, underscore, hyphen
		validate.Matches(`^[a-zA-Z0-9][a-zA-Z0-9_-]*[a-zA-Z0-9]$|^[a-zA-Z0-9]$`,
			"username can only contain letters, numbers, underscores, and hyphens (cannot start/end with _ or -)"),
	)

	if err := validateUsername(rawName); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	name := strings.TrimSpace(rawName)
	name = strings.ToLower(name)

	if profanity.NewFilter().ContainsProfanity(name) {
		return nil, ErrInvalidInput
	}

	return &Player{
		ID:       uuid.NewString(),
		Username: name,
	}, nil
}
