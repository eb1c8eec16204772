package server

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mellon2025/sinjin/internal/db"
)

const (
	maxUsernameLength = 32
	minUsernameLength = 3
	minPasswordLength = 6
	maxPasswordLength = 128
	maxTeamNameLength = 64
	maxCategoryLength = 64
	maxQuestionLength = 1000
	maxLogoURLLength  = 512
	maxInviteCodeLen  = 32
)

// validationError marks errors that map to a 400 response even when
// raised inside a store update closure.
type validationError struct {
	message string
}

func (e validationError) Error() string { return e.message }

func errValidation(message string) error {
	return validationError{message: message}
}

func asValidation(err error, target *validationError) bool {
	return errors.As(err, target)
}

func validateUsername(username string) (string, error) {
	trimmed := strings.TrimSpace(username)
	if trimmed == "" {
		return "", errors.New("username is required")
	}
	if utf8.RuneCountInString(trimmed) < minUsernameLength {
		return "", fmt.Errorf("username must be at least %d characters", minUsernameLength)
	}
	if utf8.RuneCountInString(trimmed) > maxUsernameLength {
		return "", fmt.Errorf("username must be %d characters or fewer", maxUsernameLength)
	}
	if strings.ContainsAny(trimmed, " \t\n") {
		return "", errors.New("username must not contain whitespace")
	}
	return trimmed, nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return fmt.Errorf("password must be %d characters or fewer", maxPasswordLength)
	}
	return nil
}

func validateTeamName(name string) (string, error) {
	return validateText("team name", name, maxTeamNameLength)
}

func validateCategoryName(name string) (string, error) {
	return validateText("category name", name, maxCategoryLength)
}

func validateQuestionContent(content string) (string, error) {
	return validateText("question content", content, maxQuestionLength)
}

func validateTeamType(teamType string) (string, error) {
	switch teamType {
	case "":
		return db.TeamTypeOpen, nil
	case db.TeamTypeOpen, db.TeamTypeInviteOnly:
		return teamType, nil
	default:
		return "", fmt.Errorf("unknown team type %q", teamType)
	}
}

func validateColor(color string) (string, error) {
	if color == "" {
		return "#000000", nil
	}
	if !strings.HasPrefix(color, "#") || (len(color) != 4 && len(color) != 7) {
		return "", errors.New("color must be a hex value like #1a2b3c")
	}
	for _, r := range color[1:] {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return "", errors.New("color must be a hex value like #1a2b3c")
		}
	}
	return color, nil
}

func validateText(label, text string, maxLen int) (string, error) {
	trimmed := normalizeText(text)
	if trimmed == "" {
		return "", fmt.Errorf("%s is required", label)
	}
	if utf8.RuneCountInString(trimmed) > maxLen {
		return "", fmt.Errorf("%s must be %d characters or fewer", label, maxLen)
	}
	return trimmed, nil
}

func normalizeText(text string) string {
	fields := strings.Fields(strings.TrimSpace(text))
	return strings.Join(fields, " ")
}
