package service

import (
	"fmt"
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const (
	minUsernameLen  = 3
	maxUsernameLen  = 32
	minPasswordLen  = 8
	maxTitleLen     = 200
	maxContentBytes = 100 * 1024
)

func ValidateUsername(username string) error {
	if len(username) < minUsernameLen || len(username) > maxUsernameLen {
		return fmt.Errorf("%w: username must be %d-%d characters", ErrInvalidInput, minUsernameLen, maxUsernameLen)
	}
	if strings.TrimSpace(username) != username {
		return fmt.Errorf("%w: username must not have leading or trailing whitespace", ErrInvalidInput)
	}
	return nil
}

func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("%w: invalid email address", ErrInvalidInput)
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLen)
	}
	return nil
}

func ValidateChartTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if len(title) > maxTitleLen {
		return fmt.Errorf("%w: title must be at most %d characters", ErrInvalidInput, maxTitleLen)
	}
	return nil
}

func ValidateDiagramContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("%w: diagram content is required", ErrInvalidInput)
	}
	if len(content) > maxContentBytes {
		return fmt.Errorf("%w: diagram content must be at most %d bytes", ErrInvalidInput, maxContentBytes)
	}
	return nil
}
