package service

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode"

	"github.com/404talk/webapp/pkg/authapi"
)

const (
	maxEmailLength       = 256
	minPasswordLength    = 8
	maxPasswordLength    = 128
	minDisplayNameLength = 2
	maxDisplayNameLength = 100
	maxNameLength        = 50
)

// ValidateLogin checks a login payload before it is dispatched upstream.
// Returns a list of field errors; empty means valid.
func ValidateLogin(req authapi.LoginRequest) []string {
	var errs []string
	errs = append(errs, validateEmail(req.Email)...)
	if req.Password == "" {
		errs = append(errs, "password is required")
	}
	return errs
}

// ValidateRegistration checks a registration payload. Invalid requests never
// reach the network.
func ValidateRegistration(req authapi.RegistrationRequest) []string {
	var errs []string

	errs = append(errs, validateEmail(req.Email)...)
	errs = append(errs, validatePassword(req.Password)...)

	if req.Password != req.ConfirmPassword {
		errs = append(errs, "passwords do not match")
	}

	displayName := strings.TrimSpace(req.DisplayName)
	if len(displayName) < minDisplayNameLength {
		errs = append(errs, fmt.Sprintf("display name must be at least %d characters", minDisplayNameLength))
	} else if len(displayName) > maxDisplayNameLength {
		errs = append(errs, fmt.Sprintf("display name must be at most %d characters", maxDisplayNameLength))
	}

	if len(req.FirstName) > maxNameLength {
		errs = append(errs, fmt.Sprintf("first name must be at most %d characters", maxNameLength))
	}
	if len(req.LastName) > maxNameLength {
		errs = append(errs, fmt.Sprintf("last name must be at most %d characters", maxNameLength))
	}

	if !req.AcceptTerms {
		errs = append(errs, "you must accept the terms and conditions")
	}

	return errs
}

func validateEmail(email string) []string {
	if email == "" {
		return []string{"email is required"}
	}
	if len(email) > maxEmailLength {
		return []string{fmt.Sprintf("email must be at most %d characters", maxEmailLength)}
	}
	// ParseAddress accepts "Name <addr>" forms; require the bare address.
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return []string{"email is invalid"}
	}
	return nil
}

func validatePassword(password string) []string {
	var errs []string
	if len(password) < minPasswordLength {
		errs = append(errs, fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if len(password) > maxPasswordLength {
		errs = append(errs, fmt.Sprintf("password must be at most %d characters", maxPasswordLength))
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}
	if !hasUpper {
		errs = append(errs, "password must contain an uppercase letter")
	}
	if !hasLower {
		errs = append(errs, "password must contain a lowercase letter")
	}
	if !hasDigit {
		errs = append(errs, "password must contain a digit")
	}
	if !hasSpecial {
		errs = append(errs, "password must contain a special character")
	}
	return errs
}
