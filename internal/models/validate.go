package models

import (
	"regexp"
	"strings"
	"time"
)

// ValidationErrors maps field names to user-facing messages. Validation runs
// before any network call; a request that fails here never reaches a gateway.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for field, msg := range v {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var (
	emailPattern   = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	digitPattern   = regexp.MustCompile(`[0-9]`)
	specialPattern = regexp.MustCompile(`[!@#$%^&*]`)
)

func validateEmail(errs ValidationErrors, email string) {
	if email == "" {
		errs["email"] = "Email é obrigatório"
	} else if !emailPattern.MatchString(email) {
		errs["email"] = "Email inválido"
	}
}

// validatePassword enforces the signup password policy: at least 8
// characters, one digit and one special character.
func validatePassword(errs ValidationErrors, field, password string) {
	switch {
	case password == "":
		errs[field] = "Senha é obrigatória"
	case len(password) < 8:
		errs[field] = "Senha deve ter no mínimo 8 caracteres"
	case !digitPattern.MatchString(password) || !specialPattern.MatchString(password):
		errs[field] = "Senha deve conter pelo menos um número e um caractere especial"
	}
}

func validateBirthDate(errs ValidationErrors, birthDate string) {
	if birthDate == "" {
		return
	}
	if _, err := time.Parse("2006-01-02", birthDate); err != nil {
		errs["birthDate"] = "Data de nascimento inválida"
	}
}

// Validate checks login credentials.
func (c Credentials) Validate() error {
	errs := ValidationErrors{}
	validateEmail(errs, c.Email)
	if c.Password == "" {
		errs["password"] = "Senha é obrigatória"
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Validate checks a registration payload.
func (r RegisterRequest) Validate() error {
	errs := ValidationErrors{}
	if r.Name == "" {
		errs["name"] = "Nome é obrigatório"
	}
	validateEmail(errs, r.Email)
	validatePassword(errs, "password", r.Password)
	validateBirthDate(errs, r.BirthDate)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Validate checks a profile update payload.
func (p ProfileUpdate) Validate() error {
	errs := ValidationErrors{}
	if p.Name == "" {
		errs["name"] = "Nome é obrigatório"
	}
	validateEmail(errs, p.Email)
	validateBirthDate(errs, p.BirthDate)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Validate checks a password change payload.
func (p PasswordChange) Validate() error {
	errs := ValidationErrors{}
	if p.CurrentPassword == "" {
		errs["currentPassword"] = "Senha atual é obrigatória"
	}
	validatePassword(errs, "newPassword", p.NewPassword)
	if len(errs) > 0 {
		return errs
	}
	return nil
}
