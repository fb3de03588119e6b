package auth

import (
	"fmt"
	"unicode"

	"github.com/animalet/tramuntana/pkg/config"
)

// PasswordRejection explains why a candidate password does not satisfy the
// policy. It is a recoverable, user-facing outcome, not a process failure.
type PasswordRejection struct {
	Reason string
}

func (r *PasswordRejection) Error() string {
	return r.Reason
}

// ValidatePassword evaluates password against the policy. It returns nil
// when the password is acceptable, or a *PasswordRejection naming the
// first unmet requirement. When the policy is not enforced (development
// environments) every password is accepted.
func ValidatePassword(policy config.PasswordPolicy, password string) error {
	if !policy.Enforced {
		return nil
	}

	if len(password) < policy.MinLength {
		return &PasswordRejection{Reason: fmt.Sprintf("password must be at least %d characters long", policy.MinLength)}
	}
	if policy.MaxLength > 0 && len(password) > policy.MaxLength {
		return &PasswordRejection{Reason: fmt.Sprintf("password must be at most %d characters long", policy.MaxLength)}
	}

	var hasUpper, hasLower, hasNumber, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsNumber(r):
			hasNumber = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSymbol = true
		}
	}

	if policy.RequireMixedCase && (!hasUpper || !hasLower) {
		return &PasswordRejection{Reason: "password must mix upper and lower case letters"}
	}
	if policy.RequireNumber && !hasNumber {
		return &PasswordRejection{Reason: "password must contain at least one number"}
	}
	if policy.RequireSymbol && !hasSymbol {
		return &PasswordRejection{Reason: "password must contain at least one symbol"}
	}

	return nil
}
