package models

import (
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	pseudoRe = regexp.MustCompile(`^[a-z]{6,10}$`)
	emailRe  = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.[a-zA-Z]{2,}$`)
)

// User is a registered player stored in the users collection.
type User struct {
	ID           primitive.ObjectID `json:"id"         bson:"_id,omitempty"`
	Pseudo       string             `json:"pseudo"     bson:"pseudo"`
	Email        string             `json:"email"      bson:"email"`
	PasswordHash string             `json:"-"          bson:"password_hash"`
	IsAdmin      bool               `json:"is_admin"   bson:"is_admin"`
	TeamID       primitive.ObjectID `json:"team_id"    bson:"team_id"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

// SignupRequest is the JSON body for POST /api/v1/authentification/signup.
type SignupRequest struct {
	Pseudo   string `json:"pseudo"`
	Email    string `json:"email"`
	Password string `json:"password"`
	TeamID   string `json:"team_id"`
}

// LoginRequest is the JSON body for POST /api/v1/authentification/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfilePatchRequest carries the updatable profile fields; empty fields are
// left untouched.
type ProfilePatchRequest struct {
	Pseudo string `json:"pseudo"`
	Email  string `json:"email"`
}

// PasswordChangeRequest is the JSON body for POST /api/v1/profile/password.
type PasswordChangeRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// DeleteAccountRequest confirms account removal with the current password.
type DeleteAccountRequest struct {
	Password string `json:"password"`
}

// Profile is the public view of a user returned by the profile routes.
type Profile struct {
	Pseudo  string             `json:"pseudo"`
	Email   string             `json:"email"`
	IsAdmin bool               `json:"is_admin"`
	TeamID  primitive.ObjectID `json:"team_id"`
}

// ValidPseudo reports whether s is 6 to 10 lowercase letters.
func ValidPseudo(s string) bool {
	return pseudoRe.MatchString(s)
}

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailRe.MatchString(s)
}

// ValidPassword reports whether s satisfies the 6–20 character rule.
func ValidPassword(s string) bool {
	return len(s) >= 6 && len(s) <= 20
}

// Validate checks the signup payload before it reaches the store.
func (r *SignupRequest) Validate() error {
	if !ValidPseudo(r.Pseudo) {
		return fmt.Errorf("%w: pseudo must be 6-10 lowercase letters", ErrValidation)
	}
	if !ValidEmail(r.Email) {
		return fmt.Errorf("%w: invalid email address", ErrValidation)
	}
	if !ValidPassword(r.Password) {
		return fmt.Errorf("%w: password must be 6-20 characters", ErrValidation)
	}
	if _, err := primitive.ObjectIDFromHex(r.TeamID); err != nil {
		return fmt.Errorf("%w: invalid team id", ErrValidation)
	}
	return nil
}
