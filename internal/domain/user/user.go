package user

import (
	"regexp"
	"strings"
	"time"
)

// Membership values. Admin is a separate flag granted through its own secret
// phrase, not a third membership tier.
const (
	MembershipGuest  = "guest"
	MembershipMember = "member"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	PasswordSalt string    `json:"-"`
	Membership   string    `json:"membership"`
	Admin        bool      `json:"admin"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (u User) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,})+$`)

// NormalizeEmail is applied before every lookup and before storage, so the
// uniqueness invariant is always checked against the same form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidEmail(email string) bool {
	return emailPattern.MatchString(NormalizeEmail(email))
}
