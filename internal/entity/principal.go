package entity

import "strings"

// Principal is the identity-authority-verified caller. Fetched per request,
// never cached beyond request scope.
type Principal struct {
	UserID      string
	Username    string
	Email       string
	FirstName   string
	LastName    string
	Street      string
	City        string
	Province    string
	PostalCode  string
	Country     string
	PhoneNumber string
}

// DisplayName is the caller-facing name used in notifications.
func (p Principal) DisplayName() string {
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name == "" {
		return p.Username
	}
	return name
}
