package gogun

import (
	"errors"
	"regexp"
)

var (
	// ErrInvalidDisplayName is returned when a display name contains angle brackets.
	ErrInvalidDisplayName = errors.New("invalid display name")
	// ErrInvalidAddress is returned when an email address fails the structural check.
	ErrInvalidAddress = errors.New("invalid email address")
)

var (
	reNameAddr    = regexp.MustCompile(`^(.*) <([^>]+)>$`)
	reDisplayName = regexp.MustCompile(`^[^<>]+$`)
	reAddress     = regexp.MustCompile(`^[^<> ]+@[^<> ]+\.[^<> ]+$`)
)

// Address is an email address, with or without a display name.
type Address struct {
	Name  string
	Email string
}

// Addr builds an Address without a display name.
func Addr(email string) Address {
	return Address{Email: email}
}

// NamedAddr builds an Address with a display name.
func NamedAddr(name, email string) Address {
	return Address{Name: name, Email: email}
}

// String renders the address as "Name <email>" or the bare email.
func (a Address) String() string {
	if a.Name == "" {
		return a.Email
	}
	return a.Name + " <" + a.Email + ">"
}

// ParseAddress parses a minimal subset of the RFC5322 mailbox grammar:
// either a bare address or "Display Name <address>". It performs the same
// structural checks applied when rendering outbound recipients; it is not a
// full RFC5322 validator.
func ParseAddress(input string) (Address, error) {
	addr := Addr(input)
	if captures := reNameAddr.FindStringSubmatch(input); captures != nil {
		addr = NamedAddr(captures[1], captures[2])
	}

	if addr.Name != "" && !reDisplayName.MatchString(addr.Name) {
		return Address{}, ErrInvalidDisplayName
	}
	if !reAddress.MatchString(addr.Email) {
		return Address{}, ErrInvalidAddress
	}

	return addr, nil
}
