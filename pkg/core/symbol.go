package core

import (
	"fmt"
	"strings"
)

// Symbol is a normalized (trimmed, lowercase) asset identifier, eg: bitcoin
type Symbol string

// NormalizeSymbol trims and lowercases a raw coin name
func NormalizeSymbol(raw string) Symbol {
	return Symbol(strings.ToLower(strings.TrimSpace(raw)))
}

// ParseSymbol normalizes a raw coin name and checks it against the coin id
// alphabet: lowercase letters, digits and dashes, eg: shiba-inu, avalanche-2.
// Anything else would break the chat markup it is rendered into.
func ParseSymbol(raw string) (Symbol, error) {
	symbol := NormalizeSymbol(raw)
	if symbol == "" {
		return "", ErrEmptySymbol
	}

	if !symbol.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSymbol, raw)
	}

	return symbol, nil
}

// Valid reports whether the symbol only holds [a-z0-9-]
func (s Symbol) Valid() bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
		default:
			return false
		}
	}

	return true
}

// String implements fmt.Stringer
func (s Symbol) String() string {
	return string(s)
}

// Display returns the symbol as shown to users
func (s Symbol) Display() string {
	return strings.ToUpper(string(s))
}
