// Package validate holds pure input validation helpers. Validators
// report failures as (ok, message) pairs and never reach the network.
package validate

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	minQueryLength = 2
	maxQueryLength = 500
)

// Query checks a catalog search query before any cache or network
// work. The message is empty when the query is valid.
func Query(query string) (bool, string) {
	if query == "" {
		return false, "search query must be a non-empty string"
	}

	// Character counts, not bytes: umlauts are common in catalog queries.
	trimmed := strings.TrimSpace(query)
	if utf8.RuneCountInString(trimmed) < minQueryLength {
		return false, fmt.Sprintf("search query must be at least %d characters long", minQueryLength)
	}
	if utf8.RuneCountInString(trimmed) > maxQueryLength {
		return false, fmt.Sprintf("search query must not exceed %d characters", maxQueryLength)
	}

	return true, ""
}

// CleanISBN strips hyphens and spaces from an ISBN.
func CleanISBN(isbn string) string {
	isbn = strings.TrimSpace(isbn)
	isbn = strings.ReplaceAll(isbn, "-", "")
	return strings.ReplaceAll(isbn, " ", "")
}

// ISBN validates an ISBN-10 or ISBN-13, accepting hyphenated input.
func ISBN(isbn string) (bool, string) {
	if isbn == "" {
		return false, "ISBN must be a non-empty string"
	}

	cleaned := CleanISBN(isbn)
	switch len(cleaned) {
	case 10:
		return ISBN10(cleaned)
	case 13:
		return ISBN13(cleaned)
	}
	return false, fmt.Sprintf("ISBN must be 10 or 13 characters, got %d", len(cleaned))
}

// ISBN10 validates the checksum of a cleaned 10-character ISBN.
// The check digit may be X.
func ISBN10(isbn string) (bool, string) {
	for i, c := range isbn {
		if c >= '0' && c <= '9' {
			continue
		}
		// X is only valid as the check digit
		if c == 'X' && i == len(isbn)-1 {
			continue
		}
		return false, "ISBN-10 must contain only digits (and X as check digit)"
	}

	sum := 0
	for i := 0; i < 9; i++ {
		sum += int(isbn[i]-'0') * (10 - i)
	}
	check := (11 - sum%11) % 11
	want := byte('0' + check)
	if check == 10 {
		want = 'X'
	}

	if isbn[9] != want {
		return false, "invalid ISBN-10 checksum"
	}
	return true, ""
}

// ISBN13 validates the checksum of a cleaned 13-digit ISBN.
func ISBN13(isbn string) (bool, string) {
	for _, c := range isbn {
		if c < '0' || c > '9' {
			return false, "ISBN-13 must contain only digits"
		}
	}

	sum := 0
	for i := 0; i < 12; i++ {
		weight := 1
		if i%2 == 1 {
			weight = 3
		}
		sum += int(isbn[i]-'0') * weight
	}
	check := (10 - sum%10) % 10

	if int(isbn[12]-'0') != check {
		return false, "invalid ISBN-13 checksum"
	}
	return true, ""
}

// Email performs a light-weight format check for notification
// addresses.
func Email(email string) (bool, string) {
	email = strings.TrimSpace(email)
	if email == "" {
		return false, "email must be a non-empty string"
	}
	if len(email) > 254 {
		return false, "email address too long (max 254 characters)"
	}

	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false, fmt.Sprintf("invalid email format: %s", email)
	}
	domain := email[at+1:]
	dot := strings.LastIndex(domain, ".")
	if dot <= 0 || len(domain)-dot-1 < 2 {
		return false, fmt.Sprintf("invalid email format: %s", email)
	}

	return true, ""
}

// Phone performs a basic format check for notification numbers:
// 7 to 15 digits after stripping spaces, hyphens and a leading plus.
func Phone(phone string) (bool, string) {
	if strings.TrimSpace(phone) == "" {
		return false, "phone number must be a non-empty string"
	}

	cleaned := strings.NewReplacer(" ", "", "-", "", "+", "").Replace(strings.TrimSpace(phone))
	for _, c := range cleaned {
		if c < '0' || c > '9' {
			return false, "phone number must contain only digits (and +, -, spaces)"
		}
	}
	if len(cleaned) < 7 || len(cleaned) > 15 {
		return false, "phone number must be 7-15 digits"
	}

	return true, ""
}
