package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	minEmailLength    = 3
	maxEmailLength    = 255
	minPasswordLength = 8
	maxPasswordLength = 72
	maxNameLen        = 255
	maxAddressLen     = 1024
	maxDescriptionLen = 4096
	MaxQuantity       = 10000
	asciiControlStart = 32
	asciiDelete       = 127

	errEmailEmptyFmt        = "email cannot be empty"
	errEmailLengthFmt       = "email must be between %d and %d characters"
	errEmailInvalidFmt      = "invalid email format"
	errPasswordMinLengthFmt = "password must be at least %d characters"
	errPasswordMaxLengthFmt = "password must not exceed %d bytes"
	errNameEmptyFmt         = "%s cannot be empty"
	errNameMaxLengthFmt     = "%s must not exceed %d characters"
	errNameControlCharsFmt  = "%s cannot contain control characters"
	errAddressEmptyFmt      = "delivery address cannot be empty"
	errAddressMaxLengthFmt  = "delivery address must not exceed %d characters"
	errDescriptionMaxLenFmt = "description must not exceed %d characters"
	errPositiveIDFmt        = "%s must be a positive integer"
	errPositiveQuantityFmt  = "quantity must be greater than zero"
	errMaxQuantityFmt       = "quantity must not exceed %d"
	errInvalidUTF8Fmt       = "%s must be valid UTF-8"
	fieldName               = "name"
	fieldProductName        = "product name"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func Email(email string) error {
	if email == "" {
		return errors.New(errEmailEmptyFmt)
	}

	if len(email) < minEmailLength || len(email) > maxEmailLength {
		return fmt.Errorf(errEmailLengthFmt, minEmailLength, maxEmailLength)
	}

	if !emailRegex.MatchString(email) {
		return errors.New(errEmailInvalidFmt)
	}

	return nil
}

// Password enforces length bounds. bcrypt ignores input past 72 bytes, so
// longer secrets are rejected instead of silently truncated.
func Password(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf(errPasswordMinLengthFmt, minPasswordLength)
	}

	if len(password) > maxPasswordLength {
		return fmt.Errorf(errPasswordMaxLengthFmt, maxPasswordLength)
	}

	return nil
}

func Name(name string) error {
	return label(fieldName, name)
}

func ProductName(name string) error {
	return label(fieldProductName, name)
}

func label(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf(errNameEmptyFmt, field)
	}

	if !utf8.ValidString(value) {
		return fmt.Errorf(errInvalidUTF8Fmt, field)
	}

	if utf8.RuneCountInString(value) > maxNameLen {
		return fmt.Errorf(errNameMaxLengthFmt, field, maxNameLen)
	}

	for _, char := range value {
		if char < asciiControlStart || char == asciiDelete {
			return fmt.Errorf(errNameControlCharsFmt, field)
		}
	}

	return nil
}

func Address(address string) error {
	if strings.TrimSpace(address) == "" {
		return errors.New(errAddressEmptyFmt)
	}

	if utf8.RuneCountInString(address) > maxAddressLen {
		return fmt.Errorf(errAddressMaxLengthFmt, maxAddressLen)
	}

	return nil
}

func Description(description string) error {
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return fmt.Errorf(errDescriptionMaxLenFmt, maxDescriptionLen)
	}
	return nil
}

func PositiveID(field string, id int64) error {
	if id <= 0 {
		return fmt.Errorf(errPositiveIDFmt, field)
	}
	return nil
}

// Quantity accepts 1..MaxQuantity; the line item column is a 32-bit integer.
func Quantity(qty int) error {
	if qty <= 0 {
		return errors.New(errPositiveQuantityFmt)
	}
	if qty > MaxQuantity {
		return fmt.Errorf(errMaxQuantityFmt, MaxQuantity)
	}
	return nil
}
