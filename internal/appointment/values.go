package appointment

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// ID identifies one appointment aggregate. Compared by value.
type ID struct {
	value string
}

func NewID() ID {
	return ID{value: uuid.NewString()}
}

func ParseID(s string) (ID, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ID{}, NewError(KindValidation, "appointment id cannot be empty")
	}
	return ID{value: trimmed}, nil
}

func (id ID) String() string { return id.value }

func (id ID) Equals(other ID) bool { return id.value == other.value }

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// EmailAddress is a normalized (trimmed, lower-cased) email address.
type EmailAddress struct {
	value string
}

func NewEmailAddress(raw string) (EmailAddress, error) {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return EmailAddress{}, NewError(KindValidation, "email cannot be empty")
	}
	if !emailPattern.MatchString(trimmed) {
		return EmailAddress{}, Errorf(KindValidation, "invalid email format: %s", raw)
	}
	return EmailAddress{value: trimmed}, nil
}

func (e EmailAddress) String() string { return e.value }

func (e EmailAddress) Equals(other EmailAddress) bool { return e.value == other.value }

// PhoneNumber is a digit-only phone number of 10 to 15 digits.
type PhoneNumber struct {
	value string
}

func NewPhoneNumber(raw string) (PhoneNumber, error) {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	cleaned := digits.String()
	if len(cleaned) < 10 || len(cleaned) > 15 {
		return PhoneNumber{}, Errorf(KindValidation, "invalid phone number: %s", raw)
	}
	return PhoneNumber{value: cleaned}, nil
}

func (p PhoneNumber) String() string { return p.value }

// Format renders a 10-digit number as (512) 555-1234; longer numbers
// are returned as-is.
func (p PhoneNumber) Format() string {
	if len(p.value) == 10 {
		return fmt.Sprintf("(%s) %s-%s", p.value[:3], p.value[3:6], p.value[6:])
	}
	return p.value
}

func (p PhoneNumber) Equals(other PhoneNumber) bool { return p.value == other.value }
