package domain

import (
	"regexp"
	"strings"
)

// ContactUnknown marks a contact string that is neither an email address nor
// a phone number. Callers must reject it before issuing a code.
const ContactUnknown ContactType = "unknown"

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	// phoneLoose tolerates common punctuation; phoneStrict is applied after
	// stripping it.
	phoneLoose  = regexp.MustCompile(`^[0-9+ ()\-]+$`)
	phoneStrict = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
)

// ClassifyContact decides which channel a contact string belongs to.
// Pure and safe for concurrent use.
func ClassifyContact(contact string) ContactType {
	if emailPattern.MatchString(contact) {
		return ContactEmail
	}
	if phoneLoose.MatchString(contact) && phoneStrict.MatchString(stripPhone(contact)) {
		return ContactPhone
	}
	return ContactUnknown
}

func stripPhone(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')':
			return -1
		}
		return r
	}, s)
}
