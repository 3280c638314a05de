package domain

import (
	"errors"
	"time"
)

// ContactType identifies the delivery channel for a contact string.
type ContactType string

const (
	ContactEmail ContactType = "email"
	ContactPhone ContactType = "phone"
)

// Login purposes. Each login flow issues and verifies codes under its own
// purpose tag so a code requested for one flow cannot be replayed in another.
const (
	PurposeLogin           = "LOGIN"
	PurposeBackOfficeLogin = "BACKOFFICE_LOGIN"
	PurposeUserLogin       = "USER_LOGIN"
)

var ErrUnrecognizedContact = errors.New("unrecognized contact")
var ErrInvalidOtp = errors.New("invalid or expired code")
var ErrDeliveryFailed = errors.New("code delivery failed")
var ErrTooManyRequests = errors.New("code recently requested")

// OtpRecord is a persisted one-time code instance. The code itself is stored
// only as a bcrypt hash; the plaintext exists transiently between generation
// and dispatch.
type OtpRecord struct {
	ID          string      `json:"id" bson:"_id"`
	Contact     string      `json:"contact" bson:"contact"`
	ContactType ContactType `json:"contact_type" bson:"contact_type"`
	CodeHash    string      `json:"-" bson:"code_hash"`
	Purpose     string      `json:"purpose" bson:"purpose"`
	ExpiresAt   time.Time   `json:"expires_at" bson:"expires_at"`
	Used        bool        `json:"used" bson:"used"`
	CreatedAt   time.Time   `json:"created_at" bson:"created_at"`
}

// Active reports whether the record can still be consumed at instant now.
// Expiry is strict: a record is dead at exactly ExpiresAt.
func (r *OtpRecord) Active(now time.Time) bool {
	return !r.Used && now.Before(r.ExpiresAt)
}
