package utils

import "github.com/dchest/uniuri"

var referralAlphabet = []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789")

// NewReferralCode generates an 8-character shareable code. Uniqueness is
// enforced by the database; callers retry on conflict.
func NewReferralCode() string {
	return uniuri.NewLenChars(8, referralAlphabet)
}
