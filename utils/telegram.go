package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/url"
	"sort"
	"strings"
)

// TelegramUser is the user object embedded in mini app init data.
type TelegramUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	PhotoURL  string `json:"photo_url"`
}

var (
	ErrInitDataInvalid   = errors.New("invalid telegram init data")
	ErrInitDataSignature = errors.New("telegram init data signature mismatch")
)

// VerifyTelegramInitData validates a mini app initData query string against
// the bot token, per Telegram's data-check-string scheme: the secret key is
// HMAC-SHA256("WebAppData", botToken) and the hash covers every remaining
// field sorted alphabetically and joined with newlines.
func VerifyTelegramInitData(initData, botToken string) error {
	if botToken == "" {
		return ErrInitDataSignature
	}

	values, err := url.ParseQuery(initData)
	if err != nil {
		return ErrInitDataInvalid
	}
	providedHex := values.Get("hash")
	if providedHex == "" {
		return ErrInitDataInvalid
	}
	values.Del("hash")

	pairs := make([]string, 0, len(values))
	for key := range values {
		pairs = append(pairs, key+"="+values.Get(key))
	}
	sort.Strings(pairs)
	dataCheckString := strings.Join(pairs, "\n")

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))

	h := hmac.New(sha256.New, secret.Sum(nil))
	h.Write([]byte(dataCheckString))
	expected := h.Sum(nil)

	provided, err := hex.DecodeString(strings.TrimSpace(providedHex))
	if err != nil || len(provided) != len(expected) {
		return ErrInitDataSignature
	}
	if subtle.ConstantTimeCompare(expected, provided) != 1 {
		return ErrInitDataSignature
	}
	return nil
}

// ParseTelegramUser extracts the user payload from initData. Call only after
// VerifyTelegramInitData succeeded.
func ParseTelegramUser(initData string) (*TelegramUser, error) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, ErrInitDataInvalid
	}
	raw := values.Get("user")
	if raw == "" {
		return nil, ErrInitDataInvalid
	}

	var user TelegramUser
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, ErrInitDataInvalid
	}
	if user.ID == 0 {
		return nil, ErrInitDataInvalid
	}
	return &user, nil
}
