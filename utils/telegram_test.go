package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBotToken = "12345:TEST_TOKEN"

// signInitData computes the hash the way Telegram's client does, so the
// verifier is checked against an independent implementation of the scheme.
func signInitData(values url.Values, botToken string) string {
	pairs := make([]string, 0, len(values))
	for key := range values {
		pairs = append(pairs, key+"="+values.Get(key))
	}
	sort.Strings(pairs)

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))
	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(strings.Join(pairs, "\n")))
	return hex.EncodeToString(mac.Sum(nil))
}

func buildInitData(t *testing.T, botToken string) string {
	t.Helper()
	values := url.Values{}
	values.Set("user", `{"id":99887766,"first_name":"Grace","last_name":"Hopper","username":"graceh"}`)
	values.Set("auth_date", "1735689600")
	values.Set("query_id", "AAHdF6IQAAAAAN0XohDhrOrc")
	values.Set("hash", signInitData(values, botToken))
	return values.Encode()
}

func TestVerifyTelegramInitData(t *testing.T) {
	initData := buildInitData(t, testBotToken)
	assert.NoError(t, VerifyTelegramInitData(initData, testBotToken))
}

func TestVerifyTelegramInitDataWrongToken(t *testing.T) {
	initData := buildInitData(t, testBotToken)
	assert.ErrorIs(t, VerifyTelegramInitData(initData, "99999:OTHER_TOKEN"), ErrInitDataSignature)
}

func TestVerifyTelegramInitDataTampered(t *testing.T) {
	initData := buildInitData(t, testBotToken)
	tampered := strings.Replace(initData, "Grace", "Mallory", 1)
	assert.ErrorIs(t, VerifyTelegramInitData(tampered, testBotToken), ErrInitDataSignature)
}

func TestVerifyTelegramInitDataMissingHash(t *testing.T) {
	assert.ErrorIs(t, VerifyTelegramInitData("auth_date=1735689600", testBotToken), ErrInitDataInvalid)
}

func TestVerifyTelegramInitDataEmptyToken(t *testing.T) {
	initData := buildInitData(t, testBotToken)
	assert.Error(t, VerifyTelegramInitData(initData, ""))
}

func TestParseTelegramUser(t *testing.T) {
	initData := buildInitData(t, testBotToken)

	user, err := ParseTelegramUser(initData)
	require.NoError(t, err)
	assert.Equal(t, int64(99887766), user.ID)
	assert.Equal(t, "Grace", user.FirstName)
	assert.Equal(t, "Hopper", user.LastName)
	assert.Equal(t, "graceh", user.Username)
}

func TestParseTelegramUserMissing(t *testing.T) {
	_, err := ParseTelegramUser("auth_date=1735689600")
	assert.ErrorIs(t, err, ErrInitDataInvalid)
}
