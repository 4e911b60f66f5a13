package utils

import (
	"os"
	"testing"

	"github.com/teambuildf/oraville-backend/config"
)

func TestMain(m *testing.M) {
	config.SetForTest(config.AppConfig{
		JWTSecret:       "utils-test-secret",
		ReferralBaseURL: "https://t.me/oraville_bot/app",
	})
	os.Exit(m.Run())
}
