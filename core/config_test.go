package core

import (
	"net/mail"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		conf, err := LoadConfig("", "")
		require.NoError(t, err)
		assert.Equal(t, "DEV", conf.Env)
		assert.False(t, conf.Debug)
		assert.False(t, conf.TestMode)
		assert.Equal(t, time.Hour, conf.JWTExpirationDelta)
		assert.Equal(t, ":5000", conf.Server.Address)
		assert.Equal(t, []string{"http://localhost:5173"}, conf.Server.CORSOrigins)
		assert.Equal(t, "mongo", conf.Database.Engine)
		assert.Equal(t, "usd", conf.Payment.Currency)
	})

	t.Run("environment", func(t *testing.T) {
		conf, err := LoadConfig(" test ", "")
		require.NoError(t, err)
		assert.Equal(t, "TEST", conf.Env)
		assert.True(t, conf.TestMode)

		conf, err = LoadConfig("prod", "")
		require.NoError(t, err)
		assert.False(t, conf.Debug)
	})

	t.Run("debug comes from the dev dotenv file only", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.dev"), []byte("DEV_DEBUG=true\n"), 0o600))
		t.Cleanup(func() { _ = os.Unsetenv("DEV_DEBUG") })

		conf, err := LoadConfig("PROD", dir)
		require.NoError(t, err)
		assert.False(t, conf.Debug)

		conf, err = LoadConfig("", dir)
		require.NoError(t, err)
		assert.True(t, conf.Debug)
	})

	t.Run("prefixed variables", func(t *testing.T) {
		t.Setenv("QA_SECRETKEY", "qa-secret")
		t.Setenv("QA_JWTEXPIRATIONDELTA", "2h")
		t.Setenv("QA_DATABASE_ENGINE", "memory")
		t.Setenv("QA_SERVER_CORSORIGINS", "https://a.example,https://b.example")
		t.Setenv("DEV_SECRETKEY", "ignored")

		conf, err := LoadConfig("QA", "")
		require.NoError(t, err)
		assert.Equal(t, "qa-secret", conf.SecretKey)
		assert.Equal(t, 2*time.Hour, conf.JWTExpirationDelta)
		assert.Equal(t, "memory", conf.Database.Engine)
		assert.Equal(t, []string{"https://a.example", "https://b.example"}, conf.Server.CORSOrigins)
	})

	t.Run("dotenv file", func(t *testing.T) {
		dir := t.TempDir()
		dotEnv := "QA_PAYMENT_CURRENCY=eur\nQA_DATABASE_NAME=fromFile\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.qa"), []byte(dotEnv), 0o600))
		t.Cleanup(func() {
			_ = os.Unsetenv("QA_PAYMENT_CURRENCY")
			_ = os.Unsetenv("QA_DATABASE_NAME")
		})
		// the real environment wins over the file
		t.Setenv("QA_DATABASE_NAME", "fromEnv")

		conf, err := LoadConfig("qa", dir)
		require.NoError(t, err)
		assert.Equal(t, "eur", conf.Payment.Currency)
		assert.Equal(t, "fromEnv", conf.Database.Name)
	})

	t.Run("PORT", func(t *testing.T) {
		t.Setenv("PORT", "8080")
		conf, err := LoadConfig("", "")
		require.NoError(t, err)
		assert.Equal(t, ":8080", conf.Server.Address)
	})
}

func TestConfig_DefaultFrom(t *testing.T) {
	tests := []struct {
		name string
		conf Config
		want mail.Address
	}{
		{"bare address", Config{AppName: "Study Platform", DefaultFromEmail: "noreply@x.com"}, mail.Address{Address: "noreply@x.com"}},
		{"named address", Config{AppName: "Study Platform", DefaultFromEmail: "Study <noreply@x.com>"}, mail.Address{Name: "Study", Address: "noreply@x.com"}},
		{"unparsable", Config{AppName: "Study Platform", DefaultFromEmail: "noreply@localhost@"}, mail.Address{Name: "Study Platform", Address: "noreply@localhost@"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.conf.DefaultFrom())
		})
	}
}

func TestCleanString(t *testing.T) {
	assert.Equal(t, "Hello World", CleanString("  Hello World \n"))
	assert.Equal(t, "hello world", CleanString("  Hello World \n", true))
	assert.Equal(t, "", CleanString(" \t "))
}
