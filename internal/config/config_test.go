package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetenvDefaults(t *testing.T) {
	assert.Equal(t, "fallback", getenv("CFG_TEST_UNSET", "fallback"))

	t.Setenv("CFG_TEST_SET", "value")
	assert.Equal(t, "value", getenv("CFG_TEST_SET", "fallback"))
}

func TestGetenvInt(t *testing.T) {
	assert.Equal(t, 42, getenvInt("CFG_TEST_UNSET", 42))

	t.Setenv("CFG_TEST_INT", "7")
	assert.Equal(t, 7, getenvInt("CFG_TEST_INT", 42))

	t.Setenv("CFG_TEST_INT", "not a number")
	assert.Equal(t, 42, getenvInt("CFG_TEST_INT", 42))
}

func TestGetenvBool(t *testing.T) {
	assert.False(t, getenvBool("CFG_TEST_UNSET", false))

	t.Setenv("CFG_TEST_BOOL", "true")
	assert.True(t, getenvBool("CFG_TEST_BOOL", false))

	t.Setenv("CFG_TEST_BOOL", "yes")
	assert.False(t, getenvBool("CFG_TEST_BOOL", false))
}

func TestGetenvDuration(t *testing.T) {
	assert.Equal(t, 15*time.Second, getenvDuration("CFG_TEST_UNSET", 15*time.Second))

	t.Setenv("CFG_TEST_DURATION", "30s")
	assert.Equal(t, 30*time.Second, getenvDuration("CFG_TEST_DURATION", 15*time.Second))
}

func TestSectionDefaults(t *testing.T) {
	http := newHTTP()
	assert.Equal(t, "0.0.0.0", http.Host)
	assert.Equal(t, "3001", http.Port)

	t.Setenv("WS_ALLOWED_ORIGINS", "https://app.example.com,https://beta.example.com")
	ws := newWS()
	assert.Equal(t, []string{"https://app.example.com", "https://beta.example.com"}, ws.AllowedOrigins)

	catalog := newCatalog()
	assert.Equal(t, 100, catalog.PageLimit)
	assert.False(t, catalog.AllowPrivateNetworks)
}
