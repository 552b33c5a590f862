package bootstrap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGinMode(t *testing.T) {
	cases := map[string]string{
		"production":  "release",
		"prod":        "release",
		"release":     "release",
		"test":        "test",
		"testing":     "test",
		"development": "debug",
		"":            "debug",
	}
	for env, want := range cases {
		assert.Equal(t, want, GinMode(env), env)
	}
}

func TestResolveEnv(t *testing.T) {
	t.Setenv("ENV", "")
	assert.Equal(t, "development", Options{Env: "development"}.ResolveEnv())

	t.Setenv("ENV", "production")
	assert.Equal(t, "production", Options{Env: "development"}.ResolveEnv())
}
