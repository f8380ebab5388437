package logging

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, New("debug", false, "svc").GetLevel())
	assert.Equal(t, zerolog.WarnLevel, New("WARN", true, "svc").GetLevel())
	assert.Equal(t, zerolog.InfoLevel, New("loud", false, "svc").GetLevel())
	assert.Equal(t, zerolog.InfoLevel, New("", false, "svc").GetLevel())
}
