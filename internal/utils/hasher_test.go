package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHash(t *testing.T) {
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", Hash())
	assert.Equal(t, Hash("a:b"), Hash("a", "b"))
	assert.NotEqual(t, Hash("session", "1"), Hash("session", "2"))
	assert.Len(t, Hash("x"), 64)
}
