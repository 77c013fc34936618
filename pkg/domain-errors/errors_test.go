package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCode(t *testing.T) {
	base := errors.New("connection refused")
	err := Wrap(base, CodeUnavailable, "civic service unavailable")

	assert.True(t, HasCode(err, CodeUnavailable))
	assert.False(t, HasCode(err, CodeNotFound))
	assert.ErrorIs(t, err, base)

	wrapped := fmt.Errorf("lookup: %w", err)
	assert.True(t, Is(wrapped, CodeUnavailable))
	assert.False(t, HasCode(base, CodeUnavailable))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "not_found: no member", New(CodeNotFound, "no member").Error())
	assert.Equal(t, "timeout: slow: boom", Wrap(errors.New("boom"), CodeTimeout, "slow").Error())
}
