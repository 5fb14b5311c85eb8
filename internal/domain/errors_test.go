package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorUnwrapsToKind(t *testing.T) {
	err := fmt.Errorf("sign up: %w", NewError(ErrInvalidInput, "Password doesn't match"))

	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "Password doesn't match", Message(err, "boom"))
}

func TestMessageFallsBackForInternalErrors(t *testing.T) {
	assert.Equal(t, "boom", Message(errors.New("pq: connection refused"), "boom"))
	assert.Equal(t, "not found", Message(fmt.Errorf("bank 3: %w", ErrNotFound), "boom"))
}
