package crypto

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_IsAndAs(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("wrapped: %w", cryptoError("derive key", "primitive failed", cause))

	assert.ErrorIs(t, err, ErrCryptoOperation)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrIntegrity)

	var vErr *Error
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "derive key", vErr.Op)
	assert.Equal(t, "derive key: crypto operation error: primitive failed: boom", vErr.Error())
}

func TestKindOf(t *testing.T) {
	assert.Nil(t, KindOf(nil))
	assert.Nil(t, KindOf(errors.New("other")))
	assert.Equal(t, ErrValidation, KindOf(validationError("op", "bad")))
	assert.Equal(t, ErrSession, KindOf(sessionError("op", "locked")))
	assert.Equal(t, ErrIntegrity, KindOf(integrityError("op")))
	assert.Equal(t, ErrCryptoOperation, KindOf(cryptoError("op", "x", nil)))
}

func TestIntegrityError_Message(t *testing.T) {
	assert.Contains(t, integrityError("decrypt").Error(), "wrong key or corrupted/tampered data")
}

func TestWipe(t *testing.T) {
	b := []byte("sensitive")
	Wipe(b)
	assert.Equal(t, make([]byte, len("sensitive")), b)
	assert.NotPanics(t, func() { Wipe(nil) })
}
