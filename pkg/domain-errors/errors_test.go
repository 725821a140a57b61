package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	t.Run("nil error stays nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, CodeInternal, "ignored"))
	})

	t.Run("keeps cause in chain", func(t *testing.T) {
		cause := errors.New("db down")
		err := Wrap(cause, CodeInternal, "failed to list countries")

		assert.True(t, Is(err, cause))
		assert.True(t, HasCode(err, CodeInternal))
		assert.Equal(t, "failed to list countries: db down", err.Error())
	})
}

func TestCodeOf(t *testing.T) {
	t.Run("reads code through fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("handler: %w", New(CodeNotFound, "Country with ID 7 not found"))
		assert.Equal(t, CodeNotFound, CodeOf(err))

		de, ok := As(err)
		require.True(t, ok)
		assert.Equal(t, "Country with ID 7 not found", de.Message)
	})

	t.Run("plain errors are internal", func(t *testing.T) {
		assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
		assert.False(t, HasCode(errors.New("boom"), CodeValidation))
	})
}

func TestCodeWireValues(t *testing.T) {
	for code, want := range map[Code]string{
		CodeNotFound:   "not_found",
		CodeValidation: "validation_error",
		CodeConflict:   "conflict",
		CodeBadRequest: "bad_request",
		CodeInternal:   "internal_error",
	} {
		assert.Equal(t, want, string(code))
	}
}
