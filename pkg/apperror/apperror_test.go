package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NotFound("post"), http.StatusNotFound},
		{"validation", Validation("text is required"), http.StatusBadRequest},
		{"forbidden wrapped", fmt.Errorf("update post: %w", ErrForbidden), http.StatusForbidden},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"conflict", ErrConflict, http.StatusConflict},
		{"internal", errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestFromGorm(t *testing.T) {
	err := FromGorm(gorm.ErrRecordNotFound, "comment")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "comment not found", err.Error())

	other := errors.New("boom")
	assert.Equal(t, other, FromGorm(other, "comment"))
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "validation failed: point must be between 1 and 5",
		Message(Validation("point must be between 1 and 5"), "Failed"))
	assert.Equal(t, "Failed to rate post", Message(errors.New("pq: deadlock"), "Failed to rate post"))
}

func TestRequireID(t *testing.T) {
	assert.NoError(t, RequireID("8f14e45f-ceea-467f-a8c4-2f1b7c8f5a10", "post"))

	for _, id := range []string{"", "abc", "42", "8f14e45f-ceea-467f"} {
		err := RequireID(id, "post")
		assert.ErrorIs(t, err, ErrNotFound, id)
		assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
	}
}
