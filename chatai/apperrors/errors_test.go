package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	err := New(Conflict, "email already registered")
	assert.Equal(t, Conflict, KindOf(err))

	wrapped := fmt.Errorf("register: %w", err)
	assert.Equal(t, Conflict, KindOf(wrapped))

	assert.Equal(t, Internal, KindOf(errors.New("pq: connection refused")))
}

func TestMessageOfHidesInternals(t *testing.T) {
	assert.Equal(t, "internal error", MessageOf(errors.New("dial tcp: refused")))
	assert.Equal(t, "invalid credentials", MessageOf(New(Auth, "invalid credentials")))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(Validation))
	assert.Equal(t, http.StatusConflict, HTTPStatus(Conflict))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(Auth))
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(Adapter))
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(Transport))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(Internal))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("context deadline exceeded")
	err := Wrap(Transport, "generative api unreachable", cause)
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsKind(err, Transport))
}
