package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	base := NotFound("order not found")

	assert.Equal(t, KindNotFound, KindOf(base))
	assert.Equal(t, KindNotFound, KindOf(fmt.Errorf("lookup: %w", base)))
	assert.Equal(t, KindInternal, KindOf(errors.New("connection reset")))
	assert.Equal(t, Kind(""), KindOf(nil))
}

func TestMessageOfHidesInternalCause(t *testing.T) {
	err := Internal("failed to commit", errors.New("pq: password authentication failed"))

	assert.Equal(t, "Internal server error", MessageOf(err))
	assert.Equal(t, "Internal server error", MessageOf(errors.New("raw")))
	assert.Equal(t, "status cannot be empty", MessageOf(BadRequest("status cannot be empty")))
	assert.ErrorIs(t, err, err.Err)
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		KindUnauthenticated: http.StatusUnauthorized,
		KindNotFound:        http.StatusNotFound,
		KindBadRequest:      http.StatusBadRequest,
		KindConflict:        http.StatusConflict,
		KindInternal:        http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, HTTPStatus(kind), kind)
	}
}
