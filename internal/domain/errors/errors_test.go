package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Constructors(t *testing.T) {
	err := NewAppError(http.StatusBadRequest, CodeBadRequest, "bad", ErrBadRequest)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, CodeBadRequest, err.Code)
	assert.Equal(t, "bad", err.Error())
	assert.ErrorIs(t, err, ErrBadRequest)

	cases := []struct {
		err    *AppError
		status int
		code   string
		is     error
	}{
		{NotFound("missing"), http.StatusNotFound, CodeNotFound, ErrNotFound},
		{Conflict("exists"), http.StatusConflict, CodeConflict, ErrConflict},
		{BadRequest("bad request"), http.StatusBadRequest, CodeInvalidInput, ErrInvalidInput},
		{Validation("bad time"), http.StatusBadRequest, CodeInvalidInput, ErrInvalidInput},
		{Unauthorized("who"), http.StatusUnauthorized, CodeUnauthorized, ErrUnauthorized},
		{Forbidden("no"), http.StatusForbidden, CodeForbidden, ErrForbidden},
		{Structural("floor missing"), http.StatusUnprocessableEntity, CodeStructural, ErrStructural},
		{InvalidTransition("terminal"), http.StatusConflict, CodeInvalidTransition, ErrInvalidTransition},
		{Busy("locked"), http.StatusConflict, CodeBusy, ErrBusy},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, tc.err.Status, tc.err.Message)
		assert.Equal(t, tc.code, tc.err.Code, tc.err.Message)
		assert.ErrorIs(t, tc.err, tc.is, tc.err.Message)
	}

	internal := InternalError(stderrors.New("db down"))
	assert.Equal(t, http.StatusInternalServerError, internal.Status)
	assert.Equal(t, "internal server error", internal.Error())

	internalMsg := InternalServerError("boom")
	assert.Equal(t, "boom", internalMsg.Error())

	custom := NewError("custom", ErrForbidden)
	assert.Equal(t, "custom", custom.Error())
	assert.ErrorIs(t, custom, ErrForbidden)

	empty := &AppError{Status: http.StatusTeapot, Err: ErrBusy}
	assert.Equal(t, ErrBusy.Error(), empty.Error())
	empty.Err = nil
	assert.Equal(t, http.StatusText(http.StatusTeapot), empty.Error())
}

func TestFromError(t *testing.T) {
	nf := NotFound("table not found")
	assert.Same(t, nf, FromError(fmt.Errorf("wrapped: %w", nf)))

	cases := map[error]int{
		ErrNotFound:                             http.StatusNotFound,
		fmt.Errorf("dup: %w", ErrAlreadyExists): http.StatusConflict,
		ErrConflict:                             http.StatusConflict,
		ErrInvalidInput:                         http.StatusBadRequest,
		ErrUnauthorized:                         http.StatusUnauthorized,
		ErrForbidden:                            http.StatusForbidden,
		ErrStructural:                           http.StatusUnprocessableEntity,
		ErrInvalidTransition:                    http.StatusConflict,
		ErrBusy:                                 http.StatusConflict,
		ErrInvalidToken:                         http.StatusBadRequest,
		stderrors.New("socket closed"):          http.StatusInternalServerError,
	}
	for err, status := range cases {
		assert.Equal(t, status, FromError(err).Status, err.Error())
	}
}
