package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"qisim/domain/core"

	"github.com/stretchr/testify/assert"
)

func TestWrap_KeepsCode(t *testing.T) {
	base := InvalidInput("k must be positive")
	wrapped := Wrap(base, "clustering request")

	assert.Equal(t, CodeInvalidInput, GetCode(wrapped))
	assert.Equal(t, "clustering request: k must be positive", wrapped.Error())
	assert.True(t, stderrors.Is(wrapped, base))
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestWrap_DomainSentinels(t *testing.T) {
	cfgErr := core.NewConfigError("startDate", "is required")
	assert.Equal(t, CodeConfigInvalid, GetCode(Wrap(cfgErr, "simulate")))
	assert.Equal(t, CodeConfigInvalid, GetCode(cfgErr))

	notFound := fmt.Errorf("%w: cohort", core.ErrNotFound)
	assert.Equal(t, CodeNotFound, GetCode(Wrapf(notFound, "export %s", "csv")))
	assert.True(t, stderrors.Is(NotFound("cohort"), core.ErrNotFound))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFound("cohort")))

	assert.Equal(t, CodeInternalError, GetCode(Wrap(fmt.Errorf("disk full"), "write")))
	assert.Equal(t, "UNKNOWN", GetCode(fmt.Errorf("plain")))
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeValidationError, fmt.Errorf("bad field"))
	assert.Equal(t, CodeValidationError, GetCode(err))
	assert.True(t, IsAppError(err))
	assert.False(t, IsAppError(fmt.Errorf("plain")))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(ConfigInvalid("x")))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(core.NewConfigError("endDate", "before startDate")))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(InvalidInput("x")))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFound("cohort")))
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(Wrap(core.ErrInsufficientData, "fit")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(ExportFailed("xlsx", fmt.Errorf("io"))))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(fmt.Errorf("plain")))
}
