package api

import (
	"errors"
	"net/http"

	"github.com/hazyhaar/cadop-search/pkg/dataset"
)

// statusFor maps endpoint errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, dataset.ErrTermTooShort):
		return http.StatusBadRequest
	case errors.Is(err, dataset.ErrDataUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage hides unexpected error details from clients.
func publicMessage(err error) string {
	if statusFor(err) == http.StatusInternalServerError {
		return "internal error"
	}
	return err.Error()
}

// legacyMessage is the Portuguese wording served on /buscar.
func legacyMessage(err error) string {
	switch {
	case errors.Is(err, dataset.ErrTermTooShort):
		return "Termo deve ter pelo menos 2 caracteres"
	case errors.Is(err, dataset.ErrDataUnavailable):
		return "Dados não disponíveis"
	default:
		return "Erro interno"
	}
}
