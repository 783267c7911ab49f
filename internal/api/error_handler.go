package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tgaplan/estimator/internal/domain"
	"github.com/tgaplan/estimator/internal/pkg/constants"
)

func httpErrorHandler(err error, c echo.Context) {
	msg := err.Error()
	code := http.StatusInternalServerError

	unwrapped := err
	for unwrapped != nil {
		if ce, ok := unwrapped.(*constants.CodedError); ok {
			code = ce.Code()
			break
		}
		if he, ok := unwrapped.(*echo.HTTPError); ok {
			code = he.Code
			break
		}
		unwrapped = errors.Unwrap(unwrapped)
	}

	_ = c.JSON(code, domain.ErrorResponse{
		Message: msg,
		Code:    code,
	})
}
