package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "github.com/johnquangdev/meeting-intelligence/errors"
)

type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// writeError maps domain errors onto HTTP responses.
func writeError(c echo.Context, err error) error {
	var appErr apperrors.AppError
	if errors.As(err, &appErr) {
		return c.JSON(appErr.HTTPCode, errorBody{
			Code:    appErr.Code.String(),
			Message: appErr.Message,
			Details: appErr.Details,
		})
	}
	if errors.Is(err, apperrors.ErrMeetingNotFound) {
		return c.JSON(http.StatusNotFound, errorBody{
			Code:    apperrors.ErrorCode_NOT_FOUND.String(),
			Message: "meeting not found",
		})
	}
	if errors.Is(err, apperrors.ErrAnalysisNotFound) {
		return c.JSON(http.StatusNotFound, errorBody{
			Code:    apperrors.ErrorCode_NOT_FOUND.String(),
			Message: "analysis not found",
		})
	}
	if errors.Is(err, apperrors.ErrTimeout) {
		return c.JSON(http.StatusGatewayTimeout, errorBody{
			Code:    apperrors.ErrorCode_TIMEOUT.String(),
			Message: "operation deadline exceeded",
		})
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}
	return c.JSON(http.StatusInternalServerError, errorBody{
		Code:    apperrors.ErrorCode_INTERNAL.String(),
		Message: "internal server error",
	})
}
