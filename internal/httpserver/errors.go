package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Skotchmaster/clothing_shop/internal/logging"
	"github.com/Skotchmaster/clothing_shop/internal/payment/razorpay"
	"github.com/Skotchmaster/clothing_shop/internal/service"
	"github.com/labstack/echo/v4"
)

var sentinels = []struct {
	err    error
	status int
}{
	{service.ErrValidation, http.StatusBadRequest},
	{service.ErrUnauthorized, http.StatusUnauthorized},
	{service.ErrForbidden, http.StatusForbidden},
	{service.ErrNotFound, http.StatusNotFound},
	{service.ErrConflict, http.StatusConflict},
}

// message strips the sentinel text from a wrapped service error.
func message(err, sentinel error) string {
	msg := err.Error()
	msg = strings.TrimPrefix(msg, sentinel.Error()+": ")
	msg = strings.TrimSuffix(msg, ": "+sentinel.Error())
	return msg
}

// fail logs err under "<op>_error" and converts it to an HTTP error. Internal
// errors never leak their text to the client.
func fail(l *slog.Logger, op string, err error) error {
	for _, s := range sentinels {
		if errors.Is(err, s.err) {
			msg := message(err, s.err)
			l.Warn(op+"_error", "status", s.status, "reason", msg, "error", err)
			return echo.NewHTTPError(s.status, msg)
		}
	}
	if errors.Is(err, razorpay.ErrNotConfigured) {
		l.Error(op+"_error", "status", 503, "reason", "payment gateway not configured", "error", err)
		return echo.NewHTTPError(http.StatusServiceUnavailable, "payment gateway not configured")
	}
	l.Error(op+"_error", "status", 500, "reason", "internal error", "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
}

func badRequest(l *slog.Logger, op, reason string, err error) error {
	l.Warn(op+"_error", "status", 400, "reason", reason, "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, reason)
}

// ErrorHandler renders every error as {success:false, message}.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := "internal error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if code < 500 || he.Internal == nil {
			switch m := he.Message.(type) {
			case string:
				msg = m
			case error:
				msg = m.Error()
			default:
				msg = http.StatusText(code)
			}
		}
	} else {
		logging.FromContext(c.Request().Context()).Error("unhandled_error", "error", err)
	}
	if code >= 500 && msg == "" {
		msg = http.StatusText(code)
	}

	body := map[string]any{"success": false, "message": msg}
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, body)
	}
	if err != nil {
		logging.FromContext(c.Request().Context()).Error("error_handler_failed", "error", err)
	}
}
