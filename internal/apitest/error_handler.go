package apitest

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// messageResponse is the error envelope of the service: {"message": "..."}.
type messageResponse struct {
	Message string `json:"message"`
}

// httpErrorHandler renders every error as a message envelope, the way the
// service's error handlers do.
func httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := "Internal server error"

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		msg = fmt.Sprintf("%v", he.Message)
		if he == echo.ErrNotFound {
			msg = "Resource not found"
		}
	}

	_ = c.JSON(code, messageResponse{Message: msg})
}
