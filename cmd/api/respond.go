package main

import (
	"github.com/gin-gonic/gin"

	"github.com/streamtube/streamtube/internal/apperr"
)

// apiResponse is the success envelope every endpoint returns.
type apiResponse struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
}

// apiError is the failure envelope. The message is always client-safe; the
// underlying cause only reaches the log.
type apiError struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors"`
}

func respond(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, apiResponse{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    true,
	})
}

// fail converts any error into the error envelope. Unclassified errors are
// treated as internal and logged with their cause.
func (api *API) fail(c *gin.Context, err error) {
	appErr := apperr.From(err)
	status := apperr.HTTPStatus(appErr.Code)

	if appErr.Code == apperr.CodeInternal {
		api.log.ErrorWithErr("request failed", err)
	} else {
		api.log.WithField("code", string(appErr.Code)).Debug(appErr.Message)
	}

	c.JSON(status, apiError{
		StatusCode: status,
		Message:    appErr.Message,
		Success:    false,
		Errors:     []string{},
	})
}
