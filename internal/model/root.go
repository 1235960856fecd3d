package model

import (
	"github.com/labstack/echo/v4"
)

// ResponseBody defines the standard response envelope returned by every endpoint.
//
// swagger:model
type ResponseBody struct {
	// The result of the request if it was successful
	Result interface{} `json:"result,omitempty"`

	// A description of the problem if the request failed
	Error *string `json:"error,omitempty"`

	// The HTTP status code of the response
	Status int `json:"status"`
}

// SuccessResponse builds a response body for a successful request.
func SuccessResponse(data interface{}, code int) *ResponseBody {
	return &ResponseBody{
		Result: data,
		Status: code,
	}
}

// ErrorResponse builds a response body for a failed request.
func ErrorResponse(msg string, code int) *ResponseBody {
	return &ResponseBody{
		Error:  &msg,
		Status: code,
	}
}

// Success sends a successful response to the caller.
func Success(ctx echo.Context, data interface{}, code int) error {
	return ctx.JSON(code, SuccessResponse(data, code))
}

// Error sends an error response to the caller.
func Error(ctx echo.Context, msg string, code int) error {
	return ctx.JSON(code, ErrorResponse(msg, code))
}
