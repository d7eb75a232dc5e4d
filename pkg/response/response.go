package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/charlesng35/askai/pkg/errors"
)

// Response is the envelope used by the read-only JSON API.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// Meta describes pagination metadata.
type Meta struct {
	Page       int `json:"page,omitempty"`
	PerPage    int `json:"per_page,omitempty"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// AnswerPayload is the body of a successful ask.
type AnswerPayload struct {
	Answer string `json:"answer"`
}

// ErrorPayload is the body of every failed request.
type ErrorPayload struct {
	Error string `json:"error"`
}

// Answer writes a 200 {"answer": ...} response.
func Answer(c *gin.Context, answer string) {
	c.JSON(http.StatusOK, AnswerPayload{Answer: answer})
}

// Success writes a JSON success envelope.
func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Data:    data,
	})
}

// SuccessWithMeta writes a JSON success envelope including metadata.
func SuccessWithMeta(c *gin.Context, statusCode int, data interface{}, meta *Meta) {
	c.JSON(statusCode, Response{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

// Error writes {"error": message} using the AppError's status, 500 when unknown.
// The message carries the internal cause verbatim.
func Error(c *gin.Context, err error) {
	if err == nil {
		err = appErrors.ErrInternalServer
	}

	appErr := appErrors.FromError(err)
	status := appErr.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}

	c.JSON(status, ErrorPayload{Error: appErr.Error()})
}

// Abort writes an error response and stops the handler chain.
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}
