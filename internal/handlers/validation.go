package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/charlesng35/askai/pkg/errors"
	appValidator "github.com/charlesng35/askai/pkg/validator"
)

type askRequest struct {
	Question string `json:"question" validate:"required"`
}

// bindAsk decodes the ask body. Every failure maps to an error the ask endpoint
// renders as a 500.
func bindAsk(c *gin.Context) (askRequest, error) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, appErrors.ErrMalformedRequest.WithInternal(err)
	}

	if err := appValidator.ValidateStruct(req); err != nil {
		var vErrs appValidator.ValidationErrors
		if errors.As(err, &vErrs) && vErrs.Has("question", "required") {
			return req, appErrors.ErrQuestionRequired
		}
		return req, appErrors.ErrMalformedRequest.WithInternal(err)
	}

	return req, nil
}

// positiveQueryInt reads an optional positive integer query parameter.
func positiveQueryInt(c *gin.Context, name string) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, appErrors.NewBadRequest(name + " must be a positive integer")
	}
	return value, nil
}
