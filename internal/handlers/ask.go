package handlers

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/charlesng35/askai/internal/middleware"
	"github.com/charlesng35/askai/internal/querylog"
	appErrors "github.com/charlesng35/askai/pkg/errors"
	"github.com/charlesng35/askai/pkg/logger"
	"github.com/charlesng35/askai/pkg/metrics"
	"github.com/charlesng35/askai/pkg/response"
)

// Generator produces an answer for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// QueryAppender persists a question/answer pair.
type QueryAppender interface {
	Append(ctx context.Context, question, answer string) (querylog.RecordID, error)
}

// AskHandler forwards questions to the completion provider and logs each answered pair.
type AskHandler struct {
	generator Generator
	store     QueryAppender
	log       *zap.Logger
}

// NewAskHandler constructs an AskHandler.
func NewAskHandler(generator Generator, store QueryAppender) (*AskHandler, error) {
	if generator == nil {
		return nil, errors.New("ask handler: generator is required")
	}
	if store == nil {
		return nil, errors.New("ask handler: query store is required")
	}
	return &AskHandler{
		generator: generator,
		store:     store,
		log:       logger.WithModule("ask"),
	}, nil
}

// Ask handles POST /ask.
//
// The question is passed to the generator verbatim. A pair is stored only after a
// successful completion, and the answer is returned only after it has been stored.
// Every failure is reported as 500 {"error": message}.
func (h *AskHandler) Ask(c *gin.Context) {
	log := h.log.With(zap.String("request_id", middleware.GetRequestID(c)))

	req, err := bindAsk(c)
	if err != nil {
		h.fail(c, log, metrics.ResultInvalidRequest, err)
		return
	}
	log.Debug("question received", zap.String("question", req.Question))

	ctx := detachedContext(c)

	answer, err := h.generator.Generate(ctx, req.Question)
	if err != nil {
		h.fail(c, log, metrics.ResultCompletionError, appErrors.ErrCompletionFailed.WithInternal(err))
		return
	}
	log.Debug("answer generated", zap.String("answer", answer))

	id, err := h.store.Append(ctx, req.Question, answer)
	if err != nil {
		h.fail(c, log, metrics.ResultStoreError, appErrors.ErrStoreFailed.WithInternal(err))
		return
	}

	metrics.AskRequests.WithLabelValues(metrics.ResultSuccess).Inc()
	log.Debug("query stored", zap.Uint64("id", uint64(id)))
	response.Answer(c, answer)
}

func (h *AskHandler) fail(c *gin.Context, log *zap.Logger, result string, err error) {
	metrics.AskRequests.WithLabelValues(result).Inc()
	log.Error("ask failed", zap.String("result", result), zap.Error(err))
	_ = c.Error(err)
	response.Error(c, err)
}
