package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/askai/internal/models"
	"github.com/charlesng35/askai/internal/querylog"
	appErrors "github.com/charlesng35/askai/pkg/errors"
	"github.com/charlesng35/askai/pkg/response"
)

// QueryReader exposes the stored question/answer history.
type QueryReader interface {
	Get(ctx context.Context, id querylog.RecordID) (*models.QueryRecord, error)
	List(ctx context.Context, opts querylog.ListOptions) ([]models.QueryRecord, int64, error)
}

// QueryHandler serves the read-only history API.
type QueryHandler struct {
	store QueryReader
}

// NewQueryHandler constructs a QueryHandler.
func NewQueryHandler(store QueryReader) (*QueryHandler, error) {
	if store == nil {
		return nil, errors.New("query handler: store is required")
	}
	return &QueryHandler{store: store}, nil
}

// List handles GET /api/queries.
func (h *QueryHandler) List(c *gin.Context) {
	page, err := positiveQueryInt(c, "page")
	if err != nil {
		response.Error(c, err)
		return
	}
	perPage, err := positiveQueryInt(c, "per_page")
	if err != nil {
		response.Error(c, err)
		return
	}

	opts := querylog.ListOptions{Page: page, PageSize: perPage}.Normalize()
	records, total, err := h.store.List(requestContext(c), opts)
	if err != nil {
		response.Error(c, err)
		return
	}

	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(opts.PageSize) - 1) / int64(opts.PageSize))
	}

	response.SuccessWithMeta(c, http.StatusOK, records, &response.Meta{
		Page:       opts.Page,
		PerPage:    opts.PageSize,
		Total:      int(total),
		TotalPages: totalPages,
	})
}

// Get handles GET /api/queries/:id.
func (h *QueryHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, appErrors.NewBadRequest("id must be a positive integer"))
		return
	}

	record, err := h.store.Get(requestContext(c), querylog.RecordID(id))
	if errors.Is(err, querylog.ErrNotFound) {
		response.Error(c, appErrors.New(appErrors.ErrNotFound.Code, "query not found", http.StatusNotFound))
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, record)
}
