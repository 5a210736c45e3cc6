package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"eventboard/internal/cache"
	"eventboard/internal/config"
	"eventboard/internal/domain/event"
	"eventboard/internal/http/middlewares"
	"eventboard/internal/observability"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Keep this small interface so tests can fake it easily.
type EventsCatalog interface {
	Create(ctx context.Context, req event.CreateEventRequest) (event.Details, error)
	Edit(ctx context.Context, id string, req event.UpdateEventRequest) (event.Details, error)
	Get(ctx context.Context, id string) (event.Details, error)
	List(ctx context.Context, f event.Filter) (event.Page, error)
	EventsForUser(ctx context.Context, userID string) ([]event.Summary, error)
}

type EventsHandler struct {
	catalog EventsCatalog
	cache   cache.Cache
	prom    *observability.Prom
}

func NewEventsHandler(catalog EventsCatalog, listCache cache.Cache, prom *observability.Prom) *EventsHandler {
	return &EventsHandler{
		catalog: catalog,
		cache:   listCache,
		prom:    prom,
	}
}

func (h *EventsHandler) CreateEvent(ctx *gin.Context) {
	var req event.CreateEventRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	details, err := h.catalog.Create(cctx, req)

	if err != nil {
		RespondDomainError(ctx, err)
		return
	}

	h.invalidateList(cctx)

	ctx.JSON(http.StatusCreated, details)
}

func (h *EventsHandler) UpdateEvent(ctx *gin.Context) {
	id := ctx.Param("id")

	if uuid.Validate(id) != nil {
		RespondBadRequest(ctx, "event id must be a valid UUID", nil)
		return
	}

	var req event.UpdateEventRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	details, err := h.catalog.Edit(cctx, id, req)

	if err != nil {
		RespondDomainError(ctx, err)
		return
	}

	h.invalidateList(cctx)

	ctx.JSON(http.StatusOK, details)
}

func (h *EventsHandler) GetEventByID(ctx *gin.Context) {
	id := ctx.Param("id")

	if uuid.Validate(id) != nil {
		RespondBadRequest(ctx, "event id must be a valid UUID", nil)
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	details, err := h.catalog.Get(cctx, id)

	if err != nil {
		RespondDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, details)
}

type listEventsQuery struct {
	Title      string `form:"title"`
	Location   string `form:"location"`
	Category   string `form:"category"`
	Date       string `form:"date"`
	PageNumber int    `form:"pageNumber,default=1"`
	PageSize   int    `form:"pageSize,default=10"`
}

func (h *EventsHandler) ListEvents(ctx *gin.Context) {
	var q listEventsQuery

	if !BindQuery(ctx, &q) {
		return
	}

	if q.PageNumber < 1 {
		RespondBadRequest(ctx, "pageNumber must be at least 1", nil)
		return
	}

	if q.PageSize < 1 || q.PageSize > 50 {
		RespondBadRequest(ctx, "pageSize must be between 1 and 50", nil)
		return
	}

	f := event.Filter{
		PageNumber: q.PageNumber,
		PageSize:   q.PageSize,
	}

	if q.Title != "" {
		f.Title = &q.Title
	}
	if q.Location != "" {
		f.Location = &q.Location
	}
	if q.Category != "" {
		f.Category = &q.Category
	}
	if q.Date != "" {
		d, err := time.Parse("2006-01-02", q.Date)
		if err != nil {
			RespondBadRequest(ctx, "date must be formatted as YYYY-MM-DD", nil)
			return
		}
		f.OnDate = &d
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	key := cache.BuildEventsListKey(f)

	if h.cache != nil {
		if raw, ok := h.cache.Get(cctx, key); ok {
			h.cacheResult("hit")
			ctx.Data(http.StatusOK, "application/json; charset=utf-8", raw)
			return
		}
		h.cacheResult("miss")
	}

	page, err := h.catalog.List(cctx, f)

	if err != nil {
		RespondDomainError(ctx, err)
		return
	}

	if h.cache != nil {
		if raw, err := json.Marshal(page); err == nil {
			h.cache.Set(cctx, key, raw)
		}
	}

	ctx.JSON(http.StatusOK, page)
}

func (h *EventsHandler) MyEvents(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || userID == "" {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	events, err := h.catalog.EventsForUser(cctx, userID)

	if err != nil {
		RespondDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items": events,
		"count": len(events),
	})
}

func (h *EventsHandler) invalidateList(ctx context.Context) {
	if h.cache != nil {
		h.cache.Clear(ctx)
	}
}

func (h *EventsHandler) cacheResult(result string) {
	if h.prom != nil {
		h.prom.CacheResults.WithLabelValues(result).Inc()
	}
}
