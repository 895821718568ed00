package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/navikt/dp-rapportering/internal/platform/middleware"
	"github.com/navikt/dp-rapportering/internal/rapportering/domain"
	dErrors "github.com/navikt/dp-rapportering/pkg/domain-errors"
	"github.com/navikt/dp-rapportering/pkg/platform/httputil"
)

// Service defines the event and read operations the handler needs.
type Service interface {
	Handle(ctx context.Context, event domain.Event) error
	Subject(ctx context.Context, ident string) (*domain.Subject, error)
}

// Handler exposes reporting periods over HTTP. Commands are translated to
// domain events and pushed through the same path as bus-delivered events.
type Handler struct {
	logger    *slog.Logger
	service   Service
	validator middleware.TokenValidator
	now       func() time.Time
}

// New creates a new reporting Handler.
func New(service Service, logger *slog.Logger, validator middleware.TokenValidator) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator,
		now:       time.Now,
	}
}

// Register registers the reporting routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	reportRouter := chi.NewRouter()
	reportRouter.Use(middleware.Recovery(h.logger))
	reportRouter.Use(middleware.RequestID)
	reportRouter.Use(middleware.Logger(h.logger))
	reportRouter.Use(middleware.Timeout(30 * time.Second))
	reportRouter.Use(middleware.ContentTypeJSON)
	reportRouter.Use(middleware.RequireAuth(h.validator, h.logger))

	reportRouter.Get("/rapportering/periods", h.handleListPeriods)
	reportRouter.Get("/rapportering/periods/{periodID}", h.handleGetPeriod)
	reportRouter.Post("/rapportering/periods/{periodID}/activities", h.handleRecordActivity)
	reportRouter.Post("/rapportering/periods/{periodID}/approve", h.handleApprove)
	reportRouter.Post("/rapportering/periods/{periodID}/deapprove", h.handleDeapprove)
	reportRouter.Post("/rapportering/periods/{periodID}/submit", h.handleSubmit)
	reportRouter.Post("/rapportering/periods/{periodID}/correction", h.handleCorrect)

	r.Mount("/", reportRouter)
}

func (h *Handler) handleListPeriods(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := middleware.GetClaims(ctx)

	subject, err := h.service.Subject(ctx, claims.Ident)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeNotFound) {
			httputil.WriteJSON(w, http.StatusOK, SubjectResponse{Ident: claims.Ident, Periods: []PeriodResponse{}})
			return
		}
		h.logError(ctx, "failed to load subject", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, ProjectSubject(subject, h.now()))
}

func (h *Handler) handleGetPeriod(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := middleware.GetClaims(ctx)

	periodID, err := parsePeriodID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	subject, err := h.service.Subject(ctx, claims.Ident)
	if err != nil {
		h.logError(ctx, "failed to load subject", err)
		httputil.WriteError(w, err)
		return
	}

	response := ProjectSubject(subject, h.now())
	for _, period := range response.Periods {
		if period.ID == periodID {
			httputil.WriteJSON(w, http.StatusOK, period)
			return
		}
	}
	httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "unknown period"))
}

type recordActivityRequest struct {
	Date  string  `json:"date"`
	Type  string  `json:"type"`
	Hours float64 `json:"hours"`
}

func (h *Handler) handleRecordActivity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := middleware.GetClaims(ctx)

	periodID, err := parsePeriodID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req recordActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "date must be on the form YYYY-MM-DD"))
		return
	}

	duration := time.Duration(req.Hours * float64(time.Hour))
	activity, err := domain.NewActivity(date, domain.ActivityType(req.Type), duration)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.dispatch(w, r, domain.ActivityRecorded{
		EventMeta: h.meta(claims.Ident),
		PeriodID:  periodID,
		Activity:  activity,
	})
}

type approvalRequest struct {
	Justification string `json:"justification"`
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := middleware.GetClaims(ctx)

	periodID, err := parsePeriodID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req approvalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	h.dispatch(w, r, domain.PeriodApproved{
		EventMeta:     h.meta(claims.Ident),
		PeriodID:      periodID,
		Actor:         actorFrom(claims),
		Justification: req.Justification,
	})
}

func (h *Handler) handleDeapprove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := middleware.GetClaims(ctx)

	periodID, err := parsePeriodID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req approvalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	h.dispatch(w, r, domain.PeriodDeapproved{
		EventMeta:     h.meta(claims.Ident),
		PeriodID:      periodID,
		Actor:         actorFrom(claims),
		Justification: req.Justification,
	})
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	periodID, err := parsePeriodID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.dispatch(w, r, domain.PeriodSubmitted{
		EventMeta: h.meta(claims.Ident),
		PeriodID:  periodID,
	})
}

func (h *Handler) handleCorrect(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	periodID, err := parsePeriodID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.dispatch(w, r, domain.PeriodCorrected{
		EventMeta:     h.meta(claims.Ident),
		PriorPeriodID: periodID,
	})
}

// dispatch pushes the event through the service and maps the outcome onto the
// response.
func (h *Handler) dispatch(w http.ResponseWriter, r *http.Request, event domain.Event) {
	ctx := r.Context()
	if err := h.service.Handle(ctx, event); err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) {
			h.logError(ctx, "failed to apply event", err)
		}
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) meta(ident string) domain.EventMeta {
	return domain.EventMeta{EventID: uuid.New(), Ident: ident, CreatedAt: h.now()}
}

func (h *Handler) logError(ctx context.Context, msg string, err error) {
	h.logger.ErrorContext(ctx, msg,
		"request_id", middleware.GetRequestID(ctx),
		"error", err.Error(),
	)
}

func actorFrom(claims *middleware.TokenClaims) domain.Actor {
	if claims.Caseworker {
		return domain.Actor{Kind: domain.ActorCaseworker, ID: claims.ActorID}
	}
	return domain.Actor{Kind: domain.ActorClaimant, ID: claims.ActorID}
}

func parsePeriodID(r *http.Request) (uuid.UUID, error) {
	periodID, err := uuid.Parse(chi.URLParam(r, "periodID"))
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeValidation, "period id must be a uuid")
	}
	return periodID, nil
}
