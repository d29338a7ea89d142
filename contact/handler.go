package contact

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"contact-gateway/contact/application"
	"contact-gateway/contact/domain"
)

// MaxBodyBytes limita o corpo do POST.
const MaxBodyBytes = 64 << 10

type Handler struct {
	validator *application.Validator
	service   application.Service
	logger    *slog.Logger
}

func NewHandler(validator *application.Validator, service application.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{validator: validator, service: service, logger: logger}
}

// Routes registra o endpoint. limit envolve apenas o POST; o health probe
// nunca é limitado. limit nil desliga o rate limit.
func (h *Handler) Routes(mux *http.ServeMux, limit func(http.Handler) http.Handler) {
	submit := http.Handler(http.HandlerFunc(h.Submit))
	if limit != nil {
		submit = limit(submit)
	}
	mux.Handle("POST /api/contact", h.recoverer(submit))
	mux.Handle("GET /api/contact", h.recoverer(http.HandlerFunc(h.Health)))
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, statusData{Status: msgOperational})
}

// Submit assume que o rate limit já rodou.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	var sub domain.Submission
	switch out := h.validator.Validate(body).(type) {
	case domain.Accepted:
		sub = out.Submission
	case domain.Rejected:
		writeError(w, http.StatusBadRequest, validationLabel+out.Message())
		return
	default:
		h.logger.Error("unexpected validation outcome", "type", fmt.Sprintf("%T", out))
		writeError(w, http.StatusInternalServerError, msgUnexpected)
		return
	}

	if _, err := h.service.Deliver(r.Context(), sub); err != nil {
		h.logger.Error("contact form error", "error", err)
		writeError(w, http.StatusInternalServerError, msgUnexpected)
		return
	}

	writeSuccess(w, messageData{Message: msgThanks})
}

// decodeBody lê exatamente um valor JSON; lixo depois dele também é erro.
func decodeBody(w http.ResponseWriter, r *http.Request) (any, error) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))

	var body any
	if err := dec.Decode(&body); err != nil {
		return nil, err
	}
	if err := dec.Decode(new(json.RawMessage)); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after JSON body")
	}
	return body, nil
}

// recoverer converte panic em 500 genérico; o detalhe só vai para o log.
func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				h.logger.Error("panic in contact handler", "panic", rec, "path", r.URL.Path)
				writeError(w, http.StatusInternalServerError, msgUnexpected)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
