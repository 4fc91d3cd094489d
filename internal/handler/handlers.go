// Package handler translates HTTP requests into calls against the analyzer,
// translator, matcher, and record store, and renders the results back as
// JSON responses.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/lexel/strdb/internal/analyzer"
	apperrors "github.com/lexel/strdb/internal/errors"
	"github.com/lexel/strdb/internal/metrics"
	"github.com/lexel/strdb/internal/model"
	"github.com/lexel/strdb/internal/query"
	"github.com/lexel/strdb/internal/store"
	"github.com/lexel/strdb/internal/validation"
)

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	store        store.RecordStore
	validator    *validation.Validator
	errorHandler *apperrors.Handler
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(
	st store.RecordStore,
	validator *validation.Validator,
	errorHandler *apperrors.Handler,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		store:        st,
		validator:    validator,
		errorHandler: errorHandler,
		metrics:      m,
		logger:       logger,
	}
}

// ListResponse is the response body for filtered listing.
type ListResponse struct {
	Count int                   `json:"count"`
	Data  []*model.StringRecord `json:"data"`
}

// QueryResponse is the response body for natural-language queries. It echoes
// the original query and the filters derived from it.
type QueryResponse struct {
	Query   string                `json:"query"`
	Filters query.Filters         `json:"filters"`
	Count   int                   `json:"count"`
	Data    []*model.StringRecord `json:"data"`
}

// CreateString handles POST /v1/strings. The value must be a JSON string;
// any other JSON type is rejected as unprocessable rather than bad request.
func (h *Handlers) CreateString(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Value json.RawMessage `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorHandler.HandleError(w, r, apperrors.InvalidInput("invalid JSON body"))
		return
	}
	// json.Unmarshal leaves the target untouched for a JSON null, so null
	// has to be treated as missing here rather than as an empty string.
	if len(req.Value) == 0 || string(req.Value) == "null" {
		h.errorHandler.HandleError(w, r, apperrors.InvalidInput("value is required"))
		return
	}

	var value string
	if err := json.Unmarshal(req.Value, &value); err != nil {
		h.errorHandler.HandleError(w, r, apperrors.WrongValueType("value must be a string"))
		return
	}

	if err := h.validator.ValidateValue(value); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	record := model.NewStringRecord(value)
	if err := h.store.Insert(r.Context(), record); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			h.errorHandler.HandleError(w, r, apperrors.DuplicateKey(record.ID))
			return
		}
		h.logger.Error("insert failed", zap.String("id", record.ID), zap.Error(err))
		h.errorHandler.HandleError(w, r, apperrors.Internal("failed to store record", err))
		return
	}

	h.metrics.RecordCreated()
	h.logger.Info("record created",
		zap.String("id", record.ID),
		zap.Int("length", record.Properties.Length))

	writeJSON(w, http.StatusCreated, record)
}

// GetString handles GET /v1/strings/{id}.
func (h *Handlers) GetString(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	record, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.errorHandler.HandleError(w, r, apperrors.NotFound(id))
			return
		}
		h.logger.Error("lookup failed", zap.String("id", id), zap.Error(err))
		h.errorHandler.HandleError(w, r, apperrors.Internal("failed to load record", err))
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// ListStrings handles GET /v1/strings with structured filter parameters.
func (h *Handlers) ListStrings(w http.ResponseWriter, r *http.Request) {
	filters, err := h.parseFilters(r.URL.Query())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if err := filters.Validate(); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	records, err := h.store.List(r.Context(), func(rec *model.StringRecord) bool {
		return query.Matches(rec.Properties, filters)
	})
	if err != nil {
		h.logger.Error("list failed", zap.Error(err))
		h.errorHandler.HandleError(w, r, apperrors.Internal("failed to list records", err))
		return
	}

	writeJSON(w, http.StatusOK, ListResponse{Count: len(records), Data: records})
}

// DeleteString handles DELETE /v1/strings/{id}.
func (h *Handlers) DeleteString(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, mux.Vars(r)["id"])
}

// DeleteStringByValue handles DELETE /v1/strings?value=... by hashing the
// value server-side and deleting the resulting id.
func (h *Handlers) DeleteStringByValue(w http.ResponseWriter, r *http.Request) {
	value := r.URL.Query().Get("value")
	if value == "" {
		h.errorHandler.HandleError(w, r, apperrors.InvalidInput("value query parameter is required"))
		return
	}

	h.deleteByID(w, r, analyzer.Hash(value))
}

func (h *Handlers) deleteByID(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.errorHandler.HandleError(w, r, apperrors.NotFound(id))
			return
		}
		h.logger.Error("delete failed", zap.String("id", id), zap.Error(err))
		h.errorHandler.HandleError(w, r, apperrors.Internal("failed to delete record", err))
		return
	}

	h.metrics.RecordDeleted()
	h.logger.Info("record deleted", zap.String("id", id))

	w.WriteHeader(http.StatusNoContent)
}

// QueryStrings handles POST /v1/query: translate the natural-language query,
// validate the derived filters, then match against stored records.
func (h *Handlers) QueryStrings(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorHandler.HandleError(w, r, apperrors.InvalidInput("invalid JSON body"))
		return
	}
	if req.Query == "" {
		h.errorHandler.HandleError(w, r, apperrors.InvalidInput("query is required"))
		return
	}

	translation, err := query.Translate(req.Query)
	if err != nil {
		h.metrics.RecordQueryTranslation("unparseable")
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.metrics.RecordQueryTranslation("ok")

	if err := translation.Filters.Validate(); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	records, err := h.store.List(r.Context(), func(rec *model.StringRecord) bool {
		return query.Matches(rec.Properties, translation.Filters)
	})
	if err != nil {
		h.logger.Error("query list failed", zap.Error(err))
		h.errorHandler.HandleError(w, r, apperrors.Internal("failed to list records", err))
		return
	}

	writeJSON(w, http.StatusOK, QueryResponse{
		Query:   translation.Query,
		Filters: translation.Filters,
		Count:   len(records),
		Data:    records,
	})
}

// parseFilters builds a structured filter set from query parameters.
func (h *Handlers) parseFilters(params url.Values) (query.Filters, error) {
	var f query.Filters

	if raw := params.Get("is_palindrome"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return f, apperrors.InvalidInput("is_palindrome must be a boolean")
		}
		f.IsPalindrome = &v
	}

	for _, p := range []struct {
		name string
		dst  **int
	}{
		{"min_length", &f.MinLength},
		{"max_length", &f.MaxLength},
		{"word_count", &f.WordCount},
	} {
		raw := params.Get(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return f, apperrors.InvalidInput(p.name + " must be a non-negative integer")
		}
		*p.dst = &v
	}

	if raw := params.Get("contains_character"); raw != "" {
		if err := h.validator.ValidateContainsCharacter(raw); err != nil {
			return f, err
		}
		f.ContainsCharacter = &raw
	}

	return f, nil
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}
