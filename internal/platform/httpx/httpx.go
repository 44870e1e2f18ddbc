// Package httpx agrupa los helpers HTTP que antes estaban duplicados en cada handler.
package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"petshop-crm/internal/platform/apperr"
	"petshop-crm/internal/platform/logger"
)

const maxBody = 1 << 20

// ErrorBody es el cuerpo de todas las respuestas de error.
type ErrorBody struct {
	Error string `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError mapea la taxonomía de apperr a status HTTP.
// Los errores de validación se devuelven tal cual; el resto no filtra detalles internos.
func WriteError(w http.ResponseWriter, log logger.Logger, err error) {
	switch {
	case errors.Is(err, apperr.ErrInvalidInput):
		WriteJSON(w, http.StatusBadRequest, ErrorBody{Error: err.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		WriteJSON(w, http.StatusNotFound, ErrorBody{Error: "not found"})
	case errors.Is(err, apperr.ErrConflict), errors.Is(err, apperr.ErrInvalidState):
		WriteJSON(w, http.StatusConflict, ErrorBody{Error: err.Error()})
	case errors.Is(err, apperr.ErrForbidden):
		WriteJSON(w, http.StatusForbidden, ErrorBody{Error: "forbidden"})
	default:
		if log != nil {
			log.Error("request failed", map[string]any{"error": err})
		}
		WriteJSON(w, http.StatusInternalServerError, ErrorBody{Error: "internal error"})
	}
}

func Unauthorized(w http.ResponseWriter) {
	WriteJSON(w, http.StatusUnauthorized, ErrorBody{Error: "unauthorized"})
}

// DecodeJSON decodifica el body; un body vacío o inválido es ErrInvalidInput.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Invalid("empty body")
		}
		return apperr.Invalid("invalid json: %s", err.Error())
	}
	return nil
}

// TimeParam acepta RFC3339 o YYYY-MM-DD (medianoche en loc). Vacío => nil.
func TimeParam(r *http.Request, name string, loc *time.Location) (*time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation("2006-01-02", raw, loc)
	if err != nil {
		return nil, apperr.Invalid("%s must be RFC3339 or YYYY-MM-DD", name)
	}
	return &t, nil
}

// IntParam devuelve def si el parámetro no viene.
func IntParam(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Invalid("%s must be an integer", name)
	}
	return n, nil
}

func StringParam(r *http.Request, name string) string {
	return strings.TrimSpace(r.URL.Query().Get(name))
}

// OptionalTime parsea un RFC3339 opcional de un body.
func OptionalTime(field string, v *string) (*time.Time, error) {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(*v))
	if err != nil {
		return nil, apperr.Invalid("%s must be RFC3339", field)
	}
	return &t, nil
}

// RequiredTime parsea un RFC3339 obligatorio.
func RequiredTime(field, v string) (time.Time, error) {
	if strings.TrimSpace(v) == "" {
		return time.Time{}, apperr.Invalid("%s is required", field)
	}
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(v))
	if err != nil {
		return time.Time{}, apperr.Invalid("%s must be RFC3339", field)
	}
	return t, nil
}

// RangeParams lee from/to. Un "to" con solo fecha cubre el día completo (inclusive).
func RangeParams(r *http.Request, loc *time.Location) (from, to *time.Time, err error) {
	from, err = TimeParam(r, "from", loc)
	if err != nil {
		return nil, nil, err
	}
	to, err = TimeParam(r, "to", loc)
	if err != nil {
		return nil, nil, err
	}
	if to != nil && len(StringParam(r, "to")) == len("2006-01-02") {
		end := to.AddDate(0, 0, 1).Add(-time.Millisecond)
		to = &end
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, apperr.Invalid("to must be after from")
	}
	return from, to, nil
}
