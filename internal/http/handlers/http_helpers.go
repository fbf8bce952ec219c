package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rogerio-castellano/inventory-ledger/internal/ledger"
	"github.com/rogerio-castellano/inventory-ledger/internal/logger"
	"github.com/rogerio-castellano/inventory-ledger/internal/query"
	"github.com/rogerio-castellano/inventory-ledger/internal/undo"
)

// readJSON tries to read the body of a request and converts it into JSON
func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	maxBytes := 1048576 // one megabyte
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	err := dec.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to read JSON: %w", err)
	}

	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must have only a single json value")
	}

	return nil
}

// writeJSON takes a response status code and arbitrary data and writes a json response to the client
func writeJSON(w http.ResponseWriter, status int, data any, headers ...http.Header) error {
	out, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to read JSON: %w", err)
	}

	if len(headers) > 0 {
		for key, value := range headers[0] {
			w.Header()[key] = value
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(out)
	if err != nil {
		return fmt.Errorf("failed to write to response: %w", err)
	}

	return nil
}

func respond(w http.ResponseWriter, r *http.Request, status int, data any) {
	if err := writeJSON(w, status, data); err != nil {
		log := logger.FromContext(r.Context())
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write JSON response")
	}
}

// statusFor maps a ledger error onto an HTTP status code.
func statusFor(err error) int {
	switch {
	case ledger.IsValidation(err), errors.Is(err, ledger.ErrInputShape):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrConflict), errors.Is(err, ledger.ErrInsufficientStock), errors.Is(err, undo.ErrEmpty):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrProductNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// writeError reports err to the client. Validation failures are returned as
// a JSON list so the caller can point at the offending field.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)

	var ve *ledger.ValidationError
	if errors.As(err, &ve) {
		respond(w, r, status, []ValidationErrorResponse{{Field: ve.Field, Description: ve.Message}})
		return
	}

	if status == http.StatusInternalServerError {
		log := logger.FromContext(r.Context())
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		http.Error(w, "internal error", status)
		return
	}
	http.Error(w, err.Error(), status)
}

// fixOffset reverses the substitution from + for space in a query
// timestamp, otherwise time.Parse will fail with an error.
// Example: 2025-07-03T17:44:03+02:00 becomes 2025-07-03T17:44:03 02:00 on r.URL.Query().Get()
func fixOffset(s string) string {
	if len(s) == len(time.RFC3339) && s[len(s)-6] == ' ' {
		return s[:len(s)-6] + "+" + s[len(s)-5:]
	}
	return s
}

// parseInstant reads an optional RFC3339 query parameter.
func parseInstant(r *http.Request, name string) (*time.Time, error) {
	s := fixOffset(r.URL.Query().Get(name))
	if s == "" {
		return nil, nil
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, &ledger.ValidationError{Field: name, Message: fmt.Sprintf("invalid %s date format", name)}
	}
	return &ts, nil
}

// parseDay reads an optional YYYY-MM-DD query parameter in the ledger time zone.
func parseDay(r *http.Request, name string) (*time.Time, error) {
	s := strings.TrimSpace(r.URL.Query().Get(name))
	if s == "" {
		return nil, nil
	}
	d, err := time.ParseInLocation(query.DateLayout, s, ledgerSvc.Location())
	if err != nil {
		return nil, &ledger.ValidationError{Field: name, Message: "date must be YYYY-MM-DD"}
	}
	return &d, nil
}

func parseInt(r *http.Request, name string) (*int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, &ledger.ValidationError{Field: name, Message: fmt.Sprintf("invalid %s format", name)}
	}
	return &v, nil
}

func productFilter(r *http.Request) query.ProductFilter {
	return query.ProductFilter{
		SKU:  r.URL.Query().Get("sku"),
		Name: r.URL.Query().Get("name"),
	}
}
