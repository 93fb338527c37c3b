// Package rest holds the JSON helpers shared by the HTTP handlers.
package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gestfin/gestfin/internal/database"
	"github.com/gestfin/gestfin/internal/failure"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Errorf("could not encode response: %v", err)
	}
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorResponse{Error: message})
}

// WriteFailure maps a service error: conflicts to 409, other business rules
// to 400 and everything else to 500 with the generic message.
func WriteFailure(w http.ResponseWriter, err error) {
	switch {
	case failure.IsConflict(err):
		WriteError(w, http.StatusConflict, err.Error())
	case failure.IsRule(err):
		WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, failure.ErrOperationFailed):
		WriteError(w, http.StatusInternalServerError, err.Error())
	default:
		log.Errorf("unexpected error: %v", err)
		WriteError(w, http.StatusInternalServerError, failure.ErrOperationFailed.Error())
	}
}

// WriteFound writes entity with 200, or 404 when it is nil.
func WriteFound[T any](w http.ResponseWriter, entity *T, err error) {
	if err != nil {
		WriteFailure(w, err)
		return
	}
	if entity == nil {
		WriteError(w, http.StatusNotFound, "not found")
		return
	}
	WriteJSON(w, http.StatusOK, entity)
}

// WriteDeleted writes 204 when a row was deleted, 404 otherwise.
func WriteDeleted(w http.ResponseWriter, ok bool, err error) {
	if err != nil {
		WriteFailure(w, err)
		return
	}
	if !ok {
		WriteError(w, http.StatusNotFound, "not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func DecodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		log.Debugf("invalid request body: %v", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body format")
		return false
	}
	return true
}

// PathId reads an integer path variable, writing 400 when it is malformed.
func PathId(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("invalid %s", name))
		return 0, false
	}
	return id, true
}

// Query holds the optional query parameters of a list request. Parsing
// errors accumulate in Err so handlers check once.
type Query struct {
	r   *http.Request
	Err error
}

func NewQuery(r *http.Request) *Query {
	return &Query{r: r}
}

func (q *Query) String(name string) *string {
	if !q.r.URL.Query().Has(name) {
		return nil
	}
	v := q.r.URL.Query().Get(name)
	return &v
}

func (q *Query) Int(name string) *int {
	s := q.String(name)
	if s == nil {
		return nil
	}
	v, err := strconv.Atoi(*s)
	if err != nil {
		q.fail(name, err)
		return nil
	}
	return &v
}

func (q *Query) Bool(name string) bool {
	s := q.String(name)
	if s == nil {
		return false
	}
	if *s == "" {
		return true
	}
	v, err := strconv.ParseBool(*s)
	if err != nil {
		q.fail(name, err)
		return false
	}
	return v
}

func (q *Query) Date(name string) *time.Time {
	s := q.String(name)
	if s == nil {
		return nil
	}
	v, err := database.ParseDate(*s)
	if err != nil {
		q.fail(name, err)
		return nil
	}
	return &v
}

func (q *Query) Decimal(name string) *decimal.Decimal {
	s := q.String(name)
	if s == nil {
		return nil
	}
	v, err := decimal.NewFromString(*s)
	if err != nil {
		q.fail(name, err)
		return nil
	}
	return &v
}

func (q *Query) fail(name string, err error) {
	if q.Err == nil {
		q.Err = fmt.Errorf("invalid query parameter %s: %w", name, err)
	}
}

// Valid writes 400 when a parameter could not be parsed.
func (q *Query) Valid(w http.ResponseWriter) bool {
	if q.Err != nil {
		WriteError(w, http.StatusBadRequest, q.Err.Error())
		return false
	}
	return true
}
