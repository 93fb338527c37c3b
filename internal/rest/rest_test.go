package rest

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gestfin/gestfin/internal/failure"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFailure(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{name: "conflict", err: failure.Conflict("budget already exists"), status: http.StatusConflict, message: "budget already exists"},
		{name: "rule", err: failure.Rule("amount must be greater than zero"), status: http.StatusBadRequest, message: "amount must be greater than zero"},
		{name: "store", err: fmt.Errorf("could not create bill: %w", failure.ErrOperationFailed), status: http.StatusInternalServerError, message: "could not create bill: operation impossible"},
		{name: "unexpected", err: errors.New("disk I/O error"), status: http.StatusInternalServerError, message: "operation impossible"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			WriteFailure(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.JSONEq(t, fmt.Sprintf(`{"error": %q}`, tt.message), rec.Body.String())
		})
	}
}

func TestWriteFound(t *testing.T) {
	t.Run("should write 404 for nil", func(t *testing.T) {
		rec := httptest.NewRecorder()

		WriteFound[struct{}](rec, nil, nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("should write the entity", func(t *testing.T) {
		rec := httptest.NewRecorder()
		entity := struct {
			Name string `json:"name"`
		}{Name: "Diallo"}

		WriteFound(rec, &entity, nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"name": "Diallo"}`, rec.Body.String())
	})
}

func TestWriteDeleted(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteDeleted(rec, true, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	WriteDeleted(rec, false, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPathId(t *testing.T) {
	t.Run("should parse the variable", func(t *testing.T) {
		r := mux.SetURLVars(httptest.NewRequest("GET", "/api/bills/42", nil), map[string]string{"id": "42"})
		rec := httptest.NewRecorder()

		id, ok := PathId(rec, r, "id")

		assert.True(t, ok)
		assert.Equal(t, 42, id)
	})

	t.Run("should write 400 for a malformed variable", func(t *testing.T) {
		r := mux.SetURLVars(httptest.NewRequest("GET", "/api/bills/x", nil), map[string]string{"id": "x"})
		rec := httptest.NewRecorder()

		_, ok := PathId(rec, r, "id")

		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestQuery(t *testing.T) {
	t.Run("should parse present parameters", func(t *testing.T) {
		q := NewQuery(httptest.NewRequest("GET", "/?month=7&from=2025-07-01&amount=12.50&unread", nil))

		month := q.Int("month")
		from := q.Date("from")
		amount := q.Decimal("amount")
		unread := q.Bool("unread")

		require.NoError(t, q.Err)
		assert.Equal(t, 7, *month)
		assert.Equal(t, "2025-07-01", from.Format("2006-01-02"))
		assert.Equal(t, "12.5", amount.String())
		assert.True(t, unread)
		assert.Nil(t, q.Int("year"))
	})

	t.Run("should report the first malformed parameter", func(t *testing.T) {
		q := NewQuery(httptest.NewRequest("GET", "/?month=july&from=yesterday", nil))
		rec := httptest.NewRecorder()

		q.Int("month")
		q.Date("from")

		assert.False(t, q.Valid(rec))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "month")
	})
}
