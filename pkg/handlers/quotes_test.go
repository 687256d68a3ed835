package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/agrilink-hq/agrilink-engine/pkg/apperrors"
	"github.com/agrilink-hq/agrilink-engine/pkg/models"
	"github.com/agrilink-hq/agrilink-engine/pkg/services"
)

func TestQuoteHandler_CreateQuote(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := &mockQuoteService{quote: &models.Quote{ID: uuid.New(), Status: models.QuotePending, TotalAmount: 1250}}
		h := NewQuoteHandler(svc, zap.NewNop())

		body, _ := json.Marshal(services.QuoteTerms{ProductName: "Mangoes", Quantity: 500, Unit: "kg", UnitPrice: 2.5})
		req := authedRequest(http.MethodPost, "/api/connections/x/quotes?role=FARMER", body, "user-1")
		req.SetPathValue("connection_id", uuid.New().String())
		rec := httptest.NewRecorder()
		h.CreateQuote(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"total_amount":1250`)
	})

	t.Run("pending connection maps to 409", func(t *testing.T) {
		svc := &mockQuoteService{err: fmt.Errorf("connection is not accepted: %w", apperrors.ErrConflict)}
		h := NewQuoteHandler(svc, zap.NewNop())

		body, _ := json.Marshal(services.QuoteTerms{ProductName: "Mangoes", Quantity: 1, UnitPrice: 1})
		req := authedRequest(http.MethodPost, "/api/connections/x/quotes?role=FARMER", body, "user-1")
		req.SetPathValue("connection_id", uuid.New().String())
		rec := httptest.NewRecorder()
		h.CreateQuote(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("invalid terms map to 400", func(t *testing.T) {
		svc := &mockQuoteService{err: fmt.Errorf("quantity must be positive: %w", apperrors.ErrValidation)}
		h := NewQuoteHandler(svc, zap.NewNop())

		req := authedRequest(http.MethodPost, "/api/connections/x/quotes?role=FARMER", []byte(`{}`), "user-1")
		req.SetPathValue("connection_id", uuid.New().String())
		rec := httptest.NewRecorder()
		h.CreateQuote(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestQuoteHandler_RespondToQuote(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		svc := &mockQuoteService{quote: &models.Quote{ID: uuid.New(), Status: models.QuoteAccepted}}
		h := NewQuoteHandler(svc, zap.NewNop())

		body, _ := json.Marshal(respondQuoteRequest{Decision: models.QuoteAccepted})
		req := authedRequest(http.MethodPost, "/api/quotes/x/respond?role=COMPANY", body, "user-1")
		req.SetPathValue("quote_id", svc.quote.ID.String())
		rec := httptest.NewRecorder()
		h.RespondToQuote(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), string(models.QuoteAccepted))
	})

	t.Run("sender responding maps to 403", func(t *testing.T) {
		svc := &mockQuoteService{err: fmt.Errorf("only the counterparty may respond to a quote: %w", apperrors.ErrAuthorization)}
		h := NewQuoteHandler(svc, zap.NewNop())

		body, _ := json.Marshal(respondQuoteRequest{Decision: models.QuoteAccepted})
		req := authedRequest(http.MethodPost, "/api/quotes/x/respond?role=FARMER", body, "user-1")
		req.SetPathValue("quote_id", uuid.New().String())
		rec := httptest.NewRecorder()
		h.RespondToQuote(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("settled quote maps to 409", func(t *testing.T) {
		svc := &mockQuoteService{err: fmt.Errorf("quote already responded to: %w", apperrors.ErrConflict)}
		h := NewQuoteHandler(svc, zap.NewNop())

		body, _ := json.Marshal(respondQuoteRequest{Decision: models.QuoteDeclined})
		req := authedRequest(http.MethodPost, "/api/quotes/x/respond?role=COMPANY", body, "user-1")
		req.SetPathValue("quote_id", uuid.New().String())
		rec := httptest.NewRecorder()
		h.RespondToQuote(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestQuoteHandler_ListQuotes(t *testing.T) {
	svc := &mockQuoteService{}
	h := NewQuoteHandler(svc, zap.NewNop())

	req := authedRequest(http.MethodGet, "/api/connections/x/quotes?role=FARMER", nil, "user-1")
	req.SetPathValue("connection_id", uuid.New().String())
	rec := httptest.NewRecorder()
	h.ListQuotes(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"data":[]`)
}
