package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/mmynk/spendbook/internal/calculator"
	"github.com/mmynk/spendbook/internal/middleware"
	"github.com/mmynk/spendbook/internal/models"
	"github.com/mmynk/spendbook/internal/service"
)

type transactionsResponse struct {
	Transactions []models.Transaction `json:"transactions"`
	Transaction  *models.Transaction  `json:"transaction,omitempty"`
	Message      string               `json:"message,omitempty"`
}

// reportQuery reads timeFilter, item, year and month from the query string.
func reportQuery(r *http.Request) (service.ReportQuery, error) {
	q := service.ReportQuery{
		TimeFilter: models.TimeFilter(r.URL.Query().Get("timeFilter")),
		Item:       r.URL.Query().Get("item"),
	}
	var err error
	if q.Year, err = queryInt(r, "year"); err != nil {
		return q, err
	}
	if q.Month, err = queryInt(r, "month"); err != nil {
		return q, err
	}
	return q, nil
}

func transactionID(r *http.Request) (int64, error) {
	raw := r.URL.Query().Get("id")
	if raw == "" {
		return 0, service.ValidationError("id is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, service.ValidationError("id must be an integer")
	}
	return id, nil
}

func (h *handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	email := middleware.GetEmail(r.Context())

	var (
		txs []models.Transaction
		err error
	)
	if len(r.URL.Query()) == 0 {
		txs, err = h.Transactions.List(r.Context(), email)
	} else {
		var q service.ReportQuery
		if q, err = reportQuery(r); err == nil {
			txs, err = h.Reports.Filtered(r.Context(), email, q)
		}
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, transactionsResponse{Transactions: txs})
}

func (h *handler) addTransaction(w http.ResponseWriter, r *http.Request) {
	var in service.TransactionInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	tx, txs, err := h.Transactions.Add(r.Context(), middleware.GetEmail(r.Context()), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, transactionsResponse{
		Transactions: txs,
		Transaction:  &tx,
		Message:      "transaction added",
	})
}

func (h *handler) updateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := transactionID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in service.TransactionInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	txs, err := h.Transactions.Update(r.Context(), middleware.GetEmail(r.Context()), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, transactionsResponse{Transactions: txs, Message: "transaction updated"})
}

func (h *handler) removeTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := transactionID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	txs, err := h.Transactions.Remove(r.Context(), middleware.GetEmail(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, transactionsResponse{Transactions: txs, Message: "transaction deleted"})
}

func (h *handler) summary(w http.ResponseWriter, r *http.Request) {
	q, err := reportQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	summary, err := h.Reports.Summary(r.Context(), middleware.GetEmail(r.Context()), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *handler) calendar(w http.ResponseWriter, r *http.Request) {
	year, err := queryInt(r, "year")
	if err != nil {
		writeError(w, r, err)
		return
	}
	month, err := queryInt(r, "month")
	if err != nil {
		writeError(w, r, err)
		return
	}
	days, err := h.Reports.Calendar(r.Context(), middleware.GetEmail(r.Context()), year, month)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if days == nil {
		days = []calculator.DaySummary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"days": days})
}

func (h *handler) chart(w http.ResponseWriter, r *http.Request) {
	q, err := reportQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	png, err := h.Reports.Chart(r.Context(), middleware.GetEmail(r.Context()), q)
	if errors.Is(err, service.ErrEmptyChart) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(png)
}
