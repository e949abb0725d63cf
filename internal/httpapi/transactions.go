package httpapi

import (
    "net/http"
    "strconv"
    "time"

    "github.com/fintrack/fintrackd/internal/fintrack"
)

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
    txs, err := s.books.ListTransactions(r.Context())
    if err != nil {
        s.respondErr(w, err)
        return
    }
    toJSON(w, http.StatusOK, toTransactionResponses(txs))
}

// cycleTransactionsPage serves one page of a cycle's transactions, newest
// first. Missing or malformed paging parameters fall back to defaults.
func (s *Server) cycleTransactionsPage(w http.ResponseWriter, r *http.Request) {
    cycleID, ok := pathID(r)
    if !ok {
        writeErr(w, http.StatusBadRequest, "invalid cycle id", codeValidation)
        return
    }
    page, _ := strconv.Atoi(r.URL.Query().Get("page"))
    pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
    p, err := s.books.TransactionsPage(r.Context(), cycleID, page, pageSize)
    if err != nil {
        s.respondErr(w, err)
        return
    }
    toJSON(w, http.StatusOK, toPageResponse(p))
}

func (s *Server) cycleTransactionsAll(w http.ResponseWriter, r *http.Request) {
    cycleID, ok := pathID(r)
    if !ok {
        writeErr(w, http.StatusBadRequest, "invalid cycle id", codeValidation)
        return
    }
    txs, err := s.books.CycleTransactions(r.Context(), cycleID)
    if err != nil {
        s.respondErr(w, err)
        return
    }
    toJSON(w, http.StatusOK, toTransactionResponses(txs))
}

func (s *Server) cycleStats(w http.ResponseWriter, r *http.Request) {
    cycleID, ok := pathID(r)
    if !ok {
        writeErr(w, http.StatusBadRequest, "invalid cycle id", codeValidation)
        return
    }
    windowDays := s.windowDays
    if v := r.URL.Query().Get("window_days"); v != "" {
        n, err := strconv.Atoi(v)
        if err != nil || n < 1 {
            writeErr(w, http.StatusBadRequest, "window_days must be a positive integer", codeValidation)
            return
        }
        windowDays = n
    }
    st, err := s.books.CycleStats(r.Context(), cycleID, time.Now(), windowDays)
    if err != nil {
        s.respondErr(w, err)
        return
    }
    toJSON(w, http.StatusOK, toStatsResponse(st))
}

func (s *Server) postSale(w http.ResponseWriter, r *http.Request) {
    var req saleRequest
    if err := decodeJSON(r, &req); err != nil {
        writeErr(w, http.StatusBadRequest, "invalid JSON body", codeValidation)
        return
    }
    qty, err := parseDecimal("quantity_sold", req.QuantitySold)
    if err != nil {
        writeErr(w, http.StatusBadRequest, err.Error(), codeValidation)
        return
    }
    paid, err := parseDecimal("amount_paid", req.AmountPaid)
    if err != nil {
        writeErr(w, http.StatusBadRequest, err.Error(), codeValidation)
        return
    }
    charged, err := parseDecimal("amount_charged", req.AmountCharged)
    if err != nil {
        writeErr(w, http.StatusBadRequest, err.Error(), codeValidation)
        return
    }
    tx, err := s.books.RecordSale(r.Context(), fintrack.SaleInput{
        CustomerID:    req.CustomerID,
        QuantitySold:  qty,
        AmountPaid:    paid,
        AmountCharged: charged,
        Notes:         req.Notes,
    })
    if err != nil {
        s.respondErr(w, err)
        return
    }
    toJSON(w, http.StatusCreated, toTransactionResponse(tx))
}

func (s *Server) postExpense(w http.ResponseWriter, r *http.Request) {
    var req expenseRequest
    if err := decodeJSON(r, &req); err != nil {
        writeErr(w, http.StatusBadRequest, "invalid JSON body", codeValidation)
        return
    }
    amount, err := parseDecimal("amount", req.Amount)
    if err != nil {
        writeErr(w, http.StatusBadRequest, err.Error(), codeValidation)
        return
    }
    tx, err := s.books.RecordExpense(r.Context(), fintrack.ExpenseInput{
        Amount:      amount,
        ExpenseType: req.ExpenseType,
        Notes:       req.Notes,
    })
    if err != nil {
        s.respondErr(w, err)
        return
    }
    toJSON(w, http.StatusCreated, toTransactionResponse(tx))
}

func (s *Server) postUsage(w http.ResponseWriter, r *http.Request) {
    var req usageRequest
    if err := decodeJSON(r, &req); err != nil {
        writeErr(w, http.StatusBadRequest, "invalid JSON body", codeValidation)
        return
    }
    qty, err := parseDecimal("quantity", req.Quantity)
    if err != nil {
        writeErr(w, http.StatusBadRequest, err.Error(), codeValidation)
        return
    }
    tx, err := s.books.RecordUsage(r.Context(), fintrack.UsageInput{
        Quantity: qty,
        Notes:    req.Notes,
    })
    if err != nil {
        s.respondErr(w, err)
        return
    }
    toJSON(w, http.StatusCreated, toTransactionResponse(tx))
}
