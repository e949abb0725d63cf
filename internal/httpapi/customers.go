package httpapi

import (
    "net/http"

    "github.com/fintrack/fintrackd/internal/fintrack"
)

func (s *Server) postCustomer(w http.ResponseWriter, r *http.Request) {
    var req customerRequest
    if err := decodeJSON(r, &req); err != nil {
        writeErr(w, http.StatusBadRequest, "invalid JSON body", codeValidation)
        return
    }
    c, err := s.customers.Create(r.Context(), req.Name, req.Notes)
    if err != nil {
        s.respondErr(w, err)
        return
    }
    toJSON(w, http.StatusCreated, toCustomerResponse(c))
}

func (s *Server) listCustomers(w http.ResponseWriter, r *http.Request) {
    cs, err := s.customers.List(r.Context())
    if err != nil {
        s.respondErr(w, err)
        return
    }
    out := make([]customerResponse, 0, len(cs))
    for _, c := range cs {
        out = append(out, toCustomerResponse(c))
    }
    toJSON(w, http.StatusOK, out)
}

func (s *Server) patchCustomer(w http.ResponseWriter, r *http.Request) {
    customerID, ok := pathID(r)
    if !ok {
        writeErr(w, http.StatusBadRequest, "invalid customer id", codeValidation)
        return
    }
    var req customerNotesRequest
    if err := decodeJSON(r, &req); err != nil {
        writeErr(w, http.StatusBadRequest, "invalid JSON body", codeValidation)
        return
    }
    c, err := s.customers.UpdateNotes(r.Context(), customerID, req.Notes)
    if err != nil {
        s.respondErr(w, err)
        return
    }
    toJSON(w, http.StatusOK, toCustomerResponse(c))
}

func (s *Server) customerTransactions(w http.ResponseWriter, r *http.Request) {
    customerID, ok := pathID(r)
    if !ok {
        writeErr(w, http.StatusBadRequest, "invalid customer id", codeValidation)
        return
    }
    txs, err := s.customers.Transactions(r.Context(), customerID)
    if err != nil {
        s.respondErr(w, err)
        return
    }
    toJSON(w, http.StatusOK, toTransactionResponses(txs))
}

func (s *Server) customerDebt(w http.ResponseWriter, r *http.Request) {
    customerID, ok := pathID(r)
    if !ok {
        writeErr(w, http.StatusBadRequest, "invalid customer id", codeValidation)
        return
    }
    debt, err := s.customers.Debt(r.Context(), customerID)
    if err != nil {
        s.respondErr(w, err)
        return
    }
    toJSON(w, http.StatusOK, customerDebtResponse{CustomerID: customerID, Debt: debt.String()})
}

func (s *Server) postDebtIncrease(w http.ResponseWriter, r *http.Request) {
    customerID, ok := pathID(r)
    if !ok {
        writeErr(w, http.StatusBadRequest, "invalid customer id", codeValidation)
        return
    }
    var req debtIncreaseRequest
    if err := decodeJSON(r, &req); err != nil {
        writeErr(w, http.StatusBadRequest, "invalid JSON body", codeValidation)
        return
    }
    amount, err := parseDecimal("amount", req.Amount)
    if err != nil {
        writeErr(w, http.StatusBadRequest, err.Error(), codeValidation)
        return
    }
    tx, err := s.books.RecordDebtIncrease(r.Context(), fintrack.DebtIncreaseInput{
        CustomerID: customerID,
        Amount:     amount,
        Notes:      req.Notes,
    })
    if err != nil {
        s.respondErr(w, err)
        return
    }
    toJSON(w, http.StatusCreated, toTransactionResponse(tx))
}

func (s *Server) postRepayment(w http.ResponseWriter, r *http.Request) {
    customerID, ok := pathID(r)
    if !ok {
        writeErr(w, http.StatusBadRequest, "invalid customer id", codeValidation)
        return
    }
    var req repaymentRequest
    if err := decodeJSON(r, &req); err != nil {
        writeErr(w, http.StatusBadRequest, "invalid JSON body", codeValidation)
        return
    }
    paid, err := parseDecimal("amount_paid", req.AmountPaid)
    if err != nil {
        writeErr(w, http.StatusBadRequest, err.Error(), codeValidation)
        return
    }
    tx, err := s.books.RecordRepayment(r.Context(), fintrack.RepaymentInput{
        CustomerID: customerID,
        AmountPaid: paid,
        Notes:      req.Notes,
    })
    if err != nil {
        s.respondErr(w, err)
        return
    }
    toJSON(w, http.StatusCreated, toTransactionResponse(tx))
}
