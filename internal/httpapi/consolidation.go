package httpapi

import (
    "errors"
    "net/http"

    "github.com/shopspring/decimal"
)

func (s *Server) consolidationSnapshot(w http.ResponseWriter, r *http.Request) {
    snap, err := s.books.ConsolidationSnapshot(r.Context())
    if err != nil {
        s.respondErr(w, err)
        return
    }
    toJSON(w, http.StatusOK, consolidationSnapshotResponse{
        Inventory: snap.Inventory.String(),
        Balance:   snap.Balance.String(),
        UnitCost:  snap.UnitCost.String(),
    })
}

// decodeConsolidation parses the shared request body of preview and commit.
func decodeConsolidation(r *http.Request) (inventory, balance decimal.Decimal, err error) {
    var req consolidationRequest
    if err = decodeJSON(r, &req); err != nil {
        err = errors.New("invalid JSON body")
        return
    }
    if inventory, err = parseDecimal("actual_inventory", req.ActualInventory); err != nil {
        return
    }
    balance, err = parseDecimal("actual_balance", req.ActualBalance)
    return
}

func (s *Server) postConsolidationPreview(w http.ResponseWriter, r *http.Request) {
    inventory, balance, err := decodeConsolidation(r)
    if err != nil {
        writeErr(w, http.StatusBadRequest, err.Error(), codeValidation)
        return
    }
    report, err := s.books.PreviewConsolidation(r.Context(), inventory, balance)
    if err != nil {
        s.respondErr(w, err)
        return
    }
    toJSON(w, http.StatusOK, toReportResponse(report))
}

func (s *Server) postConsolidationCommit(w http.ResponseWriter, r *http.Request) {
    inventory, balance, err := decodeConsolidation(r)
    if err != nil {
        writeErr(w, http.StatusBadRequest, err.Error(), codeValidation)
        return
    }
    c, err := s.books.CommitConsolidation(r.Context(), inventory, balance)
    if err != nil {
        s.respondErr(w, err)
        return
    }
    toJSON(w, http.StatusOK, toCycleResponse(c))
}
