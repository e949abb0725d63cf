package httpapi

import (
    "net/http"

    chi "github.com/go-chi/chi/v5"
    "github.com/google/uuid"
)

func (s *Server) postCycle(w http.ResponseWriter, r *http.Request) {
    var req createCycleRequest
    if err := decodeJSON(r, &req); err != nil {
        writeErr(w, http.StatusBadRequest, "invalid JSON body", codeValidation)
        return
    }
    supplierDebt, err := parseDecimal("supplier_debt", req.SupplierDebt)
    if err != nil {
        writeErr(w, http.StatusBadRequest, err.Error(), codeValidation)
        return
    }
    qtyBought, err := parseDecimal("qty_bought", req.QtyBought)
    if err != nil {
        writeErr(w, http.StatusBadRequest, err.Error(), codeValidation)
        return
    }
    totalCost, err := parseDecimal("total_cost", req.TotalCost)
    if err != nil {
        writeErr(w, http.StatusBadRequest, err.Error(), codeValidation)
        return
    }
    c, err := s.books.CreateCycle(r.Context(), supplierDebt, qtyBought, totalCost)
    if err != nil {
        s.respondErr(w, err)
        return
    }
    toJSON(w, http.StatusCreated, toCycleResponse(c))
}

func (s *Server) listCycles(w http.ResponseWriter, r *http.Request) {
    cs, err := s.books.ListCycles(r.Context())
    if err != nil {
        s.respondErr(w, err)
        return
    }
    toJSON(w, http.StatusOK, toCycleResponses(cs))
}

func (s *Server) latestCycle(w http.ResponseWriter, r *http.Request) {
    c, err := s.books.LatestCycle(r.Context())
    if err != nil {
        s.respondErr(w, err)
        return
    }
    toJSON(w, http.StatusOK, toCycleResponse(c))
}

// pathID parses the {id} URL parameter as a UUID.
func pathID(r *http.Request) (uuid.UUID, bool) {
    id, err := uuid.Parse(chi.URLParam(r, "id"))
    return id, err == nil
}
