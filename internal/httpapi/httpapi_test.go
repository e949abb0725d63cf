package httpapi

import (
    "bytes"
    "encoding/json"
    "io"
    "net/http"
    "net/http/httptest"
    "testing"

    "log/slog"

    "github.com/fintrack/fintrackd/internal/storage/memory"
)

func testLogger() *slog.Logger {
    return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

type cycleResp struct {
    ID           string `json:"id"`
    SupplierDebt string `json:"supplier_debt"`
    QtyBought    string `json:"qty_bought"`
    TotalCost    string `json:"total_cost"`
    UnitCost     string `json:"unit_cost"`
}

type txResp struct {
    ID          string `json:"id"`
    Type        string `json:"type"`
    CustomerID  string `json:"customer_id"`
    IsDebt      bool   `json:"is_debt"`
    AmtBalance  string `json:"amt_balance"`
    QtyBalance  string `json:"qty_balance"`
    DebtBalance string `json:"debt_balance"`
    CostProfit  string `json:"cost_profit"`
    Description string `json:"description"`
}

type custResp struct {
    ID   string `json:"id"`
    Name string `json:"name"`
}

type errResp struct {
    Error string `json:"error"`
    Code  string `json:"code"`
}

func setup(t *testing.T) (*memory.Store, http.Handler) {
    t.Helper()
    store := memory.New()
    h := New(store, 7, testLogger()).Handler()
    return store, h
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
    t.Helper()
    var rd io.Reader
    if body != nil {
        b, err := json.Marshal(body)
        if err != nil {
            t.Fatalf("marshal: %v", err)
        }
        rd = bytes.NewReader(b)
    }
    req := httptest.NewRequest(method, path, rd)
    if body != nil {
        req.Header.Set("Content-Type", "application/json")
    }
    rec := httptest.NewRecorder()
    h.ServeHTTP(rec, req)
    return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
    t.Helper()
    var v T
    if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
        t.Fatalf("decode: %v: %s", err, rec.Body.String())
    }
    return v
}

func mustCycle(t *testing.T, h http.Handler, supplierDebt, qtyBought, totalCost string) cycleResp {
    t.Helper()
    rec := doJSON(t, h, http.MethodPost, "/v1/cycles", map[string]string{
        "supplier_debt": supplierDebt,
        "qty_bought":    qtyBought,
        "total_cost":    totalCost,
    })
    if rec.Code != http.StatusCreated {
        t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
    }
    return decode[cycleResp](t, rec)
}

func mustCustomer(t *testing.T, h http.Handler, name string) custResp {
    t.Helper()
    rec := doJSON(t, h, http.MethodPost, "/v1/customers", map[string]string{"name": name})
    if rec.Code != http.StatusCreated {
        t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
    }
    return decode[custResp](t, rec)
}

func TestPostCycle_ComputesUnitCost(t *testing.T) {
    _, h := setup(t)

    c := mustCycle(t, h, "100", "50", "500")
    if c.UnitCost != "10" {
        t.Fatalf("expected unit_cost 10, got %s", c.UnitCost)
    }

    rec := doJSON(t, h, http.MethodGet, "/v1/cycles/latest", nil)
    if rec.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d", rec.Code)
    }
    latest := decode[cycleResp](t, rec)
    if latest.ID != c.ID {
        t.Fatalf("latest cycle mismatch: %s vs %s", latest.ID, c.ID)
    }

    // zero quantity has no unit cost
    rec = doJSON(t, h, http.MethodPost, "/v1/cycles", map[string]string{
        "supplier_debt": "0", "qty_bought": "0", "total_cost": "10",
    })
    if rec.Code != http.StatusBadRequest {
        t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
    }
    if er := decode[errResp](t, rec); er.Code != "validation_error" {
        t.Fatalf("expected validation_error, got %+v", er)
    }
}

func TestRecording_RequiresActiveCycle(t *testing.T) {
    _, h := setup(t)
    cust := mustCustomer(t, h, "Ada")

    rec := doJSON(t, h, http.MethodPost, "/v1/transactions/sale", map[string]any{
        "customer_id":    cust.ID,
        "quantity_sold":  "1",
        "amount_paid":    "10",
        "amount_charged": "10",
    })
    if rec.Code != http.StatusNotFound {
        t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
    }
    if er := decode[errResp](t, rec); er.Code != "no_active_cycle" {
        t.Fatalf("expected no_active_cycle, got %+v", er)
    }

    rec = doJSON(t, h, http.MethodGet, "/v1/consolidation", nil)
    if rec.Code != http.StatusNotFound {
        t.Fatalf("expected 404, got %d", rec.Code)
    }
    if er := decode[errResp](t, rec); er.Code != "no_active_cycle" {
        t.Fatalf("expected no_active_cycle, got %+v", er)
    }
}

func TestSale_PartialPaymentCreatesDebt(t *testing.T) {
    _, h := setup(t)
    mustCycle(t, h, "100", "50", "500")
    cust := mustCustomer(t, h, "Ada")

    rec := doJSON(t, h, http.MethodPost, "/v1/transactions/sale", map[string]any{
        "customer_id":    cust.ID,
        "quantity_sold":  "5",
        "amount_paid":    "40",
        "amount_charged": "50",
    })
    if rec.Code != http.StatusCreated {
        t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
    }
    tx := decode[txResp](t, rec)
    if tx.Type != "sale" || !tx.IsDebt {
        t.Fatalf("unexpected classification: %+v", tx)
    }
    if tx.AmtBalance != "50" || tx.QtyBalance != "-5" || tx.DebtBalance != "10" {
        t.Fatalf("unexpected deltas: %+v", tx)
    }
    // charged 50 against 5 units at unit cost 10 leaves no margin
    if tx.CostProfit != "0" {
        t.Fatalf("expected zero profit, got %s", tx.CostProfit)
    }

    rec = doJSON(t, h, http.MethodGet, "/v1/customers/"+cust.ID+"/debt", nil)
    if rec.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d", rec.Code)
    }
    debt := decode[struct {
        Debt string `json:"debt"`
    }](t, rec)
    if debt.Debt != "10" {
        t.Fatalf("expected debt 10, got %s", debt.Debt)
    }

    rec = doJSON(t, h, http.MethodPost, "/v1/customers/"+cust.ID+"/repayments", map[string]string{
        "amount_paid": "10",
    })
    if rec.Code != http.StatusCreated {
        t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
    }
    rec = doJSON(t, h, http.MethodGet, "/v1/customers/"+cust.ID+"/debt", nil)
    debt = decode[struct {
        Debt string `json:"debt"`
    }](t, rec)
    if debt.Debt != "0" {
        t.Fatalf("expected settled debt, got %s", debt.Debt)
    }
}

func TestSale_UnknownCustomerRejected(t *testing.T) {
    _, h := setup(t)
    mustCycle(t, h, "0", "10", "100")

    rec := doJSON(t, h, http.MethodPost, "/v1/transactions/sale", map[string]any{
        "customer_id":    "2da8fd0b-54ff-4a59-9f66-2a2157a4a42e",
        "quantity_sold":  "1",
        "amount_paid":    "10",
        "amount_charged": "10",
    })
    if rec.Code != http.StatusNotFound {
        t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
    }
}

func TestCycleStats_WindowAndTotals(t *testing.T) {
    _, h := setup(t)
    c := mustCycle(t, h, "100", "50", "500")
    cust := mustCustomer(t, h, "Ada")

    doJSON(t, h, http.MethodPost, "/v1/transactions/sale", map[string]any{
        "customer_id":    cust.ID,
        "quantity_sold":  "2",
        "amount_paid":    "30",
        "amount_charged": "30",
    })
    doJSON(t, h, http.MethodPost, "/v1/transactions/expense", map[string]string{
        "amount":       "12",
        "expense_type": "fuel",
    })
    doJSON(t, h, http.MethodPost, "/v1/transactions/usage", map[string]string{
        "quantity": "1",
    })

    rec := doJSON(t, h, http.MethodGet, "/v1/cycles/"+c.ID+"/stats?window_days=3", nil)
    if rec.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
    }
    st := decode[struct {
        TotalSales    string `json:"total_sales"`
        TotalExpenses string `json:"total_expenses"`
        TotalProfit   string `json:"total_profit"`
        DailySales    []struct {
            Day    string `json:"day"`
            Amount string `json:"amount"`
        } `json:"daily_sales"`
        TypeCounts map[string]int `json:"type_counts"`
    }](t, rec)
    if st.TotalSales != "30" || st.TotalExpenses != "12" || st.TotalProfit != "18" {
        t.Fatalf("unexpected totals: %+v", st)
    }
    if len(st.DailySales) != 3 {
        t.Fatalf("expected 3 daily buckets, got %d", len(st.DailySales))
    }
    if st.DailySales[2].Amount != "30" {
        t.Fatalf("expected today's sales last, got %+v", st.DailySales)
    }
    if st.TypeCounts["sale"] != 1 || st.TypeCounts["expense"] != 1 || st.TypeCounts["usage"] != 1 {
        t.Fatalf("unexpected type counts: %+v", st.TypeCounts)
    }

    rec = doJSON(t, h, http.MethodGet, "/v1/cycles/"+c.ID+"/stats?window_days=0", nil)
    if rec.Code != http.StatusBadRequest {
        t.Fatalf("expected 400 for bad window, got %d", rec.Code)
    }
}

func TestConsolidation_PreviewAndCommit(t *testing.T) {
    _, h := setup(t)
    mustCycle(t, h, "100", "50", "500")

    rec := doJSON(t, h, http.MethodGet, "/v1/consolidation", nil)
    if rec.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d", rec.Code)
    }
    snap := decode[struct {
        Inventory string `json:"inventory"`
        Balance   string `json:"balance"`
        UnitCost  string `json:"unit_cost"`
    }](t, rec)
    if snap.Inventory != "50" || snap.Balance != "100" || snap.UnitCost != "10" {
        t.Fatalf("unexpected snapshot: %+v", snap)
    }

    rec = doJSON(t, h, http.MethodPost, "/v1/consolidation/preview", map[string]string{
        "actual_inventory": "40",
        "actual_balance":   "200",
    })
    if rec.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
    }
    rep := decode[struct {
        InventorySold       string `json:"inventory_sold"`
        TargetBalance       string `json:"target_balance"`
        BalanceDifference   string `json:"balance_difference"`
        InventoryDifference string `json:"inventory_difference"`
        Balanced            bool   `json:"balanced"`
        InventoryNote       string `json:"inventory_note"`
        BalanceNote         string `json:"balance_note"`
    }](t, rec)
    if rep.InventorySold != "10" || rep.TargetBalance != "200" {
        t.Fatalf("unexpected report: %+v", rep)
    }
    if rep.BalanceDifference != "0" || rep.BalanceNote != "" {
        t.Fatalf("expected balanced money position: %+v", rep)
    }
    if rep.InventoryDifference != "-10" || rep.Balanced {
        t.Fatalf("expected inventory shortfall: %+v", rep)
    }
    if rep.InventoryNote == "" {
        t.Fatalf("expected inventory note, got none")
    }

    rec = doJSON(t, h, http.MethodPost, "/v1/consolidation", map[string]string{
        "actual_inventory": "40",
        "actual_balance":   "200",
    })
    if rec.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
    }
    committed := decode[cycleResp](t, rec)
    if committed.QtyBought != "40" || committed.SupplierDebt != "200" {
        t.Fatalf("commit did not overwrite both fields: %+v", committed)
    }

    // committing negative counts is rejected
    rec = doJSON(t, h, http.MethodPost, "/v1/consolidation", map[string]string{
        "actual_inventory": "-1",
        "actual_balance":   "0",
    })
    if rec.Code != http.StatusBadRequest {
        t.Fatalf("expected 400, got %d", rec.Code)
    }
}

func TestCycleTransactions_Pagination(t *testing.T) {
    _, h := setup(t)
    c := mustCycle(t, h, "0", "10", "100")

    for i := 0; i < 5; i++ {
        rec := doJSON(t, h, http.MethodPost, "/v1/transactions/expense", map[string]string{
            "amount": "1",
        })
        if rec.Code != http.StatusCreated {
            t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
        }
    }

    type page struct {
        Rows       []txResp `json:"rows"`
        TotalCount int      `json:"total_count"`
        Page       int      `json:"page"`
        PageSize   int      `json:"page_size"`
    }
    seen := map[string]bool{}
    total := 0
    for p := 1; p <= 3; p++ {
        rec := doJSON(t, h, http.MethodGet, "/v1/cycles/"+c.ID+"/transactions?page="+itoa(p)+"&page_size=2", nil)
        if rec.Code != http.StatusOK {
            t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
        }
        pg := decode[page](t, rec)
        if pg.TotalCount != 5 {
            t.Fatalf("expected total 5, got %d", pg.TotalCount)
        }
        for _, row := range pg.Rows {
            if seen[row.ID] {
                t.Fatalf("transaction %s appeared on two pages", row.ID)
            }
            seen[row.ID] = true
        }
        total += len(pg.Rows)
    }
    if total != 5 {
        t.Fatalf("expected pages to concatenate to 5 rows, got %d", total)
    }

    // pages past the end are empty, not errors
    rec := doJSON(t, h, http.MethodGet, "/v1/cycles/"+c.ID+"/transactions?page=9&page_size=2", nil)
    if rec.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d", rec.Code)
    }
    pg := decode[page](t, rec)
    if len(pg.Rows) != 0 || pg.TotalCount != 5 {
        t.Fatalf("expected empty page with total 5, got %+v", pg)
    }
}

func TestCustomers_CreateValidation(t *testing.T) {
    _, h := setup(t)

    rec := doJSON(t, h, http.MethodPost, "/v1/customers", map[string]string{"name": "   "})
    if rec.Code != http.StatusBadRequest {
        t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
    }

    cust := mustCustomer(t, h, "Ada")
    rec = doJSON(t, h, http.MethodPatch, "/v1/customers/"+cust.ID, map[string]string{"notes": "pays weekly"})
    if rec.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
    }

    rec = doJSON(t, h, http.MethodGet, "/v1/customers", nil)
    list := decode[[]custResp](t, rec)
    if len(list) != 1 || list[0].Name != "Ada" {
        t.Fatalf("unexpected customer list: %+v", list)
    }
}
