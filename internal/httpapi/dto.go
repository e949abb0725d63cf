package httpapi

import (
    "fmt"
    "strings"
    "time"

    "github.com/google/uuid"
    "github.com/shopspring/decimal"

    "github.com/fintrack/fintrackd/internal/fintrack"
    "github.com/fintrack/fintrackd/internal/service/books"
)

// All monetary and quantity fields travel as decimal strings so no precision
// is lost to float JSON numbers.

type createCycleRequest struct {
    SupplierDebt string `json:"supplier_debt"`
    QtyBought    string `json:"qty_bought"`
    TotalCost    string `json:"total_cost"`
}

type cycleResponse struct {
    ID           uuid.UUID `json:"id"`
    CreatedAt    time.Time `json:"created_at"`
    SupplierDebt string    `json:"supplier_debt"`
    QtyBought    string    `json:"qty_bought"`
    TotalCost    string    `json:"total_cost"`
    UnitCost     string    `json:"unit_cost"`
}

type saleRequest struct {
    CustomerID    uuid.UUID `json:"customer_id"`
    QuantitySold  string    `json:"quantity_sold"`
    AmountPaid    string    `json:"amount_paid"`
    AmountCharged string    `json:"amount_charged"`
    Notes         string    `json:"notes"`
}

type expenseRequest struct {
    Amount      string `json:"amount"`
    ExpenseType string `json:"expense_type"`
    Notes       string `json:"notes"`
}

type usageRequest struct {
    Quantity string `json:"quantity"`
    Notes    string `json:"notes"`
}

type debtIncreaseRequest struct {
    Amount string `json:"amount"`
    Notes  string `json:"notes"`
}

type repaymentRequest struct {
    AmountPaid string `json:"amount_paid"`
    Notes      string `json:"notes"`
}

type transactionResponse struct {
    ID          uuid.UUID  `json:"id"`
    CreatedAt   time.Time  `json:"created_at"`
    Type        string     `json:"type"`
    CycleID     uuid.UUID  `json:"cycle_id"`
    CustomerID  *uuid.UUID `json:"customer_id,omitempty"`
    IsDebt      bool       `json:"is_debt"`
    AmtBalance  string     `json:"amt_balance"`
    QtyBalance  string     `json:"qty_balance"`
    DebtBalance string     `json:"debt_balance"`
    CostProfit  string     `json:"cost_profit"`
    Notes       string     `json:"notes,omitempty"`
    Description string     `json:"description"`
}

type transactionPageResponse struct {
    Rows       []transactionResponse `json:"rows"`
    TotalCount int                   `json:"total_count"`
    Page       int                   `json:"page"`
    PageSize   int                   `json:"page_size"`
}

type customerRequest struct {
    Name  string `json:"name"`
    Notes string `json:"notes"`
}

type customerNotesRequest struct {
    Notes string `json:"notes"`
}

type customerResponse struct {
    ID    uuid.UUID `json:"id"`
    Name  string    `json:"name"`
    Notes string    `json:"notes,omitempty"`
}

type customerDebtResponse struct {
    CustomerID uuid.UUID `json:"customer_id"`
    Debt       string    `json:"debt"`
}

type dayAmountDTO struct {
    Day    string `json:"day"`
    Amount string `json:"amount"`
}

type cycleStatsResponse struct {
    TotalSales    string         `json:"total_sales"`
    TotalExpenses string         `json:"total_expenses"`
    TotalProfit   string         `json:"total_profit"`
    DailySales    []dayAmountDTO `json:"daily_sales"`
    DailyProfit   []dayAmountDTO `json:"daily_profit"`
    TypeCounts    map[string]int `json:"type_counts"`
}

type consolidationSnapshotResponse struct {
    Inventory string `json:"inventory"`
    Balance   string `json:"balance"`
    UnitCost  string `json:"unit_cost"`
}

type consolidationRequest struct {
    ActualInventory string `json:"actual_inventory"`
    ActualBalance   string `json:"actual_balance"`
}

type consolidationReportResponse struct {
    InventorySold       string `json:"inventory_sold"`
    TargetBalance       string `json:"target_balance"`
    BalanceDifference   string `json:"balance_difference"`
    InventoryDifference string `json:"inventory_difference"`
    BalanceDiscrepancy  string `json:"balance_discrepancy"`
    Balanced            bool   `json:"balanced"`
    BalanceNote         string `json:"balance_note,omitempty"`
    InventoryNote       string `json:"inventory_note,omitempty"`
}

// parseDecimal parses a required decimal string field.
func parseDecimal(field, v string) (decimal.Decimal, error) {
    if strings.TrimSpace(v) == "" {
        return decimal.Decimal{}, fmt.Errorf("%s is required", field)
    }
    d, err := decimal.NewFromString(v)
    if err != nil {
        return decimal.Decimal{}, fmt.Errorf("%s must be a decimal number", field)
    }
    return d, nil
}

func toCycleResponse(c fintrack.Cycle) cycleResponse {
    return cycleResponse{
        ID:           c.ID,
        CreatedAt:    c.CreatedAt,
        SupplierDebt: c.SupplierDebt.String(),
        QtyBought:    c.QtyBought.String(),
        TotalCost:    c.TotalCost.String(),
        UnitCost:     c.UnitCost.String(),
    }
}

func toCycleResponses(cs []fintrack.Cycle) []cycleResponse {
    out := make([]cycleResponse, 0, len(cs))
    for _, c := range cs {
        out = append(out, toCycleResponse(c))
    }
    return out
}

func toTransactionResponse(tx fintrack.Transaction) transactionResponse {
    return transactionResponse{
        ID:          tx.ID,
        CreatedAt:   tx.CreatedAt,
        Type:        string(tx.Type),
        CycleID:     tx.CycleID,
        CustomerID:  tx.CustomerID,
        IsDebt:      tx.IsDebt,
        AmtBalance:  tx.AmtBalance.String(),
        QtyBalance:  tx.QtyBalance.String(),
        DebtBalance: tx.DebtBalance.String(),
        CostProfit:  tx.CostProfit.String(),
        Notes:       tx.Notes,
        Description: tx.Description,
    }
}

func toTransactionResponses(txs []fintrack.Transaction) []transactionResponse {
    out := make([]transactionResponse, 0, len(txs))
    for _, tx := range txs {
        out = append(out, toTransactionResponse(tx))
    }
    return out
}

func toPageResponse(p books.Page) transactionPageResponse {
    return transactionPageResponse{
        Rows:       toTransactionResponses(p.Rows),
        TotalCount: p.TotalCount,
        Page:       p.Page,
        PageSize:   p.PageSize,
    }
}

func toCustomerResponse(c fintrack.Customer) customerResponse {
    return customerResponse{ID: c.ID, Name: c.Name, Notes: c.Notes}
}

func toDayAmounts(ds []fintrack.DayAmount) []dayAmountDTO {
    out := make([]dayAmountDTO, 0, len(ds))
    for _, d := range ds {
        out = append(out, dayAmountDTO{Day: d.Day, Amount: d.Amount.String()})
    }
    return out
}

func toStatsResponse(st fintrack.CycleStats) cycleStatsResponse {
    counts := make(map[string]int, len(st.TypeCounts))
    for typ, n := range st.TypeCounts {
        counts[string(typ)] = n
    }
    return cycleStatsResponse{
        TotalSales:    st.TotalSales.String(),
        TotalExpenses: st.TotalExpenses.String(),
        TotalProfit:   st.TotalProfit.String(),
        DailySales:    toDayAmounts(st.DailySales),
        DailyProfit:   toDayAmounts(st.DailyProfit),
        TypeCounts:    counts,
    }
}

func toReportResponse(r fintrack.ConsolidationReport) consolidationReportResponse {
    return consolidationReportResponse{
        InventorySold:       r.InventorySold.String(),
        TargetBalance:       r.TargetBalance.String(),
        BalanceDifference:   r.BalanceDifference.String(),
        InventoryDifference: r.InventoryDifference.String(),
        BalanceDiscrepancy:  r.BalanceDiscrepancy.String(),
        Balanced:            r.Balanced,
        BalanceNote:         r.BalanceNote,
        InventoryNote:       r.InventoryNote,
    }
}
