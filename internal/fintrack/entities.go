package fintrack

import (
    "time"

    "github.com/google/uuid"
    "github.com/shopspring/decimal"
)

// TransactionType enumerates the kinds of ledger entries the tracker records.
type TransactionType string

const (
    // TypeSale records units leaving inventory against money charged to a customer.
    TypeSale TransactionType = "sale"
    // TypeExpense records money leaving the business with no inventory movement.
    TypeExpense TransactionType = "expense"
    // TypeUsage records inventory consumed internally, valued at the cycle's unit cost.
    TypeUsage TransactionType = "usage"
    // TypeDebtIncrease raises a customer's owed balance without a sale.
    TypeDebtIncrease TransactionType = "debt_increase"
    // TypeRepayment reduces a customer's owed balance by money received.
    TypeRepayment TransactionType = "repayment"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
    switch t {
    case TypeSale, TypeExpense, TypeUsage, TypeDebtIncrease, TypeRepayment:
        return true
    }
    return false
}

// Cycle represents one purchasing period. A cycle owns the unit-cost baseline
// every Sale and Usage in it is valued against. Only SupplierDebt and
// QtyBought ever change after creation, and only through a consolidation
// commit.
type Cycle struct {
    ID        uuid.UUID
    CreatedAt time.Time
    // SupplierDebt is the opening liability to the supplier for this cycle.
    SupplierDebt decimal.Decimal
    // QtyBought is the quantity acquired at the start of the cycle.
    QtyBought decimal.Decimal
    // TotalCost is the money spent acquiring QtyBought.
    TotalCost decimal.Decimal
    // UnitCost = TotalCost / QtyBought, computed once at creation and stored.
    UnitCost decimal.Decimal
}

// Customer is a named party that can carry debt across cycles.
type Customer struct {
    ID    uuid.UUID
    Name  string
    Notes string
}

// Transaction is an immutable, append-only ledger entry holding signed deltas
// to money, inventory, customer debt and profit. Every transaction belongs to
// exactly one cycle; Sale, DebtIncrease and Repayment additionally reference
// a customer.
type Transaction struct {
    ID         uuid.UUID
    CreatedAt  time.Time
    Type       TransactionType
    CycleID    uuid.UUID
    CustomerID *uuid.UUID
    // IsDebt marks entries that touch a customer's owed balance.
    IsDebt bool
    // AmtBalance is the signed money delta for this entry.
    AmtBalance decimal.Decimal
    // QtyBalance is the signed inventory delta.
    QtyBalance decimal.Decimal
    // DebtBalance is the signed customer-debt delta; positive increases what
    // the customer owes.
    DebtBalance decimal.Decimal
    // CostProfit is the signed profit delta.
    CostProfit  decimal.Decimal
    Notes       string
    Description string
}
