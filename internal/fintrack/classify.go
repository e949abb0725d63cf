package fintrack

import (
    "fmt"

    "github.com/google/uuid"
    "github.com/shopspring/decimal"

    "github.com/fintrack/fintrackd/internal/errs"
)

// The classifier maps raw form input for each transaction type to a fully
// signed ledger entry. All functions here are pure: identity and timestamps
// are assigned by the service when the entry is persisted.

// SaleInput carries the raw fields of a sale.
type SaleInput struct {
    CustomerID    uuid.UUID
    QuantitySold  decimal.Decimal
    AmountPaid    decimal.Decimal
    AmountCharged decimal.Decimal
    Notes         string
}

// ExpenseInput carries the raw fields of an expense.
type ExpenseInput struct {
    Amount      decimal.Decimal
    ExpenseType string
    Notes       string
}

// UsageInput carries the raw fields of an internal inventory usage.
type UsageInput struct {
    Quantity decimal.Decimal
    Notes    string
}

// DebtIncreaseInput raises a customer's owed balance without a sale.
type DebtIncreaseInput struct {
    CustomerID uuid.UUID
    Amount     decimal.Decimal
    Notes      string
}

// RepaymentInput records money received against a customer's owed balance.
type RepaymentInput struct {
    CustomerID uuid.UUID
    AmountPaid decimal.Decimal
    Notes      string
}

func invalidf(format string, args ...any) error {
    return fmt.Errorf(format+": %w", append(args, errs.ErrInvalid)...)
}

// NewSale classifies a sale against the given cycle's unit cost.
//
//	amtBalance  = +amountCharged
//	qtyBalance  = -quantitySold
//	debtBalance = max(amountCharged - amountPaid, 0)
//	costProfit  = amountCharged - quantitySold*unitCost
//
// The entry is a debt entry iff amountCharged > amountPaid.
func NewSale(c Cycle, in SaleInput) (Transaction, error) {
    if in.CustomerID == uuid.Nil {
        return Transaction{}, invalidf("customer_id is required")
    }
    if in.QuantitySold.IsNegative() {
        return Transaction{}, invalidf("quantity_sold must not be negative")
    }
    if in.AmountPaid.IsNegative() {
        return Transaction{}, invalidf("amount_paid must not be negative")
    }
    if in.AmountCharged.IsNegative() {
        return Transaction{}, invalidf("amount_charged must not be negative")
    }
    isDebt := in.AmountCharged.GreaterThan(in.AmountPaid)
    debt := decimal.Zero
    if isDebt {
        debt = in.AmountCharged.Sub(in.AmountPaid)
    }
    customerID := in.CustomerID
    return Transaction{
        Type:        TypeSale,
        CycleID:     c.ID,
        CustomerID:  &customerID,
        IsDebt:      isDebt,
        AmtBalance:  in.AmountCharged,
        QtyBalance:  in.QuantitySold.Neg(),
        DebtBalance: debt,
        CostProfit:  in.AmountCharged.Sub(in.QuantitySold.Mul(c.UnitCost)),
        Notes:       in.Notes,
        Description: "Sale of " + in.QuantitySold.String() + " units",
    }, nil
}

// NewExpense classifies money leaving the business with no inventory movement.
func NewExpense(c Cycle, in ExpenseInput) (Transaction, error) {
    if in.Amount.IsNegative() {
        return Transaction{}, invalidf("amount must not be negative")
    }
    desc := "Expense"
    if in.ExpenseType != "" {
        desc = "Expense: " + in.ExpenseType
    }
    return Transaction{
        Type:        TypeExpense,
        CycleID:     c.ID,
        AmtBalance:  in.Amount.Neg(),
        QtyBalance:  decimal.Zero,
        DebtBalance: decimal.Zero,
        CostProfit:  in.Amount.Neg(),
        Notes:       in.Notes,
        Description: desc,
    }, nil
}

// NewUsage classifies inventory consumed internally, valued at the cycle's
// unit cost. The money and profit deltas are identical:
// amtBalance = costProfit = -(quantity*unitCost).
func NewUsage(c Cycle, in UsageInput) (Transaction, error) {
    if in.Quantity.IsNegative() {
        return Transaction{}, invalidf("quantity must not be negative")
    }
    value := in.Quantity.Mul(c.UnitCost)
    return Transaction{
        Type:        TypeUsage,
        CycleID:     c.ID,
        AmtBalance:  value.Neg(),
        QtyBalance:  in.Quantity.Neg(),
        DebtBalance: decimal.Zero,
        CostProfit:  value.Neg(),
        Notes:       in.Notes,
        Description: "Usage of " + in.Quantity.String() + " units",
    }, nil
}

// NewDebtIncrease raises a customer's owed balance.
func NewDebtIncrease(c Cycle, in DebtIncreaseInput) (Transaction, error) {
    if in.CustomerID == uuid.Nil {
        return Transaction{}, invalidf("customer_id is required")
    }
    if in.Amount.IsNegative() {
        return Transaction{}, invalidf("amount must not be negative")
    }
    customerID := in.CustomerID
    return Transaction{
        Type:        TypeDebtIncrease,
        CycleID:     c.ID,
        CustomerID:  &customerID,
        IsDebt:      true,
        AmtBalance:  in.Amount,
        QtyBalance:  decimal.Zero,
        DebtBalance: in.Amount,
        CostProfit:  decimal.Zero,
        Notes:       in.Notes,
        Description: "Debt increase",
    }, nil
}

// NewRepayment records money received against a customer's owed balance.
func NewRepayment(c Cycle, in RepaymentInput) (Transaction, error) {
    if in.CustomerID == uuid.Nil {
        return Transaction{}, invalidf("customer_id is required")
    }
    if in.AmountPaid.IsNegative() {
        return Transaction{}, invalidf("amount_paid must not be negative")
    }
    customerID := in.CustomerID
    return Transaction{
        Type:        TypeRepayment,
        CycleID:     c.ID,
        CustomerID:  &customerID,
        IsDebt:      true,
        AmtBalance:  in.AmountPaid,
        QtyBalance:  decimal.Zero,
        DebtBalance: in.AmountPaid.Neg(),
        CostProfit:  decimal.Zero,
        Notes:       in.Notes,
        Description: "Repayment",
    }, nil
}

// NewCycle validates cycle creation input and computes the stored unit cost.
// QtyBought must be strictly positive: the unit cost divides by it.
func NewCycle(supplierDebt, qtyBought, totalCost decimal.Decimal) (Cycle, error) {
    if supplierDebt.IsNegative() {
        return Cycle{}, invalidf("supplier_debt must not be negative")
    }
    if !qtyBought.IsPositive() {
        return Cycle{}, invalidf("qty_bought must be greater than zero")
    }
    if totalCost.IsNegative() {
        return Cycle{}, invalidf("total_cost must not be negative")
    }
    return Cycle{
        SupplierDebt: supplierDebt,
        QtyBought:    qtyBought,
        TotalCost:    totalCost,
        UnitCost:     totalCost.Div(qtyBought),
    }, nil
}
