package fintrack

import "github.com/shopspring/decimal"

// ConsolidationReport compares a physically counted state against the
// store-derived expectation for the latest cycle.
type ConsolidationReport struct {
    // InventorySold = storedQtyBought - actualInventory.
    InventorySold decimal.Decimal
    // TargetBalance = storedSupplierDebt + InventorySold*unitCost: the cash
    // position the ledger implies given how much inventory is gone.
    TargetBalance decimal.Decimal
    // BalanceDifference = actualBalance - TargetBalance.
    BalanceDifference decimal.Decimal
    // InventoryDifference = actualInventory - storedQtyBought.
    InventoryDifference decimal.Decimal
    // BalanceDiscrepancy = actualBalance - storedSupplierDebt.
    BalanceDiscrepancy decimal.Decimal
    // Balanced is true iff both differences are exactly zero.
    Balanced bool
    // BalanceNote and InventoryNote classify non-zero differences for the
    // operator; empty when the corresponding difference is zero.
    BalanceNote   string
    InventoryNote string
}

// Reconcile computes the consolidation report for a cycle. It never mutates
// anything; committing the counted values is a separate store operation.
func Reconcile(c Cycle, actualInventory, actualBalance decimal.Decimal) ConsolidationReport {
    r := ConsolidationReport{
        InventorySold:       c.QtyBought.Sub(actualInventory),
        InventoryDifference: actualInventory.Sub(c.QtyBought),
        BalanceDiscrepancy:  actualBalance.Sub(c.SupplierDebt),
    }
    r.TargetBalance = c.SupplierDebt.Add(r.InventorySold.Mul(c.UnitCost))
    r.BalanceDifference = actualBalance.Sub(r.TargetBalance)
    r.Balanced = r.BalanceDifference.IsZero() && r.InventoryDifference.IsZero()

    switch {
    case r.BalanceDifference.IsPositive():
        r.BalanceNote = "actual balance is higher than expected; this could indicate unrecorded expenses or usage"
    case r.BalanceDifference.IsNegative():
        r.BalanceNote = "actual balance is lower than expected; this could indicate unrecorded sales or income"
    }
    switch {
    case r.InventoryDifference.IsPositive():
        r.InventoryNote = "inventory discrepancy: " + r.InventoryDifference.Abs().String() + " units more than expected"
    case r.InventoryDifference.IsNegative():
        r.InventoryNote = "inventory discrepancy: " + r.InventoryDifference.Abs().String() + " units less than expected"
    }
    return r
}
