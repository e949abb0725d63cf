package fintrack

import (
    "time"

    "github.com/shopspring/decimal"
)

// DayAmount is one point of a per-day series. Day is the local calendar date
// in YYYY-MM-DD form.
type DayAmount struct {
    Day    string
    Amount decimal.Decimal
}

// CycleStats is the dashboard view of one cycle's transaction set. It is a
// pure reduction: recomputing it from the same transactions always yields the
// same result.
type CycleStats struct {
    TotalSales    decimal.Decimal
    TotalExpenses decimal.Decimal
    // TotalProfit = TotalSales - TotalExpenses.
    TotalProfit decimal.Decimal
    // DailySales holds, for each of the window's calendar days (oldest
    // first), the summed sale amounts of that day; days without sales are
    // zero-filled.
    DailySales []DayAmount
    // DailyProfit holds sale profit minus expense magnitude per day over the
    // same window.
    DailyProfit []DayAmount
    // TypeCounts counts transactions per type among sale, expense and usage.
    TypeCounts map[TransactionType]int
}

// dayKey buckets a timestamp by calendar date in now's location.
func dayKey(t time.Time, loc *time.Location) string {
    return t.In(loc).Format("2006-01-02")
}

// ComputeCycleStats reduces one cycle's transactions into dashboard
// statistics. The window covers windowDays calendar days ending at now,
// inclusive; day boundaries follow now's location.
func ComputeCycleStats(txs []Transaction, now time.Time, windowDays int) CycleStats {
    if windowDays <= 0 {
        windowDays = 7
    }
    loc := now.Location()

    salesByDay := make(map[string]decimal.Decimal)
    profitByDay := make(map[string]decimal.Decimal)
    stats := CycleStats{
        TotalSales:    decimal.Zero,
        TotalExpenses: decimal.Zero,
        TypeCounts:    make(map[TransactionType]int, 3),
    }
    for _, tx := range txs {
        day := dayKey(tx.CreatedAt, loc)
        switch tx.Type {
        case TypeSale:
            stats.TotalSales = stats.TotalSales.Add(tx.AmtBalance)
            salesByDay[day] = salesByDay[day].Add(tx.AmtBalance)
            profitByDay[day] = profitByDay[day].Add(tx.CostProfit)
            stats.TypeCounts[TypeSale]++
        case TypeExpense:
            stats.TotalExpenses = stats.TotalExpenses.Add(tx.AmtBalance.Abs())
            profitByDay[day] = profitByDay[day].Sub(tx.AmtBalance.Abs())
            stats.TypeCounts[TypeExpense]++
        case TypeUsage:
            stats.TypeCounts[TypeUsage]++
        }
    }
    stats.TotalProfit = stats.TotalSales.Sub(stats.TotalExpenses)

    stats.DailySales = make([]DayAmount, 0, windowDays)
    stats.DailyProfit = make([]DayAmount, 0, windowDays)
    for i := windowDays - 1; i >= 0; i-- {
        day := dayKey(now.AddDate(0, 0, -i), loc)
        stats.DailySales = append(stats.DailySales, DayAmount{Day: day, Amount: salesByDay[day]})
        stats.DailyProfit = append(stats.DailyProfit, DayAmount{Day: day, Amount: profitByDay[day]})
    }
    return stats
}

// DebtTotal folds a customer's transactions into their running owed balance.
// The fold is order-independent and returns zero for an empty slice.
func DebtTotal(txs []Transaction) decimal.Decimal {
    total := decimal.Zero
    for _, tx := range txs {
        total = total.Add(tx.DebtBalance)
    }
    return total
}
