package memory

import (
    "context"
    "errors"
    "testing"
    "time"

    "github.com/google/uuid"
    "github.com/shopspring/decimal"

    "github.com/fintrack/fintrackd/internal/errs"
    "github.com/fintrack/fintrackd/internal/fintrack"
)

func seedCycle(t *testing.T, s *Store, createdAt time.Time) fintrack.Cycle {
    t.Helper()
    c := fintrack.Cycle{
        ID:           uuid.New(),
        CreatedAt:    createdAt,
        SupplierDebt: decimal.NewFromInt(100),
        QtyBought:    decimal.NewFromInt(50),
        TotalCost:    decimal.NewFromInt(500),
        UnitCost:     decimal.NewFromInt(10),
    }
    if _, err := s.CreateCycle(context.Background(), c); err != nil {
        t.Fatalf("CreateCycle: %v", err)
    }
    return c
}

func seedTx(t *testing.T, s *Store, cycleID uuid.UUID, createdAt time.Time) fintrack.Transaction {
    t.Helper()
    tx := fintrack.Transaction{
        ID:        uuid.New(),
        CreatedAt: createdAt,
        Type:      fintrack.TypeExpense,
        CycleID:   cycleID,
    }
    if _, err := s.CreateTransaction(context.Background(), tx); err != nil {
        t.Fatalf("CreateTransaction: %v", err)
    }
    return tx
}

func TestLatestCycle(t *testing.T) {
    s := New()
    ctx := context.Background()

    if _, err := s.LatestCycle(ctx); !errors.Is(err, errs.ErrNotFound) {
        t.Fatalf("expected ErrNotFound on empty store, got %v", err)
    }

    base := time.Now().UTC()
    seedCycle(t, s, base)
    newest := seedCycle(t, s, base.Add(time.Hour))
    seedCycle(t, s, base.Add(-time.Hour))

    got, err := s.LatestCycle(ctx)
    if err != nil {
        t.Fatalf("LatestCycle: %v", err)
    }
    if got.ID != newest.ID {
        t.Fatalf("expected newest cycle, got %s", got.ID)
    }

    list, err := s.ListCycles(ctx)
    if err != nil {
        t.Fatalf("ListCycles: %v", err)
    }
    for i := 1; i < len(list); i++ {
        if list[i-1].CreatedAt.Before(list[i].CreatedAt) {
            t.Fatalf("cycles not newest first")
        }
    }
}

func TestTransactionsByCycle_Paging(t *testing.T) {
    s := New()
    ctx := context.Background()
    base := time.Now().UTC()
    c := seedCycle(t, s, base)
    other := seedCycle(t, s, base.Add(time.Minute))

    for i := 0; i < 5; i++ {
        seedTx(t, s, c.ID, base.Add(time.Duration(i)*time.Second))
    }
    seedTx(t, s, other.ID, base)

    seen := map[uuid.UUID]bool{}
    var last time.Time
    for offset := 0; offset < 6; offset += 2 {
        rows, total, err := s.TransactionsByCycle(ctx, c.ID, offset, 2)
        if err != nil {
            t.Fatalf("TransactionsByCycle: %v", err)
        }
        if total != 5 {
            t.Fatalf("expected total 5, got %d", total)
        }
        for _, tx := range rows {
            if tx.CycleID != c.ID {
                t.Fatalf("leaked transaction from another cycle")
            }
            if seen[tx.ID] {
                t.Fatalf("transaction %s returned twice", tx.ID)
            }
            seen[tx.ID] = true
            if !last.IsZero() && tx.CreatedAt.After(last) {
                t.Fatalf("rows not newest first across pages")
            }
            last = tx.CreatedAt
        }
    }
    if len(seen) != 5 {
        t.Fatalf("expected windows to concatenate to 5 rows, got %d", len(seen))
    }

    rows, total, err := s.TransactionsByCycle(ctx, c.ID, 10, 2)
    if err != nil || len(rows) != 0 || total != 5 {
        t.Fatalf("expected empty window past the end, got %d rows total %d err %v", len(rows), total, err)
    }
}

func TestUpdateCycleConsolidation(t *testing.T) {
    s := New()
    ctx := context.Background()
    c := seedCycle(t, s, time.Now().UTC())

    got, err := s.UpdateCycleConsolidation(ctx, c.ID, decimal.NewFromInt(40), decimal.NewFromInt(200))
    if err != nil {
        t.Fatalf("UpdateCycleConsolidation: %v", err)
    }
    if !got.QtyBought.Equal(decimal.NewFromInt(40)) || !got.SupplierDebt.Equal(decimal.NewFromInt(200)) {
        t.Fatalf("both fields must change together: %+v", got)
    }
    // untouched fields survive
    if !got.UnitCost.Equal(c.UnitCost) || !got.TotalCost.Equal(c.TotalCost) {
        t.Fatalf("unrelated fields changed: %+v", got)
    }

    if _, err := s.UpdateCycleConsolidation(ctx, uuid.New(), decimal.Zero, decimal.Zero); !errors.Is(err, errs.ErrNotFound) {
        t.Fatalf("expected ErrNotFound, got %v", err)
    }
}

func TestCustomers(t *testing.T) {
    s := New()
    ctx := context.Background()

    b, _ := s.CreateCustomer(ctx, fintrack.Customer{ID: uuid.New(), Name: "Bea"})
    a, _ := s.CreateCustomer(ctx, fintrack.Customer{ID: uuid.New(), Name: "Ada"})

    list, err := s.ListCustomers(ctx)
    if err != nil {
        t.Fatalf("ListCustomers: %v", err)
    }
    if len(list) != 2 || list[0].ID != a.ID || list[1].ID != b.ID {
        t.Fatalf("expected name order, got %+v", list)
    }

    a.Notes = "pays weekly"
    if _, err := s.UpdateCustomer(ctx, a); err != nil {
        t.Fatalf("UpdateCustomer: %v", err)
    }
    got, err := s.CustomerByID(ctx, a.ID)
    if err != nil || got.Notes != "pays weekly" {
        t.Fatalf("notes not persisted: %+v %v", got, err)
    }

    if _, err := s.UpdateCustomer(ctx, fintrack.Customer{ID: uuid.New(), Name: "ghost"}); !errors.Is(err, errs.ErrNotFound) {
        t.Fatalf("expected ErrNotFound, got %v", err)
    }
}

func TestTransactionsByCustomer(t *testing.T) {
    s := New()
    ctx := context.Background()
    base := time.Now().UTC()
    c1 := seedCycle(t, s, base)
    c2 := seedCycle(t, s, base.Add(time.Minute))
    custID := uuid.New()

    for _, cycleID := range []uuid.UUID{c1.ID, c2.ID} {
        tx := fintrack.Transaction{
            ID:         uuid.New(),
            CreatedAt:  base,
            Type:       fintrack.TypeDebtIncrease,
            CycleID:    cycleID,
            CustomerID: &custID,
        }
        if _, err := s.CreateTransaction(ctx, tx); err != nil {
            t.Fatalf("CreateTransaction: %v", err)
        }
    }
    seedTx(t, s, c1.ID, base) // no customer

    txs, err := s.TransactionsByCustomer(ctx, custID)
    if err != nil {
        t.Fatalf("TransactionsByCustomer: %v", err)
    }
    if len(txs) != 2 {
        t.Fatalf("expected the customer's entries across cycles, got %d", len(txs))
    }
}
