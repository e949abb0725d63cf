package postgres

import (
    "context"
    "os"
    "path/filepath"
    "runtime"
    "testing"
    "time"

    "github.com/google/uuid"
    "github.com/shopspring/decimal"

    "github.com/fintrack/fintrackd/internal/fintrack"
)

func getTestDSN(t *testing.T) string {
    t.Helper()
    dsn := os.Getenv("TEST_DATABASE_URL")
    if dsn == "" {
        t.Skip("TEST_DATABASE_URL not set; skipping Postgres store tests")
    }
    return dsn
}

func mustOpen(t *testing.T, dsn string) *Store {
    t.Helper()
    ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    s, err := Open(ctx, dsn)
    if err != nil {
        t.Fatalf("open: %v", err)
    }
    return s
}

func applyInitSQL(t *testing.T, s *Store) {
    t.Helper()
    ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()
    // Resolve init SQL path relative to this test file so CWD doesn't matter
    _, thisFile, _, _ := runtime.Caller(0)
    repoRoot := filepath.Clean(filepath.Join(filepath.Dir(thisFile), "../../../"))
    path := filepath.Join(repoRoot, "db", "migrations", "0001_init.sql")
    b, err := os.ReadFile(path)
    if err != nil {
        t.Fatalf("read init sql: %v", err)
    }
    if _, err := s.pool.Exec(ctx, string(b)); err != nil {
        t.Fatalf("apply init sql: %v", err)
    }
}

func truncateAll(t *testing.T, s *Store) {
    t.Helper()
    ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    if _, err := s.pool.Exec(ctx, `truncate transactions, customers, cycles`); err != nil {
        t.Fatalf("truncate: %v", err)
    }
}

func seedCycle(t *testing.T, s *Store, at time.Time) fintrack.Cycle {
    t.Helper()
    c, err := fintrack.NewCycle(decimal.NewFromInt(100), decimal.NewFromInt(50), decimal.NewFromInt(500))
    if err != nil {
        t.Fatalf("new cycle: %v", err)
    }
    c.ID = uuid.New()
    c.CreatedAt = at
    if _, err := s.CreateCycle(context.Background(), c); err != nil {
        t.Fatalf("create cycle: %v", err)
    }
    return c
}

func TestCycleRoundTripAndLatest(t *testing.T) {
    dsn := getTestDSN(t)
    s := mustOpen(t, dsn)
    defer s.Close()
    applyInitSQL(t, s)
    truncateAll(t, s)

    ctx := context.Background()
    old := seedCycle(t, s, time.Now().UTC().Add(-time.Hour))
    newest := seedCycle(t, s, time.Now().UTC())

    latest, err := s.LatestCycle(ctx)
    if err != nil {
        t.Fatalf("latest: %v", err)
    }
    if latest.ID != newest.ID {
        t.Fatalf("expected latest %s, got %s", newest.ID, latest.ID)
    }
    if !latest.UnitCost.Equal(decimal.NewFromInt(10)) {
        t.Fatalf("unit cost round trip: got %s", latest.UnitCost)
    }

    all, err := s.ListCycles(ctx)
    if err != nil {
        t.Fatalf("list: %v", err)
    }
    if len(all) != 2 || all[0].ID != newest.ID || all[1].ID != old.ID {
        t.Fatalf("expected newest-first order, got %+v", all)
    }
}

func TestConsolidationUpdateIsAtomicPair(t *testing.T) {
    dsn := getTestDSN(t)
    s := mustOpen(t, dsn)
    defer s.Close()
    applyInitSQL(t, s)
    truncateAll(t, s)

    ctx := context.Background()
    c := seedCycle(t, s, time.Now().UTC())

    updated, err := s.UpdateCycleConsolidation(ctx, c.ID, decimal.NewFromInt(40), decimal.NewFromInt(200))
    if err != nil {
        t.Fatalf("update: %v", err)
    }
    if !updated.QtyBought.Equal(decimal.NewFromInt(40)) || !updated.SupplierDebt.Equal(decimal.NewFromInt(200)) {
        t.Fatalf("unexpected fields after consolidation: %+v", updated)
    }
    // unit cost and total cost stay untouched
    if !updated.UnitCost.Equal(c.UnitCost) || !updated.TotalCost.Equal(c.TotalCost) {
        t.Fatalf("consolidation must not touch cost fields: %+v", updated)
    }
}

func TestTransactionsByCyclePaging(t *testing.T) {
    dsn := getTestDSN(t)
    s := mustOpen(t, dsn)
    defer s.Close()
    applyInitSQL(t, s)
    truncateAll(t, s)

    ctx := context.Background()
    c := seedCycle(t, s, time.Now().UTC())
    cust := fintrack.Customer{ID: uuid.New(), Name: "Ana"}
    if _, err := s.CreateCustomer(ctx, cust); err != nil {
        t.Fatalf("create customer: %v", err)
    }

    base := time.Now().UTC()
    for i := 0; i < 5; i++ {
        tx, err := fintrack.NewSale(c, fintrack.SaleInput{
            CustomerID:    cust.ID,
            QuantitySold:  decimal.NewFromInt(1),
            AmountPaid:    decimal.NewFromInt(10),
            AmountCharged: decimal.NewFromInt(10),
        })
        if err != nil {
            t.Fatalf("classify: %v", err)
        }
        tx.ID = uuid.New()
        tx.CreatedAt = base.Add(time.Duration(i) * time.Second)
        if _, err := s.CreateTransaction(ctx, tx); err != nil {
            t.Fatalf("insert tx: %v", err)
        }
    }

    seen := map[uuid.UUID]bool{}
    for page := 0; page < 3; page++ {
        rows, total, err := s.TransactionsByCycle(ctx, c.ID, page*2, 2)
        if err != nil {
            t.Fatalf("page %d: %v", page, err)
        }
        if total != 5 {
            t.Fatalf("expected total 5, got %d", total)
        }
        for _, r := range rows {
            if seen[r.ID] {
                t.Fatalf("duplicate row %s across pages", r.ID)
            }
            seen[r.ID] = true
        }
    }
    if len(seen) != 5 {
        t.Fatalf("pages did not cover all rows: %d", len(seen))
    }

    byCust, err := s.TransactionsByCustomer(ctx, cust.ID)
    if err != nil {
        t.Fatalf("by customer: %v", err)
    }
    if len(byCust) != 5 {
        t.Fatalf("expected 5 customer transactions, got %d", len(byCust))
    }
}
