package postgres

// Package postgres provides a pgx-backed storage implementation that
// satisfies the repository and writer interfaces used by the services.
//
// It is intentionally small and explicit. The schema lives under
// db/migrations. This package focuses on mapping between the domain entities
// and SQL rows and running the necessary statements.

import (
    "context"
    "errors"
    "fmt"
    "time"

    "github.com/google/uuid"
    "github.com/jackc/pgx/v5"
    "github.com/jackc/pgx/v5/pgxpool"
    "github.com/shopspring/decimal"

    "github.com/fintrack/fintrackd/internal/errs"
    "github.com/fintrack/fintrackd/internal/fintrack"
)

// Store holds a pgx connection pool and implements the read/write interfaces
// used across the service layer. All methods are safe for concurrent use.
type Store struct {
    pool *pgxpool.Pool
}

// Open establishes a pgx pool using the provided connection string.
func Open(ctx context.Context, dsn string) (*Store, error) {
    cfg, err := pgxpool.ParseConfig(dsn)
    if err != nil {
        return nil, err
    }
    pool, err := pgxpool.NewWithConfig(ctx, cfg)
    if err != nil {
        return nil, err
    }
    // Verify connection
    if err := pool.Ping(ctx); err != nil {
        pool.Close()
        return nil, err
    }
    return &Store{pool: pool}, nil
}

// Close releases the underlying pool.
func (s *Store) Close() {
    if s.pool != nil {
        s.pool.Close()
    }
}

// Ready pings the pool to verify connectivity.
func (s *Store) Ready(ctx context.Context) error { return s.pool.Ping(ctx) }

// SeedDev inserts a demo cycle and customer for quick local testing.
func (s *Store) SeedDev(ctx context.Context) (fintrack.Cycle, fintrack.Customer, error) {
    cycle, err := fintrack.NewCycle(decimal.NewFromInt(100), decimal.NewFromInt(50), decimal.NewFromInt(500))
    if err != nil {
        return fintrack.Cycle{}, fintrack.Customer{}, err
    }
    cycle.ID = uuid.New()
    cycle.CreatedAt = time.Now().UTC()
    if _, err := s.CreateCycle(ctx, cycle); err != nil {
        return fintrack.Cycle{}, fintrack.Customer{}, err
    }
    cust := fintrack.Customer{ID: uuid.New(), Name: "Walk-in", Notes: "dev seed"}
    if _, err := s.CreateCustomer(ctx, cust); err != nil {
        return fintrack.Cycle{}, fintrack.Customer{}, err
    }
    return cycle, cust, nil
}

// --- Cycles ---

const cycleCols = `id, created_at, supplier_debt, qty_bought, total_cost, unit_cost`

func scanCycle(row pgx.Row) (fintrack.Cycle, error) {
    var c fintrack.Cycle
    err := row.Scan(&c.ID, &c.CreatedAt, &c.SupplierDebt, &c.QtyBought, &c.TotalCost, &c.UnitCost)
    return c, err
}

// CreateCycle inserts a cycle row.
func (s *Store) CreateCycle(ctx context.Context, c fintrack.Cycle) (fintrack.Cycle, error) {
    _, err := s.pool.Exec(ctx, `
        insert into cycles (`+cycleCols+`)
        values ($1,$2,$3,$4,$5,$6)
    `, c.ID, c.CreatedAt, c.SupplierDebt, c.QtyBought, c.TotalCost, c.UnitCost)
    if err != nil {
        return fintrack.Cycle{}, fmt.Errorf("insert cycle: %w", err)
    }
    return c, nil
}

// ListCycles returns all cycles, newest first.
func (s *Store) ListCycles(ctx context.Context) ([]fintrack.Cycle, error) {
    rows, err := s.pool.Query(ctx, `
        select `+cycleCols+`
        from cycles
        order by created_at desc, id desc
    `)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]fintrack.Cycle, 0)
    for rows.Next() {
        c, err := scanCycle(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, c)
    }
    return out, rows.Err()
}

// LatestCycle returns the most recently created cycle.
func (s *Store) LatestCycle(ctx context.Context) (fintrack.Cycle, error) {
    c, err := scanCycle(s.pool.QueryRow(ctx, `
        select `+cycleCols+`
        from cycles
        order by created_at desc, id desc
        limit 1
    `))
    if errors.Is(err, pgx.ErrNoRows) {
        return fintrack.Cycle{}, errs.ErrNotFound
    }
    return c, err
}

// CycleByID fetches a single cycle.
func (s *Store) CycleByID(ctx context.Context, cycleID uuid.UUID) (fintrack.Cycle, error) {
    c, err := scanCycle(s.pool.QueryRow(ctx, `
        select `+cycleCols+`
        from cycles
        where id = $1
    `, cycleID))
    if errors.Is(err, pgx.ErrNoRows) {
        return fintrack.Cycle{}, errs.ErrNotFound
    }
    return c, err
}

// UpdateCycleConsolidation overwrites qty_bought and supplier_debt in one
// statement, so the pair changes atomically.
func (s *Store) UpdateCycleConsolidation(ctx context.Context, cycleID uuid.UUID, qtyBought, supplierDebt decimal.Decimal) (fintrack.Cycle, error) {
    ct, err := s.pool.Exec(ctx, `
        update cycles
        set qty_bought = $1, supplier_debt = $2
        where id = $3
    `, qtyBought, supplierDebt, cycleID)
    if err != nil {
        return fintrack.Cycle{}, fmt.Errorf("update consolidation: %w", err)
    }
    if ct.RowsAffected() == 0 {
        return fintrack.Cycle{}, errs.ErrNotFound
    }
    return s.CycleByID(ctx, cycleID)
}

// --- Transactions ---

const txCols = `id, created_at, type, cycle_id, customer_id, is_debt, amt_balance, qty_balance, debt_balance, cost_profit, notes, description`

func scanTransaction(row pgx.Row) (fintrack.Transaction, error) {
    var tx fintrack.Transaction
    err := row.Scan(&tx.ID, &tx.CreatedAt, &tx.Type, &tx.CycleID, &tx.CustomerID, &tx.IsDebt,
        &tx.AmtBalance, &tx.QtyBalance, &tx.DebtBalance, &tx.CostProfit, &tx.Notes, &tx.Description)
    return tx, err
}

// CreateTransaction appends a ledger entry. There is no update or delete.
func (s *Store) CreateTransaction(ctx context.Context, tx fintrack.Transaction) (fintrack.Transaction, error) {
    _, err := s.pool.Exec(ctx, `
        insert into transactions (`+txCols+`)
        values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
    `, tx.ID, tx.CreatedAt, tx.Type, tx.CycleID, tx.CustomerID, tx.IsDebt,
        tx.AmtBalance, tx.QtyBalance, tx.DebtBalance, tx.CostProfit, tx.Notes, tx.Description)
    if err != nil {
        return fintrack.Transaction{}, fmt.Errorf("insert transaction: %w", err)
    }
    return tx, nil
}

func (s *Store) queryTransactions(ctx context.Context, sql string, args ...any) ([]fintrack.Transaction, error) {
    rows, err := s.pool.Query(ctx, sql, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]fintrack.Transaction, 0)
    for rows.Next() {
        tx, err := scanTransaction(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, tx)
    }
    return out, rows.Err()
}

// ListTransactions returns all transactions, newest first.
func (s *Store) ListTransactions(ctx context.Context) ([]fintrack.Transaction, error) {
    return s.queryTransactions(ctx, `
        select `+txCols+`
        from transactions
        order by created_at desc, id desc
    `)
}

// TransactionsByCycle returns one offset/limit window of a cycle's
// transactions, newest first, plus the cycle's total row count.
func (s *Store) TransactionsByCycle(ctx context.Context, cycleID uuid.UUID, offset, limit int) ([]fintrack.Transaction, int, error) {
    out, err := s.queryTransactions(ctx, `
        select `+txCols+`
        from transactions
        where cycle_id = $1
        order by created_at desc, id desc
        offset $2 limit $3
    `, cycleID, offset, limit)
    if err != nil {
        return nil, 0, err
    }
    var total int
    if err := s.pool.QueryRow(ctx, `
        select count(*) from transactions where cycle_id = $1
    `, cycleID).Scan(&total); err != nil {
        return nil, 0, err
    }
    return out, total, nil
}

// AllTransactionsByCycle returns every transaction of a cycle, newest first.
func (s *Store) AllTransactionsByCycle(ctx context.Context, cycleID uuid.UUID) ([]fintrack.Transaction, error) {
    return s.queryTransactions(ctx, `
        select `+txCols+`
        from transactions
        where cycle_id = $1
        order by created_at desc, id desc
    `, cycleID)
}

// TransactionsByCustomer returns every transaction referencing a customer,
// newest first, across all cycles.
func (s *Store) TransactionsByCustomer(ctx context.Context, customerID uuid.UUID) ([]fintrack.Transaction, error) {
    return s.queryTransactions(ctx, `
        select `+txCols+`
        from transactions
        where customer_id = $1
        order by created_at desc, id desc
    `, customerID)
}

// --- Customers ---

// CreateCustomer inserts a customer row.
func (s *Store) CreateCustomer(ctx context.Context, c fintrack.Customer) (fintrack.Customer, error) {
    _, err := s.pool.Exec(ctx, `
        insert into customers (id, name, notes)
        values ($1,$2,$3)
    `, c.ID, c.Name, c.Notes)
    if err != nil {
        return fintrack.Customer{}, fmt.Errorf("insert customer: %w", err)
    }
    return c, nil
}

// ListCustomers returns all customers ordered by name.
func (s *Store) ListCustomers(ctx context.Context) ([]fintrack.Customer, error) {
    rows, err := s.pool.Query(ctx, `
        select id, name, notes
        from customers
        order by name asc, id asc
    `)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]fintrack.Customer, 0)
    for rows.Next() {
        var c fintrack.Customer
        if err := rows.Scan(&c.ID, &c.Name, &c.Notes); err != nil {
            return nil, err
        }
        out = append(out, c)
    }
    return out, rows.Err()
}

// CustomerByID fetches a single customer.
func (s *Store) CustomerByID(ctx context.Context, customerID uuid.UUID) (fintrack.Customer, error) {
    var c fintrack.Customer
    err := s.pool.QueryRow(ctx, `
        select id, name, notes
        from customers
        where id = $1
    `, customerID).Scan(&c.ID, &c.Name, &c.Notes)
    if errors.Is(err, pgx.ErrNoRows) {
        return fintrack.Customer{}, errs.ErrNotFound
    }
    return c, err
}

// UpdateCustomer updates the mutable customer fields (notes).
func (s *Store) UpdateCustomer(ctx context.Context, c fintrack.Customer) (fintrack.Customer, error) {
    ct, err := s.pool.Exec(ctx, `
        update customers
        set notes = $1
        where id = $2
    `, c.Notes, c.ID)
    if err != nil {
        return fintrack.Customer{}, err
    }
    if ct.RowsAffected() == 0 {
        return fintrack.Customer{}, errs.ErrNotFound
    }
    return c, nil
}
