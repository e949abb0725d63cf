// Package books implements the ledger-facing rules: cycle creation with its
// stored unit cost, classification and persistence of transactions, dashboard
// statistics, and the period-end consolidation.
package books

import (
    "context"
    "errors"
    "time"

    "github.com/google/uuid"
    "github.com/shopspring/decimal"

    "github.com/fintrack/fintrackd/internal/errs"
    "github.com/fintrack/fintrackd/internal/fintrack"
)

// Repo defines read operations needed by the service.
type Repo interface {
    ListCycles(ctx context.Context) ([]fintrack.Cycle, error)
    LatestCycle(ctx context.Context) (fintrack.Cycle, error)
    CycleByID(ctx context.Context, cycleID uuid.UUID) (fintrack.Cycle, error)
    ListTransactions(ctx context.Context) ([]fintrack.Transaction, error)
    TransactionsByCycle(ctx context.Context, cycleID uuid.UUID, offset, limit int) ([]fintrack.Transaction, int, error)
    AllTransactionsByCycle(ctx context.Context, cycleID uuid.UUID) ([]fintrack.Transaction, error)
    CustomerByID(ctx context.Context, customerID uuid.UUID) (fintrack.Customer, error)
}

// Writer defines write operations needed by the service.
type Writer interface {
    CreateCycle(ctx context.Context, c fintrack.Cycle) (fintrack.Cycle, error)
    CreateTransaction(ctx context.Context, tx fintrack.Transaction) (fintrack.Transaction, error)
    // UpdateCycleConsolidation overwrites qty_bought and supplier_debt of one
    // cycle as a single atomic update.
    UpdateCycleConsolidation(ctx context.Context, cycleID uuid.UUID, qtyBought, supplierDebt decimal.Decimal) (fintrack.Cycle, error)
}

// Page is one window of a cycle's transaction list plus the total row count.
type Page struct {
    Rows       []fintrack.Transaction
    TotalCount int
    Page       int
    PageSize   int
}

// Snapshot is the stored state consolidation compares a physical count
// against.
type Snapshot struct {
    Inventory decimal.Decimal
    Balance   decimal.Decimal
    UnitCost  decimal.Decimal
}

// Service exposes cycle, transaction and consolidation operations.
type Service interface {
    CreateCycle(ctx context.Context, supplierDebt, qtyBought, totalCost decimal.Decimal) (fintrack.Cycle, error)
    ListCycles(ctx context.Context) ([]fintrack.Cycle, error)
    LatestCycle(ctx context.Context) (fintrack.Cycle, error)

    RecordSale(ctx context.Context, in fintrack.SaleInput) (fintrack.Transaction, error)
    RecordExpense(ctx context.Context, in fintrack.ExpenseInput) (fintrack.Transaction, error)
    RecordUsage(ctx context.Context, in fintrack.UsageInput) (fintrack.Transaction, error)
    RecordDebtIncrease(ctx context.Context, in fintrack.DebtIncreaseInput) (fintrack.Transaction, error)
    RecordRepayment(ctx context.Context, in fintrack.RepaymentInput) (fintrack.Transaction, error)

    ListTransactions(ctx context.Context) ([]fintrack.Transaction, error)
    TransactionsPage(ctx context.Context, cycleID uuid.UUID, page, pageSize int) (Page, error)
    CycleTransactions(ctx context.Context, cycleID uuid.UUID) ([]fintrack.Transaction, error)
    CycleStats(ctx context.Context, cycleID uuid.UUID, now time.Time, windowDays int) (fintrack.CycleStats, error)

    ConsolidationSnapshot(ctx context.Context) (Snapshot, error)
    PreviewConsolidation(ctx context.Context, actualInventory, actualBalance decimal.Decimal) (fintrack.ConsolidationReport, error)
    CommitConsolidation(ctx context.Context, actualInventory, actualBalance decimal.Decimal) (fintrack.Cycle, error)
}

type service struct {
    repo   Repo
    writer Writer
}

// New constructs the books service over a repository and writer.
func New(repo Repo, writer Writer) Service { return &service{repo: repo, writer: writer} }

const (
    defaultPageSize = 10
    maxPageSize     = 100
)

func (s *service) CreateCycle(ctx context.Context, supplierDebt, qtyBought, totalCost decimal.Decimal) (fintrack.Cycle, error) {
    c, err := fintrack.NewCycle(supplierDebt, qtyBought, totalCost)
    if err != nil {
        return fintrack.Cycle{}, err
    }
    c.ID = uuid.New()
    c.CreatedAt = time.Now().UTC()
    return s.writer.CreateCycle(ctx, c)
}

func (s *service) ListCycles(ctx context.Context) ([]fintrack.Cycle, error) {
    return s.repo.ListCycles(ctx)
}

// LatestCycle returns the most recently created cycle, or ErrNoActiveCycle
// when none has been created yet.
func (s *service) LatestCycle(ctx context.Context) (fintrack.Cycle, error) {
    c, err := s.repo.LatestCycle(ctx)
    if errors.Is(err, errs.ErrNotFound) {
        return fintrack.Cycle{}, errs.ErrNoActiveCycle
    }
    return c, err
}

// persist assigns identity and timestamp to a classified entry and stores it.
func (s *service) persist(ctx context.Context, tx fintrack.Transaction) (fintrack.Transaction, error) {
    tx.ID = uuid.New()
    tx.CreatedAt = time.Now().UTC()
    return s.writer.CreateTransaction(ctx, tx)
}

// requireCustomer verifies the referenced customer exists before a debt-
// touching entry is written.
func (s *service) requireCustomer(ctx context.Context, customerID uuid.UUID) error {
    if customerID == uuid.Nil {
        return errs.ErrInvalid
    }
    _, err := s.repo.CustomerByID(ctx, customerID)
    return err
}

func (s *service) RecordSale(ctx context.Context, in fintrack.SaleInput) (fintrack.Transaction, error) {
    cycle, err := s.LatestCycle(ctx)
    if err != nil {
        return fintrack.Transaction{}, err
    }
    tx, err := fintrack.NewSale(cycle, in)
    if err != nil {
        return fintrack.Transaction{}, err
    }
    if err := s.requireCustomer(ctx, in.CustomerID); err != nil {
        return fintrack.Transaction{}, err
    }
    return s.persist(ctx, tx)
}

func (s *service) RecordExpense(ctx context.Context, in fintrack.ExpenseInput) (fintrack.Transaction, error) {
    cycle, err := s.LatestCycle(ctx)
    if err != nil {
        return fintrack.Transaction{}, err
    }
    tx, err := fintrack.NewExpense(cycle, in)
    if err != nil {
        return fintrack.Transaction{}, err
    }
    return s.persist(ctx, tx)
}

func (s *service) RecordUsage(ctx context.Context, in fintrack.UsageInput) (fintrack.Transaction, error) {
    cycle, err := s.LatestCycle(ctx)
    if err != nil {
        return fintrack.Transaction{}, err
    }
    tx, err := fintrack.NewUsage(cycle, in)
    if err != nil {
        return fintrack.Transaction{}, err
    }
    return s.persist(ctx, tx)
}

func (s *service) RecordDebtIncrease(ctx context.Context, in fintrack.DebtIncreaseInput) (fintrack.Transaction, error) {
    cycle, err := s.LatestCycle(ctx)
    if err != nil {
        return fintrack.Transaction{}, err
    }
    tx, err := fintrack.NewDebtIncrease(cycle, in)
    if err != nil {
        return fintrack.Transaction{}, err
    }
    if err := s.requireCustomer(ctx, in.CustomerID); err != nil {
        return fintrack.Transaction{}, err
    }
    return s.persist(ctx, tx)
}

func (s *service) RecordRepayment(ctx context.Context, in fintrack.RepaymentInput) (fintrack.Transaction, error) {
    cycle, err := s.LatestCycle(ctx)
    if err != nil {
        return fintrack.Transaction{}, err
    }
    tx, err := fintrack.NewRepayment(cycle, in)
    if err != nil {
        return fintrack.Transaction{}, err
    }
    if err := s.requireCustomer(ctx, in.CustomerID); err != nil {
        return fintrack.Transaction{}, err
    }
    return s.persist(ctx, tx)
}

func (s *service) ListTransactions(ctx context.Context) ([]fintrack.Transaction, error) {
    return s.repo.ListTransactions(ctx)
}

// TransactionsPage returns one offset/limit window of a cycle's transactions,
// newest first, along with the total count. Requesting the same page against
// the same data always returns the same window.
func (s *service) TransactionsPage(ctx context.Context, cycleID uuid.UUID, page, pageSize int) (Page, error) {
    if cycleID == uuid.Nil {
        return Page{}, errs.ErrInvalid
    }
    if page < 1 {
        page = 1
    }
    if pageSize < 1 {
        pageSize = defaultPageSize
    }
    if pageSize > maxPageSize {
        pageSize = maxPageSize
    }
    if _, err := s.repo.CycleByID(ctx, cycleID); err != nil {
        return Page{}, err
    }
    rows, total, err := s.repo.TransactionsByCycle(ctx, cycleID, (page-1)*pageSize, pageSize)
    if err != nil {
        return Page{}, err
    }
    return Page{Rows: rows, TotalCount: total, Page: page, PageSize: pageSize}, nil
}

func (s *service) CycleTransactions(ctx context.Context, cycleID uuid.UUID) ([]fintrack.Transaction, error) {
    if cycleID == uuid.Nil {
        return nil, errs.ErrInvalid
    }
    if _, err := s.repo.CycleByID(ctx, cycleID); err != nil {
        return nil, err
    }
    return s.repo.AllTransactionsByCycle(ctx, cycleID)
}

// CycleStats recomputes the dashboard statistics from the cycle's full
// transaction set. A fetch failure propagates untouched; there are no
// partial statistics.
func (s *service) CycleStats(ctx context.Context, cycleID uuid.UUID, now time.Time, windowDays int) (fintrack.CycleStats, error) {
    txs, err := s.CycleTransactions(ctx, cycleID)
    if err != nil {
        return fintrack.CycleStats{}, err
    }
    return fintrack.ComputeCycleStats(txs, now, windowDays), nil
}

func (s *service) ConsolidationSnapshot(ctx context.Context) (Snapshot, error) {
    cycle, err := s.LatestCycle(ctx)
    if err != nil {
        return Snapshot{}, err
    }
    return Snapshot{
        Inventory: cycle.QtyBought,
        Balance:   cycle.SupplierDebt,
        UnitCost:  cycle.UnitCost,
    }, nil
}

func (s *service) PreviewConsolidation(ctx context.Context, actualInventory, actualBalance decimal.Decimal) (fintrack.ConsolidationReport, error) {
    if actualInventory.IsNegative() || actualBalance.IsNegative() {
        return fintrack.ConsolidationReport{}, errs.ErrInvalid
    }
    cycle, err := s.LatestCycle(ctx)
    if err != nil {
        return fintrack.ConsolidationReport{}, err
    }
    return fintrack.Reconcile(cycle, actualInventory, actualBalance), nil
}

// CommitConsolidation overwrites the latest cycle's qty_bought and
// supplier_debt with the physically counted values. Both fields change
// together or not at all.
func (s *service) CommitConsolidation(ctx context.Context, actualInventory, actualBalance decimal.Decimal) (fintrack.Cycle, error) {
    if actualInventory.IsNegative() || actualBalance.IsNegative() {
        return fintrack.Cycle{}, errs.ErrInvalid
    }
    cycle, err := s.LatestCycle(ctx)
    if err != nil {
        return fintrack.Cycle{}, err
    }
    return s.writer.UpdateCycleConsolidation(ctx, cycle.ID, actualInventory, actualBalance)
}
