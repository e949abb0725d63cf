package memory

// Package memory provides a simple in-memory implementation used for
// development and tests. It keeps code paths easy to follow while allowing a
// real database to be plugged in behind the same interfaces.
import (
    "context"
    "sort"
    "sync"
    "time"

    "github.com/google/uuid"
    "github.com/shopspring/decimal"

    "github.com/fintrack/fintrackd/internal/errs"
    "github.com/fintrack/fintrackd/internal/fintrack"
)

// txKey tracks ordering for transactions: sorted desc by (CreatedAt, ID).
type txKey struct {
    CreatedAt time.Time
    ID        uuid.UUID
}

// Store is an in-memory implementation of the repository+writer interfaces
// used by the services. It is guarded by an RWMutex for concurrent
// reads/writes.
type Store struct {
    mu        sync.RWMutex
    cycles    map[uuid.UUID]fintrack.Cycle
    customers map[uuid.UUID]fintrack.Customer
    txs       map[uuid.UUID]fintrack.Transaction
    // Sorted index of transactions, newest first, for ordered scans and paging.
    txKeys []txKey
    // Sorted index of cycles, newest first.
    cycleKeys []txKey
}

// New constructs an empty in-memory store.
func New() *Store {
    return &Store{
        cycles:    make(map[uuid.UUID]fintrack.Cycle),
        customers: make(map[uuid.UUID]fintrack.Customer),
        txs:       make(map[uuid.UUID]fintrack.Transaction),
    }
}

// Reset clears everything; used between tests.
func (s *Store) Reset() {
    s.mu.Lock()
    s.cycles = map[uuid.UUID]fintrack.Cycle{}
    s.customers = map[uuid.UUID]fintrack.Customer{}
    s.txs = map[uuid.UUID]fintrack.Transaction{}
    s.txKeys = nil
    s.cycleKeys = nil
    s.mu.Unlock()
}

// Ready reports the store as always available.
func (s *Store) Ready(ctx context.Context) error { return nil }

// --- Cycles ---

// CreateCycle persists a new cycle.
func (s *Store) CreateCycle(_ context.Context, c fintrack.Cycle) (fintrack.Cycle, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.cycles[c.ID] = c
    s.cycleKeys = insertDesc(s.cycleKeys, txKey{CreatedAt: c.CreatedAt, ID: c.ID})
    return c, nil
}

// ListCycles returns all cycles, newest first.
func (s *Store) ListCycles(_ context.Context) ([]fintrack.Cycle, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    out := make([]fintrack.Cycle, 0, len(s.cycleKeys))
    for _, k := range s.cycleKeys {
        if c, ok := s.cycles[k.ID]; ok {
            out = append(out, c)
        }
    }
    return out, nil
}

// LatestCycle returns the most recently created cycle.
func (s *Store) LatestCycle(_ context.Context) (fintrack.Cycle, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    if len(s.cycleKeys) == 0 {
        return fintrack.Cycle{}, errs.ErrNotFound
    }
    return s.cycles[s.cycleKeys[0].ID], nil
}

// CycleByID returns a cycle by id.
func (s *Store) CycleByID(_ context.Context, cycleID uuid.UUID) (fintrack.Cycle, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    c, ok := s.cycles[cycleID]
    if !ok {
        return fintrack.Cycle{}, errs.ErrNotFound
    }
    return c, nil
}

// UpdateCycleConsolidation overwrites qty_bought and supplier_debt together
// under the write lock, so readers never observe one field updated without
// the other.
func (s *Store) UpdateCycleConsolidation(_ context.Context, cycleID uuid.UUID, qtyBought, supplierDebt decimal.Decimal) (fintrack.Cycle, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    c, ok := s.cycles[cycleID]
    if !ok {
        return fintrack.Cycle{}, errs.ErrNotFound
    }
    c.QtyBought = qtyBought
    c.SupplierDebt = supplierDebt
    s.cycles[cycleID] = c
    return c, nil
}

// --- Transactions ---

// CreateTransaction appends a ledger entry. Entries are immutable; there is
// no update or delete.
func (s *Store) CreateTransaction(_ context.Context, tx fintrack.Transaction) (fintrack.Transaction, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.txs[tx.ID] = tx
    s.txKeys = insertDesc(s.txKeys, txKey{CreatedAt: tx.CreatedAt, ID: tx.ID})
    return tx, nil
}

// ListTransactions returns all transactions, newest first.
func (s *Store) ListTransactions(_ context.Context) ([]fintrack.Transaction, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    out := make([]fintrack.Transaction, 0, len(s.txKeys))
    for _, k := range s.txKeys {
        if tx, ok := s.txs[k.ID]; ok {
            out = append(out, tx)
        }
    }
    return out, nil
}

// TransactionsByCycle returns one offset/limit window of a cycle's
// transactions, newest first, plus the cycle's total transaction count.
func (s *Store) TransactionsByCycle(_ context.Context, cycleID uuid.UUID, offset, limit int) ([]fintrack.Transaction, int, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    total := 0
    out := make([]fintrack.Transaction, 0, limit)
    for _, k := range s.txKeys {
        tx, ok := s.txs[k.ID]
        if !ok || tx.CycleID != cycleID {
            continue
        }
        if total >= offset && len(out) < limit {
            out = append(out, tx)
        }
        total++
    }
    return out, total, nil
}

// AllTransactionsByCycle returns every transaction of a cycle, newest first.
func (s *Store) AllTransactionsByCycle(_ context.Context, cycleID uuid.UUID) ([]fintrack.Transaction, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    out := make([]fintrack.Transaction, 0)
    for _, k := range s.txKeys {
        if tx, ok := s.txs[k.ID]; ok && tx.CycleID == cycleID {
            out = append(out, tx)
        }
    }
    return out, nil
}

// TransactionsByCustomer returns every transaction referencing a customer,
// newest first, across all cycles.
func (s *Store) TransactionsByCustomer(_ context.Context, customerID uuid.UUID) ([]fintrack.Transaction, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    out := make([]fintrack.Transaction, 0)
    for _, k := range s.txKeys {
        tx, ok := s.txs[k.ID]
        if !ok || tx.CustomerID == nil || *tx.CustomerID != customerID {
            continue
        }
        out = append(out, tx)
    }
    return out, nil
}

// --- Customers ---

// CreateCustomer persists a new customer.
func (s *Store) CreateCustomer(_ context.Context, c fintrack.Customer) (fintrack.Customer, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.customers[c.ID] = c
    return c, nil
}

// ListCustomers returns all customers ordered by name.
func (s *Store) ListCustomers(_ context.Context) ([]fintrack.Customer, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    out := make([]fintrack.Customer, 0, len(s.customers))
    for _, c := range s.customers {
        out = append(out, c)
    }
    sort.Slice(out, func(i, j int) bool {
        if out[i].Name == out[j].Name {
            return out[i].ID.String() < out[j].ID.String()
        }
        return out[i].Name < out[j].Name
    })
    return out, nil
}

// CustomerByID returns a customer by id.
func (s *Store) CustomerByID(_ context.Context, customerID uuid.UUID) (fintrack.Customer, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    c, ok := s.customers[customerID]
    if !ok {
        return fintrack.Customer{}, errs.ErrNotFound
    }
    return c, nil
}

// UpdateCustomer persists changes to a customer (notes).
func (s *Store) UpdateCustomer(_ context.Context, c fintrack.Customer) (fintrack.Customer, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    if _, ok := s.customers[c.ID]; !ok {
        return fintrack.Customer{}, errs.ErrNotFound
    }
    s.customers[c.ID] = c
    return c, nil
}

// insertDesc inserts k into keys, keeping order desc by (CreatedAt, ID).
func insertDesc(keys []txKey, k txKey) []txKey {
    i := sort.Search(len(keys), func(i int) bool {
        if keys[i].CreatedAt.Before(k.CreatedAt) {
            return true
        }
        if keys[i].CreatedAt.Equal(k.CreatedAt) {
            return keys[i].ID.String() < k.ID.String()
        }
        return false
    })
    if i == len(keys) {
        return append(keys, k)
    }
    keys = append(keys, txKey{})
    copy(keys[i+1:], keys[i:])
    keys[i] = k
    return keys
}
