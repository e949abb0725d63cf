// Package customer implements customer rules: required non-empty names,
// editable notes, and the derived debt balance folded from the customer's
// transactions across all cycles.
package customer

import (
    "context"
    "strings"

    "github.com/google/uuid"
    "github.com/shopspring/decimal"

    "github.com/fintrack/fintrackd/internal/errs"
    "github.com/fintrack/fintrackd/internal/fintrack"
)

// Repo defines read operations needed by the service.
type Repo interface {
    ListCustomers(ctx context.Context) ([]fintrack.Customer, error)
    CustomerByID(ctx context.Context, customerID uuid.UUID) (fintrack.Customer, error)
    TransactionsByCustomer(ctx context.Context, customerID uuid.UUID) ([]fintrack.Transaction, error)
}

// Writer defines write operations needed by the service.
type Writer interface {
    CreateCustomer(ctx context.Context, c fintrack.Customer) (fintrack.Customer, error)
    UpdateCustomer(ctx context.Context, c fintrack.Customer) (fintrack.Customer, error)
}

// Service exposes customer management and the derived debt view.
type Service interface {
    Create(ctx context.Context, name, notes string) (fintrack.Customer, error)
    List(ctx context.Context) ([]fintrack.Customer, error)
    Get(ctx context.Context, customerID uuid.UUID) (fintrack.Customer, error)
    UpdateNotes(ctx context.Context, customerID uuid.UUID, notes string) (fintrack.Customer, error)
    Transactions(ctx context.Context, customerID uuid.UUID) ([]fintrack.Transaction, error)
    Debt(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error)
}

type service struct {
    repo   Repo
    writer Writer
}

// New constructs the customer service over a repository and writer.
func New(repo Repo, writer Writer) Service { return &service{repo: repo, writer: writer} }

func (s *service) Create(ctx context.Context, name, notes string) (fintrack.Customer, error) {
    name = strings.TrimSpace(name)
    if name == "" {
        return fintrack.Customer{}, errs.ErrInvalid
    }
    c := fintrack.Customer{ID: uuid.New(), Name: name, Notes: notes}
    return s.writer.CreateCustomer(ctx, c)
}

func (s *service) List(ctx context.Context) ([]fintrack.Customer, error) {
    return s.repo.ListCustomers(ctx)
}

func (s *service) Get(ctx context.Context, customerID uuid.UUID) (fintrack.Customer, error) {
    if customerID == uuid.Nil {
        return fintrack.Customer{}, errs.ErrInvalid
    }
    return s.repo.CustomerByID(ctx, customerID)
}

func (s *service) UpdateNotes(ctx context.Context, customerID uuid.UUID, notes string) (fintrack.Customer, error) {
    c, err := s.Get(ctx, customerID)
    if err != nil {
        return fintrack.Customer{}, err
    }
    c.Notes = notes
    return s.writer.UpdateCustomer(ctx, c)
}

func (s *service) Transactions(ctx context.Context, customerID uuid.UUID) ([]fintrack.Transaction, error) {
    if customerID == uuid.Nil {
        return nil, errs.ErrInvalid
    }
    if _, err := s.repo.CustomerByID(ctx, customerID); err != nil {
        return nil, err
    }
    return s.repo.TransactionsByCustomer(ctx, customerID)
}

// Debt returns the customer's running owed balance: the sum of debt deltas
// over every transaction referencing them, across all cycles. A customer with
// no transactions owes zero.
func (s *service) Debt(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error) {
    txs, err := s.Transactions(ctx, customerID)
    if err != nil {
        return decimal.Decimal{}, err
    }
    return fintrack.DebtTotal(txs), nil
}
