package httpapi

import (
    "context"

    "github.com/fintrack/fintrackd/internal/service/books"
    "github.com/fintrack/fintrackd/internal/service/customer"
)

// Store composes every repository and writer capability the API depends on.
// Both the in-memory store and the postgres store satisfy it.
type Store interface {
    books.Repo
    books.Writer
    customer.Repo
    customer.Writer
    // Ready reports whether the backing store can serve requests.
    Ready(ctx context.Context) error
}
