// Package store persists clients, contracts and the provider list.
// It is the only layer that writes; the dashboard reads snapshots from it.
package store

import (
	"context"

	"github.com/wonny/contractdesk/internal/domain"
)

// Repository is the persistence contract: list/create/update/delete keyed by id.
// Implementations normalise legacy data before it leaves the store.
type Repository interface {
	ListClients(ctx context.Context) ([]domain.Client, error)
	GetClient(ctx context.Context, id string) (*domain.Client, error)
	CreateClient(ctx context.Context, c domain.Client) (*domain.Client, error)
	UpdateClient(ctx context.Context, c domain.Client) (*domain.Client, error)
	// DeleteClient also removes every contract referencing the client
	DeleteClient(ctx context.Context, id string) error

	ListContracts(ctx context.Context) ([]domain.Contract, error)
	GetContract(ctx context.Context, id string) (*domain.Contract, error)
	CreateContract(ctx context.Context, c domain.Contract) (*domain.Contract, error)
	UpdateContract(ctx context.Context, c domain.Contract) (*domain.Contract, error)
	DeleteContract(ctx context.Context, id string) error

	ListProviders(ctx context.Context) ([]string, error)
	// AddProvider returns the full list after the insert; duplicates are ignored
	AddProvider(ctx context.Context, name string) ([]string, error)

	Snapshot(ctx context.Context) (*domain.Snapshot, error)
}
