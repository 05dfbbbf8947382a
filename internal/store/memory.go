package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/contractdesk/internal/domain"
)

// Memory is an in-process Repository. It keeps insertion order and is safe for
// concurrent use.
type Memory struct {
	mu        sync.RWMutex
	clients   []domain.Client
	contracts []domain.Contract
	providers []string
	now       func() time.Time

	// instance keeps revisions of separate stores apart in a shared cache
	instance string
	revision uint64
}

var _ Repository = (*Memory)(nil)

// NewMemory creates an empty store seeded with providers
func NewMemory(providers ...string) *Memory {
	m := &Memory{now: time.Now, instance: uuid.NewString()}
	for _, p := range providers {
		if name, err := NormalizeProvider(p); err == nil && !containsFold(m.providers, name) {
			m.providers = append(m.providers, name)
		}
	}
	return m
}

// WithClock overrides the CreatedAt source
func (m *Memory) WithClock(now func() time.Time) *Memory {
	m.now = now
	return m
}

// ImportClient stores a client exactly as given, including id and CreatedAt.
// legacyIBAN is folded into the IBAN list. A client with the same id is
// replaced in place.
func (m *Memory) ImportClient(c domain.Client, legacyIBAN string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.IBANs = NormalizeIBANs(c.IBANs, legacyIBAN)
	if i := m.clientIndex(c.ID); i >= 0 {
		m.clients[i] = c
	} else {
		m.clients = append(m.clients, c)
	}
	m.revision++
}

// ImportContract stores a contract exactly as given, replacing one with the same id
func (m *Memory) ImportContract(c domain.Contract) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.contractIndex(c.ID); i >= 0 {
		m.contracts[i] = c
	} else {
		m.contracts = append(m.contracts, c)
	}
	m.revision++
}

// Revision changes on every write
func (m *Memory) Revision(_ context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fmt.Sprintf("mem:%s:%d", m.instance, m.revision), nil
}

func (m *Memory) ListClients(_ context.Context) ([]domain.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.Client{}, m.clients...), nil
}

func (m *Memory) GetClient(_ context.Context, id string) (*domain.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := m.clientIndex(id)
	if i < 0 {
		return nil, fmt.Errorf("client %s: %w", id, domain.ErrNotFound)
	}
	c := m.clients[i]
	return &c, nil
}

func (m *Memory) CreateClient(_ context.Context, c domain.Client) (*domain.Client, error) {
	if err := ValidateClient(c); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	c.ID = uuid.New().String()
	c.CreatedAt = m.now()
	c.IBANs = NormalizeIBANs(c.IBANs, "")
	m.clients = append(m.clients, c)
	m.revision++
	return &c, nil
}

func (m *Memory) UpdateClient(_ context.Context, c domain.Client) (*domain.Client, error) {
	if err := ValidateClient(c); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.clientIndex(c.ID)
	if i < 0 {
		return nil, fmt.Errorf("client %s: %w", c.ID, domain.ErrNotFound)
	}
	c.CreatedAt = m.clients[i].CreatedAt
	c.IBANs = NormalizeIBANs(c.IBANs, "")
	m.clients[i] = c
	m.revision++
	return &c, nil
}

func (m *Memory) DeleteClient(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.clientIndex(id)
	if i < 0 {
		return fmt.Errorf("client %s: %w", id, domain.ErrNotFound)
	}
	m.clients = append(m.clients[:i], m.clients[i+1:]...)

	kept := m.contracts[:0]
	for _, c := range m.contracts {
		if c.ClientID != id {
			kept = append(kept, c)
		}
	}
	m.contracts = kept
	m.revision++
	return nil
}

func (m *Memory) ListContracts(_ context.Context) ([]domain.Contract, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.Contract{}, m.contracts...), nil
}

func (m *Memory) GetContract(_ context.Context, id string) (*domain.Contract, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := m.contractIndex(id)
	if i < 0 {
		return nil, fmt.Errorf("contract %s: %w", id, domain.ErrNotFound)
	}
	c := m.contracts[i]
	return &c, nil
}

func (m *Memory) CreateContract(_ context.Context, c domain.Contract) (*domain.Contract, error) {
	if err := ValidateContract(c); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.clientIndex(c.ClientID) < 0 {
		return nil, fmt.Errorf("%w: client %s does not exist", domain.ErrInvalid, c.ClientID)
	}
	c.ID = uuid.New().String()
	m.contracts = append(m.contracts, c)
	m.revision++
	return &c, nil
}

func (m *Memory) UpdateContract(_ context.Context, c domain.Contract) (*domain.Contract, error) {
	if err := ValidateContract(c); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.contractIndex(c.ID)
	if i < 0 {
		return nil, fmt.Errorf("contract %s: %w", c.ID, domain.ErrNotFound)
	}
	if m.clientIndex(c.ClientID) < 0 {
		return nil, fmt.Errorf("%w: client %s does not exist", domain.ErrInvalid, c.ClientID)
	}
	m.contracts[i] = c
	m.revision++
	return &c, nil
}

func (m *Memory) DeleteContract(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.contractIndex(id)
	if i < 0 {
		return fmt.Errorf("contract %s: %w", id, domain.ErrNotFound)
	}
	m.contracts = append(m.contracts[:i], m.contracts[i+1:]...)
	m.revision++
	return nil
}

func (m *Memory) ListProviders(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedProviders(m.providers), nil
}

func (m *Memory) AddProvider(_ context.Context, name string) ([]string, error) {
	name, err := NormalizeProvider(name)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if !containsFold(m.providers, name) {
		m.providers = append(m.providers, name)
		m.revision++
	}
	return sortedProviders(m.providers), nil
}

func (m *Memory) Snapshot(_ context.Context) (*domain.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return &domain.Snapshot{
		Clients:   append([]domain.Client{}, m.clients...),
		Contracts: append([]domain.Contract{}, m.contracts...),
		Providers: sortedProviders(m.providers),
	}, nil
}

func (m *Memory) clientIndex(id string) int {
	for i, c := range m.clients {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (m *Memory) contractIndex(id string) int {
	for i, c := range m.contracts {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func sortedProviders(list []string) []string {
	out := append([]string{}, list...)
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out
}
