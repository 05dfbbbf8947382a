// Package crm reads clients, contracts and providers from a remote
// contractdesk-compatible API so reports can run without database access.
package crm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wonny/contractdesk/internal/dashboard"
	"github.com/wonny/contractdesk/internal/domain"
	"github.com/wonny/contractdesk/internal/store"
	"github.com/wonny/contractdesk/pkg/httputil"
	"github.com/wonny/contractdesk/pkg/logger"
)

// Client is a read-only dashboard.Source over HTTP
type Client struct {
	http    *httputil.Client
	baseURL string
	loc     *time.Location
	logger  *logger.Logger
}

var _ dashboard.Source = (*Client)(nil)

// NewClient creates a remote source. Calendar dates are materialised as
// midnight in loc.
func NewClient(hc *httputil.Client, baseURL string, loc *time.Location, log *logger.Logger) *Client {
	if loc == nil {
		loc = time.UTC
	}
	return &Client{
		http:    hc,
		baseURL: strings.TrimRight(baseURL, "/"),
		loc:     loc,
		logger:  log.Component("crm"),
	}
}

// Clients fetches every client, folding a legacy single iban into the list
func (c *Client) Clients(ctx context.Context) ([]domain.Client, error) {
	var raw []remoteClient
	if err := c.http.GetJSON(ctx, c.baseURL+"/api/clients", &raw); err != nil {
		return nil, fmt.Errorf("fetch clients: %w", err)
	}

	clients := make([]domain.Client, 0, len(raw))
	for _, r := range raw {
		clients = append(clients, r.toDomain())
	}
	return clients, nil
}

// Contracts fetches every contract
func (c *Client) Contracts(ctx context.Context) ([]domain.Contract, error) {
	var raw []remoteContract
	if err := c.http.GetJSON(ctx, c.baseURL+"/api/contracts", &raw); err != nil {
		return nil, fmt.Errorf("fetch contracts: %w", err)
	}

	contracts := make([]domain.Contract, 0, len(raw))
	for i, r := range raw {
		contract, err := r.toDomain(c.loc)
		if err != nil {
			return nil, fmt.Errorf("contract %d (%s): %w", i, r.ID, err)
		}
		contracts = append(contracts, contract)
	}
	return contracts, nil
}

// Providers fetches the provider list
func (c *Client) Providers(ctx context.Context) ([]string, error) {
	var providers []string
	if err := c.http.GetJSON(ctx, c.baseURL+"/api/providers", &providers); err != nil {
		return nil, fmt.Errorf("fetch providers: %w", err)
	}
	if providers == nil {
		providers = []string{}
	}
	return providers, nil
}

// Snapshot reads the three collections one after another. The remote API has
// no transactions, so a write landing between calls can show up in only part
// of the snapshot.
func (c *Client) Snapshot(ctx context.Context) (*domain.Snapshot, error) {
	start := time.Now()

	clients, err := c.Clients(ctx)
	if err != nil {
		return nil, err
	}
	contracts, err := c.Contracts(ctx)
	if err != nil {
		return nil, err
	}
	providers, err := c.Providers(ctx)
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"clients":   len(clients),
		"contracts": len(contracts),
		"duration":  time.Since(start),
	}).Debug("remote snapshot loaded")

	return &domain.Snapshot{Clients: clients, Contracts: contracts, Providers: providers}, nil
}

// remoteClient accepts both the current ibans list and the legacy iban field
type remoteClient struct {
	domain.Client
	LegacyIBAN string `json:"iban"`
}

func (r remoteClient) toDomain() domain.Client {
	c := r.Client
	c.IBANs = store.NormalizeIBANs(c.IBANs, r.LegacyIBAN)
	return c
}

// remoteContract keeps dates raw: peers send either YYYY-MM-DD or RFC 3339
type remoteContract struct {
	ID            string          `json:"id"`
	ClientID      string          `json:"clientId"`
	Type          string          `json:"type"`
	Provider      string          `json:"provider"`
	ContractCode  string          `json:"contractCode"`
	StartDate     string          `json:"startDate"`
	EndDate       string          `json:"endDate"`
	Commission    *float64        `json:"commission"`
	SupplyAddress *domain.Address `json:"supplyAddress"`
}

func (r remoteContract) toDomain(loc *time.Location) (domain.Contract, error) {
	start, err := parseRemoteDate(r.StartDate, loc)
	if err != nil {
		return domain.Contract{}, fmt.Errorf("startDate: %w", err)
	}
	end, err := parseRemoteDate(r.EndDate, loc)
	if err != nil {
		return domain.Contract{}, fmt.Errorf("endDate: %w", err)
	}

	return domain.Contract{
		ID:            r.ID,
		ClientID:      r.ClientID,
		Type:          domain.ContractType(strings.ToLower(r.Type)),
		Provider:      r.Provider,
		ContractCode:  r.ContractCode,
		StartDate:     start,
		EndDate:       end,
		Commission:    r.Commission,
		SupplyAddress: r.SupplyAddress,
	}, nil
}

// parseRemoteDate keeps only the calendar day and rebuilds it as midnight in loc
func parseRemoteDate(s string, loc *time.Location) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}

	var (
		t   time.Time
		err error
	)
	if len(s) == len("2006-01-02") {
		t, err = time.Parse("2006-01-02", s)
	} else {
		t, err = time.Parse(time.RFC3339, s)
	}
	if err != nil {
		return nil, err
	}

	y, m, d := t.Date()
	local := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return &local, nil
}
