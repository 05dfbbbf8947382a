package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/contractdesk/internal/domain"
)

const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// Postgres is the PostgreSQL Repository.
// DATE columns are materialised as midnight in loc so calendar-day logic
// downstream sees the agency's local days.
type Postgres struct {
	db  *pgxpool.Pool
	loc *time.Location
}

var _ Repository = (*Postgres)(nil)

// NewPostgres creates a Repository over an open pool
func NewPostgres(db *pgxpool.Pool, loc *time.Location) *Postgres {
	if loc == nil {
		loc = time.UTC
	}
	return &Postgres{db: db, loc: loc}
}

const clientColumns = `
	id::text, first_name, last_name, email, codice_fiscale, mobile_phone,
	ibans, iban, legal_address, residential_address, created_at`

const contractColumns = `
	id::text, client_id::text, type, provider, contract_code,
	start_date, end_date, commission::float8, supply_address`

// querier is satisfied by both the pool and a transaction
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// ListClients returns clients in creation order
func (r *Postgres) ListClients(ctx context.Context) ([]domain.Client, error) {
	return r.listClients(ctx, r.db)
}

func (r *Postgres) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("client %s: %w", id, domain.ErrNotFound)
	}
	row := r.db.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id)
	c, err := scanClient(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("client %s: %w", id, domain.ErrNotFound)
	}
	return c, err
}

func (r *Postgres) CreateClient(ctx context.Context, c domain.Client) (*domain.Client, error) {
	if err := ValidateClient(c); err != nil {
		return nil, err
	}
	c.ID = uuid.New().String()
	c.IBANs = NormalizeIBANs(c.IBANs, "")

	ibans, legal, residential, err := clientJSON(c)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO clients (
			id, first_name, last_name, email, codice_fiscale, mobile_phone,
			ibans, legal_address, residential_address, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING created_at
	`
	err = r.db.QueryRow(ctx, query,
		c.ID, c.FirstName, c.LastName, c.Email, c.CodiceFiscale, c.MobilePhone,
		ibans, legal, residential,
	).Scan(&c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert client: %w", err)
	}
	return &c, nil
}

// UpdateClient rewrites every mutable column. created_at is never touched and
// the legacy iban column is cleared once its value lives in ibans.
func (r *Postgres) UpdateClient(ctx context.Context, c domain.Client) (*domain.Client, error) {
	if err := ValidateClient(c); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(c.ID); err != nil {
		return nil, fmt.Errorf("client %s: %w", c.ID, domain.ErrNotFound)
	}
	c.IBANs = NormalizeIBANs(c.IBANs, "")

	ibans, legal, residential, err := clientJSON(c)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE clients SET
			first_name = $2, last_name = $3, email = $4, codice_fiscale = $5,
			mobile_phone = $6, ibans = $7, iban = '', legal_address = $8,
			residential_address = $9
		WHERE id = $1
		RETURNING created_at
	`
	err = r.db.QueryRow(ctx, query,
		c.ID, c.FirstName, c.LastName, c.Email, c.CodiceFiscale, c.MobilePhone,
		ibans, legal, residential,
	).Scan(&c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("client %s: %w", c.ID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update client: %w", err)
	}
	return &c, nil
}

// DeleteClient relies on ON DELETE CASCADE to drop the client's contracts
func (r *Postgres) DeleteClient(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "clients", "client", id)
}

// ListContracts returns contracts in insertion order
func (r *Postgres) ListContracts(ctx context.Context) ([]domain.Contract, error) {
	return r.listContracts(ctx, r.db)
}

func (r *Postgres) GetContract(ctx context.Context, id string) (*domain.Contract, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("contract %s: %w", id, domain.ErrNotFound)
	}
	row := r.db.QueryRow(ctx, `SELECT `+contractColumns+` FROM contracts WHERE id = $1`, id)
	c, err := r.scanContract(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("contract %s: %w", id, domain.ErrNotFound)
	}
	return c, err
}

func (r *Postgres) CreateContract(ctx context.Context, c domain.Contract) (*domain.Contract, error) {
	if err := ValidateContract(c); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(c.ClientID); err != nil {
		return nil, fmt.Errorf("%w: client %s does not exist", domain.ErrInvalid, c.ClientID)
	}
	c.ID = uuid.New().String()

	supply, err := nullableJSON(c.SupplyAddress)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO contracts (
			id, client_id, type, provider, contract_code,
			start_date, end_date, commission, supply_address
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = r.db.Exec(ctx, query,
		c.ID, c.ClientID, string(c.Type), c.Provider, c.ContractCode,
		r.dateParam(c.StartDate), r.dateParam(c.EndDate), c.Commission, supply,
	)
	if err != nil {
		return nil, r.contractWriteError("insert contract", c.ClientID, err)
	}
	return &c, nil
}

func (r *Postgres) UpdateContract(ctx context.Context, c domain.Contract) (*domain.Contract, error) {
	if err := ValidateContract(c); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(c.ID); err != nil {
		return nil, fmt.Errorf("contract %s: %w", c.ID, domain.ErrNotFound)
	}
	if _, err := uuid.Parse(c.ClientID); err != nil {
		return nil, fmt.Errorf("%w: client %s does not exist", domain.ErrInvalid, c.ClientID)
	}

	supply, err := nullableJSON(c.SupplyAddress)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE contracts SET
			client_id = $2, type = $3, provider = $4, contract_code = $5,
			start_date = $6, end_date = $7, commission = $8, supply_address = $9
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query,
		c.ID, c.ClientID, string(c.Type), c.Provider, c.ContractCode,
		r.dateParam(c.StartDate), r.dateParam(c.EndDate), c.Commission, supply,
	)
	if err != nil {
		return nil, r.contractWriteError("update contract", c.ClientID, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("contract %s: %w", c.ID, domain.ErrNotFound)
	}
	return &c, nil
}

func (r *Postgres) DeleteContract(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "contracts", "contract", id)
}

func (r *Postgres) ListProviders(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT name FROM providers ORDER BY LOWER(name)`)
	if err != nil {
		return nil, fmt.Errorf("query providers: %w", err)
	}
	defer rows.Close()

	providers, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collect providers: %w", err)
	}
	return providers, nil
}

// AddProvider inserts name unless a case-insensitive duplicate exists
func (r *Postgres) AddProvider(ctx context.Context, name string) ([]string, error) {
	name, err := NormalizeProvider(name)
	if err != nil {
		return nil, err
	}

	_, err = r.db.Exec(ctx, `INSERT INTO providers (name) VALUES ($1) ON CONFLICT DO NOTHING`, name)
	if err != nil {
		var pgErr *pgconn.PgError
		if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
			return nil, fmt.Errorf("insert provider: %w", err)
		}
	}
	return r.ListProviders(ctx)
}

// Revision reads the write counter maintained by statement triggers on every
// table. The database name keeps separate databases apart in a shared cache.
func (r *Postgres) Revision(ctx context.Context) (string, error) {
	var rev string
	err := r.db.QueryRow(ctx,
		`SELECT current_database() || ':' || revision::text FROM data_revision`,
	).Scan(&rev)
	if err != nil {
		return "", fmt.Errorf("read data revision: %w", err)
	}
	return "pg:" + rev, nil
}

// Snapshot reads all three collections in one repeatable-read transaction
func (r *Postgres) Snapshot(ctx context.Context) (*domain.Snapshot, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("begin snapshot: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	snap := &domain.Snapshot{}
	if snap.Clients, err = r.listClients(ctx, tx); err != nil {
		return nil, err
	}
	if snap.Contracts, err = r.listContracts(ctx, tx); err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, `SELECT name FROM providers ORDER BY LOWER(name)`)
	if err != nil {
		return nil, fmt.Errorf("query providers: %w", err)
	}
	if snap.Providers, err = pgx.CollectRows(rows, pgx.RowTo[string]); err != nil {
		return nil, fmt.Errorf("collect providers: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit snapshot: %w", err)
	}
	return snap, nil
}

func (r *Postgres) listClients(ctx context.Context, q querier) ([]domain.Client, error) {
	rows, err := q.Query(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query clients: %w", err)
	}
	defer rows.Close()

	clients := []domain.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clients: %w", err)
	}
	return clients, nil
}

func (r *Postgres) listContracts(ctx context.Context, q querier) ([]domain.Contract, error) {
	rows, err := q.Query(ctx, `SELECT `+contractColumns+` FROM contracts ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query contracts: %w", err)
	}
	defer rows.Close()

	contracts := []domain.Contract{}
	for rows.Next() {
		c, err := r.scanContract(rows)
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contracts: %w", err)
	}
	return contracts, nil
}

func (r *Postgres) deleteByID(ctx context.Context, table, kind, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%s %s: %w", kind, id, domain.ErrNotFound)
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", kind, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, domain.ErrNotFound)
	}
	return nil
}

func (r *Postgres) contractWriteError(op, clientID string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
		return fmt.Errorf("%w: client %s does not exist", domain.ErrInvalid, clientID)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// dateParam stores only the calendar day of t as seen in loc
func (r *Postgres) dateParam(t *time.Time) any {
	if t == nil {
		return nil
	}
	y, m, d := t.In(r.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// localDate turns a DATE read back as UTC midnight into midnight in loc
func (r *Postgres) localDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	y, m, d := t.Date()
	local := time.Date(y, m, d, 0, 0, 0, 0, r.loc)
	return &local
}

func scanClient(row pgx.Row) (*domain.Client, error) {
	var (
		c                         domain.Client
		ibans, legal, residential []byte
		legacyIBAN                string
	)
	err := row.Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.CodiceFiscale, &c.MobilePhone,
		&ibans, &legacyIBAN, &legal, &residential, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan client: %w", err)
	}

	var list []domain.IBAN
	if err := unmarshalOptional(ibans, &list); err != nil {
		return nil, fmt.Errorf("client %s ibans: %w", c.ID, err)
	}
	c.IBANs = NormalizeIBANs(list, legacyIBAN)

	if err := unmarshalOptional(legal, &c.LegalAddress); err != nil {
		return nil, fmt.Errorf("client %s legal address: %w", c.ID, err)
	}
	if err := unmarshalOptional(residential, &c.ResidentialAddress); err != nil {
		return nil, fmt.Errorf("client %s residential address: %w", c.ID, err)
	}
	return &c, nil
}

func (r *Postgres) scanContract(row pgx.Row) (*domain.Contract, error) {
	var (
		c          domain.Contract
		typ        string
		start, end *time.Time
		supply     []byte
	)
	err := row.Scan(
		&c.ID, &c.ClientID, &typ, &c.Provider, &c.ContractCode,
		&start, &end, &c.Commission, &supply,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan contract: %w", err)
	}

	c.Type = domain.ContractType(typ)
	c.StartDate = r.localDate(start)
	c.EndDate = r.localDate(end)
	if err := unmarshalOptional(supply, &c.SupplyAddress); err != nil {
		return nil, fmt.Errorf("contract %s supply address: %w", c.ID, err)
	}
	return &c, nil
}

func clientJSON(c domain.Client) (ibans []byte, legal, residential any, err error) {
	if ibans, err = json.Marshal(c.IBANs); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal ibans: %w", err)
	}
	if legal, err = nullableJSON(c.LegalAddress); err != nil {
		return nil, nil, nil, err
	}
	if residential, err = nullableJSON(c.ResidentialAddress); err != nil {
		return nil, nil, nil, err
	}
	return ibans, legal, residential, nil
}

func nullableJSON(a *domain.Address) (any, error) {
	if a == nil {
		return nil, nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal address: %w", err)
	}
	return b, nil
}

func unmarshalOptional(data []byte, dest any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dest)
}
