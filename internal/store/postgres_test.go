package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/contractdesk/internal/domain"
)

// openTestPostgres needs a disposable database; the schema is migrated and truncated.
func openTestPostgres(t *testing.T) *Postgres {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" || testing.Short() {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	err := Migrate(url, "up")
	if err != nil && !errors.Is(err, ErrNoChange) {
		t.Fatalf("migrate: %v", err)
	}

	pool, err := pgxpool.New(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(context.Background(), `TRUNCATE contracts, clients, providers`)
	require.NoError(t, err)

	loc, err := time.LoadLocation("Europe/Rome")
	require.NoError(t, err)
	return NewPostgres(pool, loc)
}

func TestPostgres_RoundTrip(t *testing.T) {
	repo := openTestPostgres(t)
	ctx := context.Background()

	client, err := repo.CreateClient(ctx, domain.Client{
		FirstName:    "Mario",
		LastName:     "Rossi",
		IBANs:        []domain.IBAN{{Value: "IT60X0542811101000000123456"}},
		LegalAddress: &domain.Address{City: "Torino"},
	})
	require.NoError(t, err)
	assert.False(t, client.CreatedAt.IsZero())

	end := time.Date(2024, 2, 14, 0, 0, 0, 0, repo.loc)
	commission := 120.5
	contract, err := repo.CreateContract(ctx, domain.Contract{
		ClientID: client.ID, Type: domain.Electricity, Provider: "Enel",
		EndDate: &end, Commission: &commission,
	})
	require.NoError(t, err)

	snap, err := repo.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Clients, 1)
	require.Len(t, snap.Contracts, 1)
	require.NotNil(t, snap.Clients[0].LegalAddress)
	assert.Equal(t, "Torino", snap.Clients[0].LegalAddress.City)
	assert.True(t, snap.Contracts[0].EndDate.Equal(end), "date round-trips as local midnight")
	assert.Equal(t, 120.5, snap.Contracts[0].CommissionValue())
	assert.Nil(t, snap.Contracts[0].StartDate)

	require.NoError(t, repo.DeleteClient(ctx, client.ID))
	_, err = repo.GetContract(ctx, contract.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound), "contract removed by cascade")
}

func TestPostgres_LegacyIBANIsNormalised(t *testing.T) {
	repo := openTestPostgres(t)
	ctx := context.Background()

	_, err := repo.db.Exec(ctx, `
		INSERT INTO clients (id, first_name, last_name, iban)
		VALUES ('6f1c1c6e-8a4e-4f57-9a55-1f2f3b0c9d11', 'Anna', 'Neri', 'IT02L1234512345123456789012')`)
	require.NoError(t, err)

	c, err := repo.GetClient(ctx, "6f1c1c6e-8a4e-4f57-9a55-1f2f3b0c9d11")
	require.NoError(t, err)
	assert.Equal(t, []domain.IBAN{{Value: "IT02L1234512345123456789012", Label: LegacyIBANLabel}}, c.IBANs)
}

func TestPostgres_Providers(t *testing.T) {
	repo := openTestPostgres(t)
	ctx := context.Background()

	_, err := repo.AddProvider(ctx, "Enel")
	require.NoError(t, err)
	list, err := repo.AddProvider(ctx, "enel")
	require.NoError(t, err)
	assert.Equal(t, []string{"Enel"}, list)
}

func TestPostgres_RevisionTracksWrites(t *testing.T) {
	repo := openTestPostgres(t)
	ctx := context.Background()

	r0, err := repo.Revision(ctx)
	require.NoError(t, err)
	_, err = repo.Snapshot(ctx)
	require.NoError(t, err)
	same, err := repo.Revision(ctx)
	require.NoError(t, err)
	assert.Equal(t, r0, same, "reads leave the revision alone")

	_, err = repo.CreateClient(ctx, domain.Client{FirstName: "Mario", LastName: "Rossi"})
	require.NoError(t, err)
	r1, err := repo.Revision(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, r0, r1)
}
