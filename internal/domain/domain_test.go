package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseContractType(t *testing.T) {
	for _, s := range []string{"electricity", "gas", "telephony"} {
		got, err := ParseContractType(s)
		require.NoError(t, err)
		assert.Equal(t, ContractType(s), got)
	}

	_, err := ParseContractType("Electricity")
	assert.True(t, errors.Is(err, ErrInvalid))
}

func TestContractType_IsEnergy(t *testing.T) {
	assert.True(t, Electricity.IsEnergy())
	assert.True(t, Gas.IsEnergy())
	assert.False(t, Telephony.IsEnergy())
}

func TestContract_CommissionValue(t *testing.T) {
	amount := 42.5
	assert.Equal(t, 42.5, Contract{Commission: &amount}.CommissionValue())
	assert.Equal(t, 0.0, Contract{}.CommissionValue())
}

func TestClient_FullName(t *testing.T) {
	assert.Equal(t, "Mario Rossi", Client{FirstName: "Mario", LastName: "Rossi"}.FullName())
}
