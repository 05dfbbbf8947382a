package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/contractdesk/internal/domain"
)

func TestNormalizeIBANs(t *testing.T) {
	current := []domain.IBAN{{Value: "IT60 X054 2811 1010 0000 0123 456", Label: "Conto"}}

	tests := []struct {
		name   string
		list   []domain.IBAN
		legacy string
		want   []domain.IBAN
	}{
		{"nothing to migrate", nil, "", []domain.IBAN{}},
		{"legacy only", nil, " IT02L1234512345123456789012 ", []domain.IBAN{
			{Value: "IT02L1234512345123456789012", Label: LegacyIBANLabel},
		}},
		{"legacy already in list ignoring spacing and case", current, "it60x0542811101000000123456", current},
		{"legacy prepended to a different list", current, "IT02L1234512345123456789012", []domain.IBAN{
			{Value: "IT02L1234512345123456789012", Label: LegacyIBANLabel},
			current[0],
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeIBANs(tt.list, tt.legacy))
		})
	}
}
