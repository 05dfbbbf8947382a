package store

import (
	"strings"

	"github.com/wonny/contractdesk/internal/domain"
)

// LegacyIBANLabel labels an account migrated from the single-IBAN column
const LegacyIBANLabel = "IBAN"

// NormalizeIBANs folds a legacy single IBAN into the list form. It runs once at
// the data-access boundary so nothing downstream knows the old shape existed.
// The legacy value is prepended unless the list already holds it.
func NormalizeIBANs(list []domain.IBAN, legacy string) []domain.IBAN {
	out := make([]domain.IBAN, 0, len(list)+1)
	legacy = strings.TrimSpace(legacy)
	if legacy != "" && !hasIBAN(list, legacy) {
		out = append(out, domain.IBAN{Value: legacy, Label: LegacyIBANLabel})
	}
	return append(out, list...)
}

func hasIBAN(list []domain.IBAN, value string) bool {
	want := compactIBAN(value)
	for _, iban := range list {
		if compactIBAN(iban.Value) == want {
			return true
		}
	}
	return false
}

func compactIBAN(v string) string {
	return strings.ToUpper(strings.Join(strings.Fields(v), ""))
}
