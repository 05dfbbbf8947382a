package engine

import (
	"strings"
	"unicode/utf8"

	"github.com/wonny/contractdesk/internal/domain"
)

// MinQueryLength is the noise threshold below which search returns nothing
const MinQueryLength = 2

// Field names one searchable value of a record
type Field[T any] struct {
	Name    string
	Extract func(T) string
}

// ClientFields are concatenated (non-empty, space-joined) and matched as one string,
// so a query may span adjacent fields ("mario rossi").
var ClientFields = []Field[domain.Client]{
	{"first_name", func(c domain.Client) string { return c.FirstName }},
	{"last_name", func(c domain.Client) string { return c.LastName }},
	{"email", func(c domain.Client) string { return c.Email }},
	{"codice_fiscale", func(c domain.Client) string { return c.CodiceFiscale }},
	{"mobile_phone", func(c domain.Client) string { return c.MobilePhone }},
	{"ibans", func(c domain.Client) string { return joinIBANs(c.IBANs) }},
	{"legal_address", func(c domain.Client) string { return FormatAddress(c.LegalAddress) }},
	{"residential_address", func(c domain.Client) string { return FormatAddress(c.ResidentialAddress) }},
}

// ContractFields are matched independently; any one containing the query is a hit.
var ContractFields = []Field[domain.Contract]{
	{"provider", func(c domain.Contract) string { return strings.ToLower(c.Provider) }},
	{"contract_code", func(c domain.Contract) string { return strings.ToLower(c.ContractCode) }},
	{"supply_address", func(c domain.Contract) string { return FormatAddress(c.SupplyAddress) }},
}

// SearchResult holds the matched subsets in original collection order
type SearchResult struct {
	Clients   []domain.Client   `json:"clients"`
	Contracts []domain.Contract `json:"contracts"`
}

// Search scans both collections for a case-insensitive substring match.
// Queries shorter than MinQueryLength runes return empty slices. The query is not trimmed.
func Search(query string, clients []domain.Client, contracts []domain.Contract) SearchResult {
	result := SearchResult{
		Clients:   []domain.Client{},
		Contracts: []domain.Contract{},
	}
	if utf8.RuneCountInString(query) < MinQueryLength {
		return result
	}

	q := strings.ToLower(query)
	for _, c := range clients {
		if MatchClient(c, q) {
			result.Clients = append(result.Clients, c)
		}
	}
	for _, c := range contracts {
		if MatchContract(c, q) {
			result.Contracts = append(result.Contracts, c)
		}
	}
	return result
}

// MatchClient reports whether the client's searchable string contains lowerQuery
func MatchClient(c domain.Client, lowerQuery string) bool {
	values := make([]string, 0, len(ClientFields))
	for _, f := range ClientFields {
		values = append(values, f.Extract(c))
	}
	return strings.Contains(joinNonEmpty(values...), lowerQuery)
}

// MatchContract reports whether any contract field contains lowerQuery
func MatchContract(c domain.Contract, lowerQuery string) bool {
	for _, f := range ContractFields {
		v := f.Extract(c)
		if v != "" && strings.Contains(v, lowerQuery) {
			return true
		}
	}
	return false
}

func joinIBANs(ibans []domain.IBAN) string {
	values := make([]string, 0, len(ibans))
	for _, iban := range ibans {
		values = append(values, iban.Value)
	}
	return strings.Join(values, " ")
}
