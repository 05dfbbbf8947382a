package store

import (
	"fmt"
	"strings"

	"github.com/wonny/contractdesk/internal/domain"
)

// ValidateClient checks the fields every client must carry
func ValidateClient(c domain.Client) error {
	if strings.TrimSpace(c.FirstName) == "" {
		return fmt.Errorf("%w: first name is required", domain.ErrInvalid)
	}
	if strings.TrimSpace(c.LastName) == "" {
		return fmt.Errorf("%w: last name is required", domain.ErrInvalid)
	}
	for i, iban := range c.IBANs {
		if strings.TrimSpace(iban.Value) == "" {
			return fmt.Errorf("%w: iban %d has no value", domain.ErrInvalid, i)
		}
	}
	return nil
}

// ValidateContract checks the fields every contract must carry
func ValidateContract(c domain.Contract) error {
	if c.ClientID == "" {
		return fmt.Errorf("%w: client id is required", domain.ErrInvalid)
	}
	if _, err := domain.ParseContractType(string(c.Type)); err != nil {
		return err
	}
	if strings.TrimSpace(c.Provider) == "" {
		return fmt.Errorf("%w: provider is required", domain.ErrInvalid)
	}
	if c.Commission != nil && *c.Commission < 0 {
		return fmt.Errorf("%w: commission must not be negative", domain.ErrInvalid)
	}
	if c.StartDate != nil && c.EndDate != nil && c.EndDate.Before(*c.StartDate) {
		return fmt.Errorf("%w: end date precedes start date", domain.ErrInvalid)
	}
	return nil
}

// NormalizeProvider trims a provider name and rejects blanks
func NormalizeProvider(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: provider name is required", domain.ErrInvalid)
	}
	return name, nil
}

func containsFold(list []string, name string) bool {
	for _, p := range list {
		if strings.EqualFold(p, name) {
			return true
		}
	}
	return false
}
