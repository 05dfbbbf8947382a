// Package domain holds the client and contract records shared by every layer.
package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when a record id does not resolve
	ErrNotFound = errors.New("not found")
	// ErrInvalid is returned when a record fails boundary validation
	ErrInvalid = errors.New("invalid record")
)

// ContractType is the supply category of a contract
type ContractType string

const (
	Electricity ContractType = "electricity"
	Gas         ContractType = "gas"
	Telephony   ContractType = "telephony"
)

// ParseContractType accepts the canonical lowercase names
func ParseContractType(s string) (ContractType, error) {
	switch ContractType(s) {
	case Electricity, Gas, Telephony:
		return ContractType(s), nil
	}
	return "", fmt.Errorf("%w: unknown contract type %q", ErrInvalid, s)
}

// IsEnergy reports whether the type belongs to the energy/gas category
func (t ContractType) IsEnergy() bool {
	return t == Electricity || t == Gas
}

// Address is a postal address; every field is optional
type Address struct {
	Street  string `json:"street,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
}

// IBAN is a labelled bank account identifier
type IBAN struct {
	Value string `json:"value"`
	Label string `json:"label,omitempty"`
}

// Client is a customer record. CreatedAt is set once by the store.
type Client struct {
	ID                 string    `json:"id"`
	FirstName          string    `json:"firstName"`
	LastName           string    `json:"lastName"`
	Email              string    `json:"email,omitempty"`
	CodiceFiscale      string    `json:"codiceFiscale,omitempty"`
	MobilePhone        string    `json:"mobilePhone,omitempty"`
	IBANs              []IBAN    `json:"ibans"`
	LegalAddress       *Address  `json:"legalAddress,omitempty"`
	ResidentialAddress *Address  `json:"residentialAddress,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
}

// FullName is the display name used wherever a contract references its client
func (c Client) FullName() string {
	return c.FirstName + " " + c.LastName
}

// Contract is a supply contract. ClientID is a weak reference.
type Contract struct {
	ID            string       `json:"id"`
	ClientID      string       `json:"clientId"`
	Type          ContractType `json:"type"`
	Provider      string       `json:"provider"`
	ContractCode  string       `json:"contractCode,omitempty"`
	StartDate     *time.Time   `json:"startDate,omitempty"`
	EndDate       *time.Time   `json:"endDate,omitempty"`
	Commission    *float64     `json:"commission,omitempty"`
	SupplyAddress *Address     `json:"supplyAddress,omitempty"`
}

// CommissionValue returns the commission, treating an absent one as zero
func (c Contract) CommissionValue() float64 {
	if c.Commission == nil {
		return 0
	}
	return *c.Commission
}

// Snapshot is a point-in-time copy of every collection the dashboard reads
type Snapshot struct {
	Clients   []Client   `json:"clients"`
	Contracts []Contract `json:"contracts"`
	Providers []string   `json:"providers"`
}
