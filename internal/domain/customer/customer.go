// Package customer defines the bank customer aggregate. A customer references
// the accounts it owns by id only: the accounts themselves are owned by the
// registry, and removing a customer never destroys them.
package customer

import (
	"errors"
	"unicode"
)

// ErrEmptyName indicates a customer created without a name
var ErrEmptyName = errors.New("customer name cannot be empty")

// Customer represents a bank customer and the ids of its linked accounts
type Customer struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	TaxID      string  `json:"tax_id,omitempty"`
	AccountIDs []int64 `json:"account_ids"`
}

// New creates a customer with no linked accounts
func New(id int64, name, taxID string) (*Customer, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	return &Customer{ID: id, Name: name, TaxID: taxID}, nil
}

// AddAccount links an account id to the customer. Linking the same id twice
// is a no-op.
func (c *Customer) AddAccount(accountID int64) {
	for _, id := range c.AccountIDs {
		if id == accountID {
			return
		}
	}
	c.AccountIDs = append(c.AccountIDs, accountID)
}

// Owns reports whether the customer references the given account id
func (c *Customer) Owns(accountID int64) bool {
	for _, id := range c.AccountIDs {
		if id == accountID {
			return true
		}
	}
	return false
}

// ValidTaxID reports whether a tax id has the expected 11-digit form.
// Informational only, callers may still accept customers without one.
func ValidTaxID(taxID string) bool {
	if len(taxID) != 11 {
		return false
	}
	for _, r := range taxID {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
