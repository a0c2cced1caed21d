package domain

import "github.com/google/uuid"

type AccountType string

const (
	AccountTypeAsset        AccountType = "asset"
	AccountTypeLiability    AccountType = "liability"
	AccountTypeEquity       AccountType = "equity"
	AccountTypeRevenue      AccountType = "revenue"
	AccountTypeCostOfSales  AccountType = "cost_of_sales"
	AccountTypeExpense      AccountType = "expense"
	AccountTypeOtherIncome  AccountType = "other_income"
	AccountTypeOtherExpense AccountType = "other_expense"
)

// Valid reports whether t is one of the known ledger account types.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity,
		AccountTypeRevenue, AccountTypeCostOfSales, AccountTypeExpense,
		AccountTypeOtherIncome, AccountTypeOtherExpense:
		return true
	}
	return false
}

// COALineItem is one row of a chart-of-accounts template. Name may contain
// {{VARIABLE}} placeholders.
type COALineItem struct {
	AccountNumber       string      `json:"accountNumber" yaml:"number"`
	Name                string      `json:"name" yaml:"name"`
	Type                AccountType `json:"type" yaml:"type"`
	ParentAccountNumber string      `json:"parentAccountNumber,omitempty" yaml:"parent,omitempty"`
	IsHeader            bool        `json:"isHeader" yaml:"header,omitempty"`
	SortOrder           int         `json:"sortOrder" yaml:"sort,omitempty"`
}

type COATemplate struct {
	Key         string        `json:"key" yaml:"key"`
	Name        string        `json:"name" yaml:"name"`
	Description string        `json:"description" yaml:"description"`
	LineItems   []COALineItem `json:"lineItems" yaml:"accounts"`
}

// Account is a populated ledger account ready for insertion.
type Account struct {
	ID                  uuid.UUID   `json:"id"`
	EntityID            string      `json:"entityId"`
	AccountNumber       string      `json:"accountNumber"`
	Name                string      `json:"name"`
	Type                AccountType `json:"type"`
	ParentAccountNumber string      `json:"parentAccountNumber,omitempty"`
	ParentID            *uuid.UUID  `json:"parentId,omitempty"`
	Level               int         `json:"level"`
	IsHeader            bool        `json:"isHeader"`
	SortOrder           int         `json:"sortOrder"`
	IsActive            bool        `json:"isActive"`
}

type COAGenerateInput struct {
	EntityID    string            `json:"entityId"`
	TemplateKey string            `json:"templateKey"`
	EntityType  string            `json:"entityType"`
	Variables   map[string]string `json:"variables"`
	Persist     bool              `json:"persist"`
}

type COAGenerateResult struct {
	TemplateKey string    `json:"templateKey"`
	Accounts    []Account `json:"accounts"`
	Persisted   bool      `json:"persisted"`
}

type ClassificationResult struct {
	EntityType  string `json:"entityType"`
	Normalized  string `json:"normalized"`
	TemplateKey string `json:"templateKey"`
}
