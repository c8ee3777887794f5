package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income   TransactionType = "income"
	Expense  TransactionType = "expense"
	Purchase TransactionType = "purchase"
	Sale     TransactionType = "sale"
)

type (
	TransactionType string

	Transaction struct {
		ID          string
		Description string
		Amount      decimal.Decimal
		Type        TransactionType
		Category    string
		Date        string // YYYY-MM-DD
		CreatedAt   time.Time
		InvoiceID   string // optional back-reference to the generated invoice
		UserID      string
	}

	BillTo struct {
		Name    string `json:"name"`
		Address string `json:"address,omitempty"`
		Email   string `json:"email,omitempty"`
	}

	LineItem struct {
		Description string          `json:"description"`
		Quantity    decimal.Decimal `json:"quantity"`
		UnitPrice   decimal.Decimal `json:"unitPrice"`
		Amount      decimal.Decimal `json:"amount"`
	}

	BusinessInfo struct {
		BusinessName    string `json:"business_name,omitempty"`
		BusinessAddress string `json:"business_address,omitempty"`
		ContactNumber   string `json:"contact_number,omitempty"`
		GSTNNumber      string `json:"gstn_number,omitempty"`
	}

	// InvoiceData is the JSON document stored in the invoices table.
	InvoiceData struct {
		InvoiceNumber string          `json:"invoiceNumber"`
		Date          string          `json:"date"`
		DueDate       string          `json:"dueDate"`
		BillTo        BillTo          `json:"billTo"`
		Items         []LineItem      `json:"items"`
		Subtotal      decimal.Decimal `json:"subtotal"`
		TaxRate       decimal.Decimal `json:"taxRate"`
		TaxAmount     decimal.Decimal `json:"taxAmount"`
		Total         decimal.Decimal `json:"total"`
		BusinessInfo  BusinessInfo    `json:"businessInfo"`
	}

	Invoice struct {
		ID            string
		InvoiceNumber string
		Data          InvoiceData
		CreatedAt     time.Time
		UserID        string
	}

	CustomerType string

	Customer struct {
		ID             string
		Name           string
		Email          string
		Phone          string
		Address        string
		City           string
		State          string
		Pincode        string
		GSTN           string
		Type           CustomerType
		PaymentTerms   int // days
		CreditLimit    decimal.Decimal
		OpeningBalance decimal.Decimal
		Notes          string
		Active         bool
		CreatedAt      time.Time
		UpdatedAt      time.Time
		UserID         string
	}

	// Profile is the single-row business profile stamped onto generated invoices.
	Profile struct {
		BusinessName    string
		BusinessAddress string
		ContactNumber   string
		GSTNNumber      string
		UpdatedAt       time.Time
	}
)

const (
	Individual CustomerType = "individual"
	Business   CustomerType = "business"
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidDate      = errors.New("invalid date")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyName        = errors.New("empty name")
	ErrNoItems          = errors.New("invoice has no items")
)

// Valid reports whether the transaction type is one of the four known kinds.
func (t TransactionType) Valid() bool {
	switch t {
	case Income, Expense, Purchase, Sale:
		return true
	default:
		return false
	}
}

func (t Transaction) Validate() error {
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 500 {
		return errors.New("description too long (max 500 characters)")
	}
	if t.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if _, err := time.Parse("2006-01-02", t.Date); err != nil {
		return ErrInvalidDate
	}
	return nil
}

func (d InvoiceData) Validate() error {
	if strings.TrimSpace(d.BillTo.Name) == "" {
		return ErrEmptyName
	}
	if len(d.Items) == 0 {
		return ErrNoItems
	}
	for _, it := range d.Items {
		if it.Amount.IsNegative() || it.UnitPrice.IsNegative() {
			return ErrInvalidAmount
		}
	}
	if d.Subtotal.IsNegative() || d.TaxAmount.IsNegative() || d.Total.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

func (c Customer) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	switch c.Type {
	case Individual, Business:
	default:
		return errors.New("invalid customer type")
	}
	if c.PaymentTerms < 0 {
		return errors.New("payment terms cannot be negative")
	}
	return nil
}
