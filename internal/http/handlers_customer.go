package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bizbooks/internal/core"
	"bizbooks/internal/log"
)

type customerRequest struct {
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	Address        string          `json:"address"`
	City           string          `json:"city"`
	State          string          `json:"state"`
	Pincode        string          `json:"pincode"`
	GSTN           string          `json:"gstn"`
	Type           string          `json:"type"`
	PaymentTerms   int             `json:"payment_terms"`
	CreditLimit    decimal.Decimal `json:"credit_limit"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Notes          string          `json:"notes"`
}

type customerResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Email          string          `json:"email,omitempty"`
	Phone          string          `json:"phone,omitempty"`
	Address        string          `json:"address,omitempty"`
	City           string          `json:"city,omitempty"`
	State          string          `json:"state,omitempty"`
	Pincode        string          `json:"pincode,omitempty"`
	GSTN           string          `json:"gstn,omitempty"`
	Type           string          `json:"type"`
	PaymentTerms   int             `json:"payment_terms"`
	CreditLimit    decimal.Decimal `json:"credit_limit"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Notes          string          `json:"notes,omitempty"`
	Active         bool            `json:"active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (req customerRequest) toCustomer() core.Customer {
	typ := core.CustomerType(req.Type)
	if req.Type == "" {
		typ = core.Individual
	}
	return core.Customer{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Address:        req.Address,
		City:           req.City,
		State:          req.State,
		Pincode:        req.Pincode,
		GSTN:           req.GSTN,
		Type:           typ,
		PaymentTerms:   req.PaymentTerms,
		CreditLimit:    req.CreditLimit,
		OpeningBalance: req.OpeningBalance,
		Notes:          req.Notes,
	}
}

func toCustomerResponse(c core.Customer) customerResponse {
	return customerResponse{
		ID:             c.ID,
		Name:           c.Name,
		Email:          c.Email,
		Phone:          c.Phone,
		Address:        c.Address,
		City:           c.City,
		State:          c.State,
		Pincode:        c.Pincode,
		GSTN:           c.GSTN,
		Type:           string(c.Type),
		PaymentTerms:   c.PaymentTerms,
		CreditLimit:    c.CreditLimit,
		OpeningBalance: c.OpeningBalance,
		Notes:          c.Notes,
		Active:         c.Active,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func (s *Server) handleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body: "+err.Error())
		return
	}

	c := req.toCustomer()
	if err := c.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	now := time.Now().UTC()
	c.ID = uuid.NewString()
	c.Active = true
	c.CreatedAt = now
	c.UpdatedAt = now

	if err := s.repo.CreateCustomer(r.Context(), c); err != nil {
		writeError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Customer created",
		"id", c.ID,
		log.FieldCustomerName, c.Name,
		log.FieldComponent, log.ComponentCustomer,
		log.FieldOperation, log.OpCreate)
	writeJSON(w, http.StatusCreated, toCustomerResponse(c))
}

func (s *Server) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("include_inactive") == "true"
	customers, err := s.repo.ListCustomers(r.Context(), includeInactive)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]customerResponse, len(customers))
	for i, c := range customers {
		out[i] = toCustomerResponse(c)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetCustomer(w http.ResponseWriter, r *http.Request) {
	c, err := s.repo.GetCustomer(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCustomerResponse(c))
}

func (s *Server) handleUpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	existing, err := s.repo.GetCustomer(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req customerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body: "+err.Error())
		return
	}

	c := req.toCustomer()
	if err := c.Validate(); err != nil {
		writeError(w, r, err)
		return
	}
	c.ID = existing.ID
	c.Active = existing.Active
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateCustomer(r.Context(), c); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCustomerResponse(c))
}

// handleDeactivateCustomer soft-deletes so historical invoices and
// statements keep resolving against the customer record.
func (s *Server) handleDeactivateCustomer(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.DeactivateCustomer(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
