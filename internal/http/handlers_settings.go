package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"bizbooks/internal/core"
)

type profileRequest struct {
	BusinessName    string `json:"business_name"`
	BusinessAddress string `json:"business_address"`
	ContactNumber   string `json:"contact_number"`
	GSTNNumber      string `json:"gstn_number"`
}

type profileResponse struct {
	BusinessName    string    `json:"business_name"`
	BusinessAddress string    `json:"business_address,omitempty"`
	ContactNumber   string    `json:"contact_number,omitempty"`
	GSTNNumber      string    `json:"gstn_number,omitempty"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.repo.GetProfile(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{
		BusinessName:    p.BusinessName,
		BusinessAddress: p.BusinessAddress,
		ContactNumber:   p.ContactNumber,
		GSTNNumber:      p.GSTNNumber,
		UpdatedAt:       p.UpdatedAt,
	})
}

// handleSaveProfile upserts the single business profile row. The profile is
// stamped onto every invoice issued after the save.
func (s *Server) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.BusinessName) == "" {
		writeError(w, r, core.ErrEmptyName)
		return
	}

	if err := s.repo.SaveProfile(r.Context(), core.Profile{
		BusinessName:    req.BusinessName,
		BusinessAddress: req.BusinessAddress,
		ContactNumber:   req.ContactNumber,
		GSTNNumber:      req.GSTNNumber,
	}); err != nil {
		writeError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Business profile updated", "business_name", req.BusinessName)
	p, err := s.repo.GetProfile(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{
		BusinessName:    p.BusinessName,
		BusinessAddress: p.BusinessAddress,
		ContactNumber:   p.ContactNumber,
		GSTNNumber:      p.GSTNNumber,
		UpdatedAt:       p.UpdatedAt,
	})
}
