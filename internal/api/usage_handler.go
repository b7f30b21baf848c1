package api

import (
	"net/http"

	"github.com/wukongmap/wukong-api/internal/domain"
	"github.com/wukongmap/wukong-api/internal/service/quota"
)

// UsageHandler reports the caller's generation quota position.
type UsageHandler struct {
	gate *quota.Gate
}

// NewUsageHandler creates a new UsageHandler with the given dependencies.
func NewUsageHandler(gate *quota.Gate) *UsageHandler {
	return &UsageHandler{gate: gate}
}

// GetUsage handles GET /usage.
func (h *UsageHandler) GetUsage(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	status, err := h.gate.Check(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, QuotaResponse{
		Used:         status.Used,
		Limit:        status.Limit,
		Remaining:    status.Remaining,
		LimitReached: !status.Allowed,
	})
}
