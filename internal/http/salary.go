package http

import (
	"errors"
	"net/http"

	"github.com/paytrack/authd/internal/service"
	"github.com/paytrack/authd/pkg/httpx"
	"github.com/paytrack/authd/pkg/slogx"
)

// SalaryHandler serves GET /salary for the authenticated principal.
type SalaryHandler struct {
	Salaries *service.SalaryService
}

func (h *SalaryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	info, err := h.Salaries.ForUser(ctx, principal.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSalaryNotFound):
			writeError(w, http.StatusBadRequest, "Salary info not found")
		case errors.Is(err, service.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "User not found")
		default:
			log.Error("loading salary failed", "user_id", principal.UserID, "error", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, salaryResponse{
		UserID:     info.UserID,
		Name:       info.Name,
		Salary:     info.Value,
		TargetDate: info.TargetDate.Format(dateFormat),
	})
}
