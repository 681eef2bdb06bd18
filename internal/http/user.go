package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/paytrack/authd/internal/domain"
	"github.com/paytrack/authd/internal/service"
	"github.com/paytrack/authd/pkg/httpx"
	"github.com/paytrack/authd/pkg/slogx"
)

const (
	maxNameLength  = 50
	maxLoginLength = 20
)

// RegisterHandler serves POST /user/add. Creates the user together with its
// salary record.
type RegisterHandler struct {
	Users    *service.UserService
	Salaries *service.SalaryService
}

func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if msg, ok := validateRegister(req); !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	targetDate, err := time.Parse(dateFormat, req.TargetDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid target_date, expected YYYY-MM-DD")
		return
	}

	userID, err := h.Users.Register(ctx, req.Name, req.Login, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrLoginTaken) {
			writeError(w, http.StatusUnauthorized,
				fmt.Sprintf("User with login %s is exist", req.Login))
			return
		}
		log.Error("register failed", "login", req.Login, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := h.Salaries.Record(ctx, domain.Salary{
		UserID:     userID,
		Value:      req.Salary,
		TargetDate: targetDate,
	}); err != nil {
		log.Error("recording salary failed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, statusResponse{
		Status:  true,
		Message: "User and salary info was added.",
	})
}

func validateRegister(req registerRequest) (string, bool) {
	switch {
	case req.Name == "" || len(req.Name) > maxNameLength:
		return fmt.Sprintf("Name must be between 1 and %d characters", maxNameLength), false
	case req.Login == "" || len(req.Login) > maxLoginLength:
		return fmt.Sprintf("Login must be between 1 and %d characters", maxLoginLength), false
	case req.Password == "":
		return "Password is required", false
	case req.TargetDate == "":
		return "target_date is required", false
	}
	return "", true
}
