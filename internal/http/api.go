package http

import (
	"net/http"

	"github.com/paytrack/authd/pkg/httpx"
)

// Wire timestamp formats. Token expiries carry time of day, salary target
// dates do not.
const (
	timestampFormat = "2006-01-02 15:04:05"
	dateFormat      = "2006-01-02"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	Expires     string `json:"expires"`
	TokenType   string `json:"token_type"`
}

type statusResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

type salaryResponse struct {
	UserID     int64  `json:"user_id"`
	Name       string `json:"name"`
	Salary     int64  `json:"salary"`
	TargetDate string `json:"target_date"`
}

type registerRequest struct {
	Name       string `json:"name"`
	Login      string `json:"login"`
	Password   string `json:"password"`
	Salary     int64  `json:"salary"`
	TargetDate string `json:"target_date"`
}

type healthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *healthChecks `json:"checks,omitempty"`
}

type healthChecks struct {
	Database string `json:"database"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, code int, message string) {
	httpx.WriteJSON(w, code, errorResponse{Error: message})
}
