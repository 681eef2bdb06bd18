package domain

import "time"

// Salary is the per-user salary record. One row per user; registration
// creates it and later writes replace it in place.
type Salary struct {
	UserID     int64
	Value      int64
	TargetDate time.Time
	UpdatedAt  time.Time
}

// SalaryInfo is the salary projection returned to clients, joined with the
// owning user's display name.
type SalaryInfo struct {
	UserID     int64
	Name       string
	Value      int64
	TargetDate time.Time
}
