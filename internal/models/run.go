package models

import "time"

// Generation run lifecycle states.
const (
	RunStatusPending   = "PENDING"
	RunStatusRunning   = "RUNNING"
	RunStatusCompleted = "COMPLETED"
	RunStatusFailed    = "FAILED"
)

// GenerationRun records one asynchronous generation request and its outcome.
// Runs are kept in the cache store with a TTL; the assignments themselves are
// durable regardless.
type GenerationRun struct {
	ID         string          `json:"id"`
	Scope      GenerationScope `json:"scope"`
	Status     string          `json:"status"`
	Error      string          `json:"error,omitempty"`
	Stats      map[string]int  `json:"stats,omitempty"`
	Unresolved int             `json:"unresolved,omitempty"`
	Warnings   []string        `json:"warnings,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	StartedAt  *time.Time      `json:"started_at,omitempty"`
	FinishedAt *time.Time      `json:"finished_at,omitempty"`
}
