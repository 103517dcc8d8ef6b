package dto

import (
	"time"

	"github.com/google/uuid"
)

// --- Suggestion cache administration ---

type CacheStatsResponse struct {
	Entries    int64   `json:"entries"`
	TotalHits  int64   `json:"total_hits"`
	AvgHitRate float64 `json:"avg_hit_rate"`
}

type ClearCacheRequest struct {
	// Scope the clear to one company; empty clears everything.
	CompanyId *uuid.UUID `json:"company_id,omitempty"`
}

type ClearCacheResponse struct {
	Cleared bool   `json:"cleared"`
	Scope   string `json:"scope"` // "company" | "all"
}

// --- System log DTOs ---
// Log IDs are MD5 hashes of the log line, not UUIDs.

type LogListResponse struct {
	Id        string    `json:"id"`
	Level     string    `json:"level"`
	Module    string    `json:"module"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type LogDetailResponse struct {
	LogListResponse
	Details map[string]interface{} `json:"details"`
}
