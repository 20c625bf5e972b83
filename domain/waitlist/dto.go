package waitlist

import (
	"strings"

	"github.com/akeren/jobtracker-api/internal/models"
	"github.com/akeren/jobtracker-api/pkg/constants"
)

// Email is validated by the gate rather than the binding so that format failures follow the
// same reject path as every other check.
type JoinWaitlistRequest struct {
	Email        string `json:"email" binding:"required,max=255"`
	BusinessType string `json:"businessType" binding:"omitempty,max=100"`
	Source       string `json:"source" binding:"omitempty,max=100"`
}

type RequestMeta struct {
	IPAddress string
	UserAgent string
}

type JoinResult struct {
	Outcome Outcome
	Reason  string
	Entry   *JoinResponse
}

type JoinResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
}

type WaitlistEntryResponse struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	BusinessType *string `json:"business_type"`
	Source       *string `json:"source"`
	IPAddress    string  `json:"ip_address"`
	UserAgent    string  `json:"user_agent"`
	CreatedAt    string  `json:"created_at"`
}

type BlockedAttemptResponse struct {
	ID          string `json:"id"`
	IPAddress   string `json:"ip_address"`
	Email       string `json:"email"`
	UserAgent   string `json:"user_agent"`
	BlockReason string `json:"block_reason"`
	AttemptedAt string `json:"attempted_at"`
}

type SpamStatsReport struct {
	Hours          int                      `json:"hours"`
	Since          string                   `json:"since"`
	TotalBlocked   int64                    `json:"total_blocked"`
	ByReason       []ReasonCount            `json:"by_reason"`
	TopIPs         []IPCount                `json:"top_ips"`
	RecentAttempts []BlockedAttemptResponse `json:"recent_attempts"`
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func toWaitlistEntryModel(attempt *SignupAttempt) *models.WaitlistEntry {
	return &models.WaitlistEntry{
		Email:        attempt.Email,
		BusinessType: optional(attempt.BusinessType),
		Source:       optional(attempt.Source),
		IPAddress:    attempt.SourceIP,
		UserAgent:    attempt.UserAgent,
		CreatedAt:    attempt.Timestamp,
	}
}

func ToJoinResponse(entry *models.WaitlistEntry) *JoinResponse {
	return &JoinResponse{
		ID:        entry.ID,
		Email:     entry.Email,
		CreatedAt: entry.CreatedAt.UTC().Format(constants.RFC3339DateTimeFormat),
	}
}

func ToWaitlistEntryResponse(entry *models.WaitlistEntry) WaitlistEntryResponse {
	if entry == nil {
		return WaitlistEntryResponse{}
	}
	return WaitlistEntryResponse{
		ID:           entry.ID,
		Email:        entry.Email,
		BusinessType: entry.BusinessType,
		Source:       entry.Source,
		IPAddress:    entry.IPAddress,
		UserAgent:    entry.UserAgent,
		CreatedAt:    entry.CreatedAt.UTC().Format(constants.RFC3339DateTimeFormat),
	}
}

func ToBlockedAttemptResponse(attempt *models.BlockedAttempt) BlockedAttemptResponse {
	return BlockedAttemptResponse{
		ID:          attempt.ID,
		IPAddress:   attempt.IPAddress,
		Email:       attempt.Email,
		UserAgent:   attempt.UserAgent,
		BlockReason: attempt.BlockReason,
		AttemptedAt: attempt.AttemptedAt.UTC().Format(constants.RFC3339DateTimeFormat),
	}
}
