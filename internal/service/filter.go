package service

import (
	"strings"

	"github.com/redact/redact-backend/internal/domain"
)

// ApplyFilter narrows messages to the requesting user's own messages matching
// the filter. Pure and order-preserving; each stage only narrows. The
// ownership stage always runs first so no other user's content can ever reach
// the deletion executor.
func ApplyFilter(messages []domain.Message, filter domain.DeletionFilter, requestingUserID string) []domain.Message {
	filtered := make([]domain.Message, 0, len(messages))
	for _, msg := range messages {
		if msg.Author.ID == requestingUserID {
			filtered = append(filtered, msg)
		}
	}

	if len(filter.Keywords) > 0 {
		filtered = keep(filtered, func(msg domain.Message) bool {
			return containsAny(msg.Content, filter.Keywords)
		})
	}

	if len(filter.ExcludeKeywords) > 0 {
		filtered = keep(filtered, func(msg domain.Message) bool {
			return !containsAny(msg.Content, filter.ExcludeKeywords)
		})
	}

	if filter.DateFrom != nil {
		from := *filter.DateFrom
		filtered = keep(filtered, func(msg domain.Message) bool {
			return !msg.Timestamp.Before(from)
		})
	}

	if filter.DateTo != nil {
		to := *filter.DateTo
		filtered = keep(filtered, func(msg domain.Message) bool {
			return !msg.Timestamp.After(to)
		})
	}

	return filtered
}

// containsAny reports whether content contains any keyword as a
// case-insensitive substring
func containsAny(content string, keywords []string) bool {
	lower := strings.ToLower(content)
	for _, keyword := range keywords {
		if strings.Contains(lower, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

func keep(messages []domain.Message, pred func(domain.Message) bool) []domain.Message {
	out := messages[:0:0]
	for _, msg := range messages {
		if pred(msg) {
			out = append(out, msg)
		}
	}
	return out
}
