package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/redact/redact-backend/internal/domain"
)

func msg(id, authorID, content string, ts time.Time) domain.Message {
	return domain.Message{
		ID:        id,
		ChannelID: "C1",
		Content:   content,
		Timestamp: ts,
		Author:    domain.User{ID: authorID},
	}
}

func ids(messages []domain.Message) []string {
	out := make([]string, len(messages))
	for i, m := range messages {
		out[i] = m.ID
	}
	return out
}

func TestApplyFilter_OwnershipAlwaysApplied(t *testing.T) {
	now := time.Now()
	messages := []domain.Message{
		msg("1", "me", "hello", now),
		msg("2", "other", "hello", now),
		msg("3", "me", "world", now),
		msg("4", "stranger", "world", now),
	}

	// no other constraints at all: still only the requester's messages survive
	got := ApplyFilter(messages, domain.DeletionFilter{Channels: []string{"C1"}}, "me")
	assert.Equal(t, []string{"1", "3"}, ids(got))
}

func TestApplyFilter_KeywordORSemantics(t *testing.T) {
	now := time.Now()
	messages := []domain.Message{
		msg("1", "me", "contains a here", now),
		msg("2", "me", "contains B here", now),
		msg("3", "me", "neither keyword", now),
	}

	filter := domain.DeletionFilter{Keywords: []string{"a here", "b here"}}
	got := ApplyFilter(messages, filter, "me")
	assert.Equal(t, []string{"1", "2"}, ids(got))
}

func TestApplyFilter_CaseInsensitive(t *testing.T) {
	now := time.Now()
	messages := []domain.Message{
		msg("1", "me", "Big PROMO sale", now),
		msg("2", "me", "promo code inside", now),
		msg("3", "me", "nothing here", now),
	}

	got := ApplyFilter(messages, domain.DeletionFilter{Keywords: []string{"Promo"}}, "me")
	assert.Equal(t, []string{"1", "2"}, ids(got))
}

func TestApplyFilter_ExcludeWinsOverInclude(t *testing.T) {
	now := time.Now()
	messages := []domain.Message{
		msg("1", "me", "promo but keep-out", now),
		msg("2", "me", "promo and clean", now),
	}

	filter := domain.DeletionFilter{
		Keywords:        []string{"promo"},
		ExcludeKeywords: []string{"keep-out"},
	}
	got := ApplyFilter(messages, filter, "me")
	assert.Equal(t, []string{"2"}, ids(got))
}

func TestApplyFilter_DateBoundsInclusive(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	messages := []domain.Message{
		msg("before", "me", "x", from.Add(-time.Second)),
		msg("on-from", "me", "x", from),
		msg("middle", "me", "x", from.AddDate(0, 3, 0)),
		msg("on-to", "me", "x", to),
		msg("after", "me", "x", to.Add(time.Second)),
	}

	filter := domain.DeletionFilter{DateFrom: &from, DateTo: &to}
	got := ApplyFilter(messages, filter, "me")
	assert.Equal(t, []string{"on-from", "middle", "on-to"}, ids(got))
}

func TestApplyFilter_EmptyInput(t *testing.T) {
	got := ApplyFilter(nil, domain.DeletionFilter{Keywords: []string{"x"}}, "me")
	assert.Empty(t, got)
}

func TestApplyFilter_OrderPreserved(t *testing.T) {
	now := time.Now()
	var messages []domain.Message
	for i := 0; i < 20; i++ {
		messages = append(messages, msg(fmt.Sprintf("%d", i), "me", "keep", now))
	}

	got := ApplyFilter(messages, domain.DeletionFilter{Keywords: []string{"keep"}}, "me")
	assert.Equal(t, ids(messages), ids(got))
}

func TestApplyFilter_DoesNotMutateInput(t *testing.T) {
	now := time.Now()
	messages := []domain.Message{
		msg("1", "me", "promo", now),
		msg("2", "other", "promo", now),
		msg("3", "me", "skip", now),
	}

	_ = ApplyFilter(messages, domain.DeletionFilter{Keywords: []string{"promo"}}, "me")
	assert.Equal(t, []string{"1", "2", "3"}, ids(messages))
}
