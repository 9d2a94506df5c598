package x2

import (
	"context"
	"fmt"
	"strings"
)

// NormalizeTag trims whitespace and leading '#' characters and then
// prefixes exactly one '#'.
func NormalizeTag(tag string) string {
	return "#" + strings.TrimLeft(strings.TrimSpace(tag), "#")
}

// NormalizeTags normalizes every tag, dropping blanks and repeats while
// keeping first-seen order.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		t := NormalizeTag(tag)
		if t == "#" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// GetEntityTags returns the tags on a record
func (c *Client) GetEntityTags(ctx context.Context, entity string, id int64) ([]string, error) {
	var tags []string
	if err := c.get(ctx, entityPath(entity, id)+"/tags", nil, &tags); err != nil {
		return nil, fmt.Errorf("failed to get tags for %s %d: %w", entity, id, err)
	}
	return tags, nil
}

// CreateTags adds tags to a record. The CRM's response is returned as
// decoded JSON.
func (c *Client) CreateTags(ctx context.Context, entity string, id int64, tags []string) (any, error) {
	normalized := NormalizeTags(tags)
	if len(normalized) == 0 {
		return nil, fmt.Errorf("%w: no tags to add", ErrInvalidArgument)
	}

	var res any
	if err := c.post(ctx, entityPath(entity, id)+"/tags", normalized, &res); err != nil {
		return nil, fmt.Errorf("failed to add tags to %s %d: %w", entity, id, err)
	}

	c.logger.Debug().
		Str("entity", entity).
		Int64("id", id).
		Strs("tags", normalized).
		Msg("Added tags")

	return res, nil
}
