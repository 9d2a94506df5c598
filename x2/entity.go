package x2

import (
	"context"
	"fmt"
)

// GetEntity fetches a single record
func (c *Client) GetEntity(ctx context.Context, entity string, id int64) (Entity, error) {
	var e Entity
	if err := c.get(ctx, entityPath(entity, id)+".json", nil, &e); err != nil {
		return nil, fmt.Errorf("failed to get %s %d: %w", entity, id, err)
	}
	return e, nil
}

// ResetDupeCheck clears the duplicate-detection flag on a record
func (c *Client) ResetDupeCheck(ctx context.Context, entity string, id int64) (Entity, error) {
	var e Entity
	body := NewFields().With("dupeCheck", 0)
	if err := c.put(ctx, entityPath(entity, id)+".json", body, &e); err != nil {
		return nil, fmt.Errorf("failed to reset dupe check on %s %d: %w", entity, id, err)
	}
	return e, nil
}

// ResetAllDupeCheck clears the duplicate-detection flag on every record in
// list, one request at a time. Every record must carry an ID; this is
// checked before anything is sent. The resets are not atomic: a failure
// part way through leaves the earlier records reset and skips the rest.
func (c *Client) ResetAllDupeCheck(ctx context.Context, entity string, list []Entity) error {
	ids := make([]int64, 0, len(list))
	for i, item := range list {
		id, ok := item.ID()
		if !ok {
			return fmt.Errorf("%w: item %d has no id", ErrInvalidArgument, i)
		}
		ids = append(ids, id)
	}

	for _, id := range ids {
		if _, err := c.ResetDupeCheck(ctx, entity, id); err != nil {
			return err
		}
	}

	c.logger.Info().Str("entity", entity).Int("count", len(ids)).Msg("Reset dupe check")
	return nil
}

// FlattenEntityList merges several result lists into one ID-keyed map.
// Records without an ID are dropped; a repeated ID keeps the last record.
func FlattenEntityList(lists [][]Entity) map[int64]Entity {
	flat := make(map[int64]Entity)
	for _, list := range lists {
		for _, e := range list {
			if id, ok := e.ID(); ok {
				flat[id] = e
			}
		}
	}
	return flat
}
