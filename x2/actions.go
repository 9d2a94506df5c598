package x2

import (
	"context"
	"fmt"
)

// DefaultActionType is the action type used when none is given
const DefaultActionType = "note"

// GetEntityActions returns the actions (notes, calls, emails...) attached
// to a record.
func (c *Client) GetEntityActions(ctx context.Context, entity string, id int64) ([]Entity, error) {
	var actions []Entity
	if err := c.get(ctx, entityPath(entity, id)+"/Actions", nil, &actions); err != nil {
		return nil, fmt.Errorf("failed to get actions for %s %d: %w", entity, id, err)
	}
	return actions, nil
}

// GetEntityActionsByID returns the same actions keyed by action ID. Later
// actions with a repeated ID replace earlier ones.
func (c *Client) GetEntityActionsByID(ctx context.Context, entity string, id int64) (map[int64]Entity, error) {
	actions, err := c.GetEntityActions(ctx, entity, id)
	if err != nil {
		return nil, err
	}
	return c.indexByID(actions), nil
}

// CreateAction attaches a new action to a record. An empty actionType
// creates a note.
func (c *Client) CreateAction(ctx context.Context, entity string, entityID int64, description, actionType string) (Entity, error) {
	if actionType == "" {
		actionType = DefaultActionType
	}

	payload := NewFields().
		With("actionDescription", description).
		With("associationId", entityID).
		With("associationType", entity).
		With("type", actionType).
		With("visibility", "1").
		With("createDate", c.now().Unix())

	var action Entity
	if err := c.post(ctx, entityPath(entity, entityID)+"/Actions", payload, &action); err != nil {
		return nil, fmt.Errorf("failed to create action for %s %d: %w", entity, entityID, err)
	}
	return action, nil
}

// indexByID keys entities by ID, dropping any without one.
func (c *Client) indexByID(list []Entity) map[int64]Entity {
	out := make(map[int64]Entity, len(list))
	for _, e := range list {
		id, ok := e.ID()
		if !ok {
			c.logger.Debug().Interface("entity", e).Msg("Skipping record without ID")
			continue
		}
		out[id] = e
	}
	return out
}
