package x2

import (
	"context"
	"fmt"
	"net/url"
)

// GetAllDropdowns fetches the dropdown catalog
func (c *Client) GetAllDropdowns(ctx context.Context) ([]*Dropdown, error) {
	var raw []Entity
	if err := c.get(ctx, "dropdowns", nil, &raw); err != nil {
		return nil, fmt.Errorf("failed to get dropdowns: %w", err)
	}

	dropdowns := make([]*Dropdown, 0, len(raw))
	for _, e := range raw {
		dropdowns = append(dropdowns, newDropdown(e))
	}
	return dropdowns, nil
}

// GetAllDropdownsByID fetches the dropdown catalog keyed by dropdown ID
func (c *Client) GetAllDropdownsByID(ctx context.Context) (map[string]*Dropdown, error) {
	dropdowns, err := c.GetAllDropdowns(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*Dropdown, len(dropdowns))
	for _, d := range dropdowns {
		byID[d.ID] = d
	}
	return byID, nil
}

// GetDropdown fetches one dropdown
func (c *Client) GetDropdown(ctx context.Context, id string) (*Dropdown, error) {
	var raw Entity
	if err := c.get(ctx, "dropdowns/"+url.PathEscape(id)+".json", nil, &raw); err != nil {
		return nil, fmt.Errorf("failed to get dropdown %s: %w", id, err)
	}
	return newDropdown(raw), nil
}
