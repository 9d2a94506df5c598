package x2

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// MatchOn selects which field attribute GetFieldByName compares
type MatchOn int

const (
	// MatchFieldName compares the field's API name
	MatchFieldName MatchOn = iota
	// MatchAttributeLabel compares the label shown in the CRM UI
	MatchAttributeLabel
)

// GetFields fetches the field schema of an entity type. With
// withDropdownOptions set, the dropdown catalog is fetched as well and
// attached to every dropdown field whose link type names a catalog entry.
func (c *Client) GetFields(ctx context.Context, entity string, withDropdownOptions bool) (*Schema, error) {
	var raw []Entity
	if err := c.get(ctx, url.PathEscape(entity)+"/fields", nil, &raw); err != nil {
		return nil, fmt.Errorf("failed to get %s fields: %w", entity, err)
	}

	var dropdowns map[string]*Dropdown
	if withDropdownOptions {
		var err error
		dropdowns, err = c.GetAllDropdownsByID(ctx)
		if err != nil {
			return nil, err
		}
	}

	schema := newSchema()
	for _, e := range raw {
		f := newField(e)
		if withDropdownOptions && f.IsDropdown() {
			if d, ok := dropdowns[f.LinkType]; ok {
				f.Dropdown = d
			}
		}
		schema.add(f)
	}

	c.logger.Debug().
		Str("entity", entity).
		Int("fields", schema.Len()).
		Bool("dropdowns", withDropdownOptions).
		Msg("Retrieved field schema")

	return schema, nil
}

// GetEmailFields returns the fields that can hold an email address: those
// whose name contains "email" or whose type is email.
func (c *Client) GetEmailFields(ctx context.Context, entity string) ([]*Field, error) {
	schema, err := c.GetFields(ctx, entity, false)
	if err != nil {
		return nil, err
	}
	return emailFields(schema), nil
}

func emailFields(schema *Schema) []*Field {
	return schema.Filter(func(f *Field) bool {
		return strings.Contains(f.FieldName, "email") || f.Type == FieldTypeEmail
	})
}

// GetRequiredFields returns the fields the CRM marks as required
func (c *Client) GetRequiredFields(ctx context.Context, entity string) ([]*Field, error) {
	schema, err := c.GetFields(ctx, entity, false)
	if err != nil {
		return nil, err
	}
	return requiredFields(schema), nil
}

func requiredFields(schema *Schema) []*Field {
	return schema.Filter(func(f *Field) bool {
		return f.Required
	})
}

// GetFieldByName returns the first field whose name or label equals name.
func (c *Client) GetFieldByName(ctx context.Context, entity, name string, matchOn MatchOn) (*Field, error) {
	schema, err := c.GetFields(ctx, entity, false)
	if err != nil {
		return nil, err
	}

	for _, f := range schema.Fields() {
		candidate := f.FieldName
		if matchOn == MatchAttributeLabel {
			candidate = f.AttributeLabel
		}
		if candidate == name {
			return f, nil
		}
	}

	return nil, fmt.Errorf("%w: %s.%s", ErrFieldNotFound, entity, name)
}

// ValidateRequiredFields reports the required fields of entity that fields
// does not set. It returns nil when nothing is missing.
func (c *Client) ValidateRequiredFields(ctx context.Context, entity string, fields *Fields) (map[string]string, error) {
	schema, err := c.GetFields(ctx, entity, false)
	if err != nil {
		return nil, err
	}
	return missingRequired(schema, fields), nil
}

func missingRequired(schema *Schema, fields *Fields) map[string]string {
	missing := make(map[string]string)
	for _, f := range requiredFields(schema) {
		if !fields.IsSet(f.FieldName) {
			missing[f.FieldName] = fmt.Sprintf("Missing needed required field: %s.", f.FieldName)
		}
	}

	if len(missing) == 0 {
		return nil
	}
	return missing
}
