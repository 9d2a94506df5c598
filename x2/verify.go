package x2

import (
	"context"
	"fmt"
)

// Reasons recorded in Verification.Ignored
const (
	ReasonInvalidFieldName = "Not a valid fieldname."
	ReasonInvalidDropdown  = "Not a valid dropdown value."
)

// VerifyAttributes checks submitted fields against the live schema of
// entity. Keys are renamed through mapper first when it has an entry for
// them. Unknown fields and, with verifyDropdowns, dropdown values outside
// the field's option set are reported in Ignored; everything else is
// sanitized into Verified.
//
// If two submitted keys map to the same field name the later one wins.
//
// For Contacts an unset visibility defaults to 1. MissingRequired is
// computed from Verified only, so a required field that was submitted but
// rejected still counts as missing.
func (c *Client) VerifyAttributes(ctx context.Context, entity string, submitted *Fields, mapper Mapper, verifyDropdowns bool) (*Verification, error) {
	schema, err := c.GetFields(ctx, entity, verifyDropdowns)
	if err != nil {
		return nil, err
	}

	v := newVerification(schema)
	submitted.Each(func(key string, value any) {
		name := key
		if mapped, ok := mapper[key]; ok {
			name = mapped
		}
		c.verifyGivenField(v, schema, name, value, verifyDropdowns)
	})

	if entity == EntityContacts && v.Verified.IsEmpty("visibility") {
		v.Verified.Set("visibility", 1)
	}

	v.MissingRequired = missingRequired(schema, v.Verified)

	if len(v.Ignored) > 0 {
		c.logger.Debug().
			Str("entity", entity).
			Interface("ignored", v.Ignored).
			Msg("Ignored submitted fields")
	}

	return v, nil
}

// VerifyField checks a single field into v. When schema is nil the schema
// of entity is fetched first.
func (c *Client) VerifyField(ctx context.Context, entity string, v *Verification, fieldName string, value any, schema *Schema, verifyDropdowns bool) error {
	if v == nil {
		return fmt.Errorf("%w: nil verification", ErrInvalidArgument)
	}
	if schema == nil {
		var err error
		schema, err = c.GetFields(ctx, entity, verifyDropdowns)
		if err != nil {
			return err
		}
	}
	if v.Verified == nil {
		v.Verified = NewFields()
	}
	if v.Ignored == nil {
		v.Ignored = make(map[string]string)
	}

	c.verifyGivenField(v, schema, fieldName, value, verifyDropdowns)
	return nil
}

func (c *Client) verifyGivenField(v *Verification, schema *Schema, fieldName string, value any, verifyDropdowns bool) {
	field, ok := schema.Get(fieldName)
	if !ok {
		v.Ignored[fieldName] = ReasonInvalidFieldName
		return
	}

	if verifyDropdowns && field.IsDropdown() && !field.Dropdown.HasOption(value) {
		v.Ignored[fieldName] = ReasonInvalidDropdown
		return
	}

	v.Verified.Set(fieldName, c.purifyValue(value))
}
