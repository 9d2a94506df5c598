package x2

import (
	"context"
	"fmt"
)

// CreateContact verifies submitted against the Contacts schema and posts
// the verified fields. If a required field is missing nothing is written
// and the result carries only MissingRequired.
func (c *Client) CreateContact(ctx context.Context, submitted *Fields, mapper Mapper, verifyDropdowns bool) (*ContactResult, error) {
	return c.writeContact(ctx, submitted, mapper, verifyDropdowns, 0)
}

// UpdateContact verifies submitted against the Contacts schema and puts
// the verified fields onto contact id. Unless the caller sets it,
// dupeCheck is reset to 0. Required fields are not enforced on update.
func (c *Client) UpdateContact(ctx context.Context, id int64, submitted *Fields, mapper Mapper, verifyDropdowns bool) (*ContactResult, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: contact id must be positive, got %d", ErrInvalidArgument, id)
	}
	return c.writeContact(ctx, submitted, mapper, verifyDropdowns, id)
}

// writeContact creates a contact, or updates updateID when it is non-zero.
func (c *Client) writeContact(ctx context.Context, submitted *Fields, mapper Mapper, verifyDropdowns bool, updateID int64) (*ContactResult, error) {
	v, err := c.VerifyAttributes(ctx, EntityContacts, submitted, mapper, verifyDropdowns)
	if err != nil {
		return nil, err
	}

	fields := v.Verified
	if fields.IsEmpty("visibility") {
		fields.Set("visibility", 1)
	}

	var contact Entity
	if updateID != 0 {
		if !fields.IsSet("dupeCheck") {
			fields.Set("dupeCheck", 0)
		}

		path := entityPath(EntityContacts, updateID) + ".json"
		if err := c.put(ctx, path, fields, &contact); err != nil {
			return nil, fmt.Errorf("failed to update contact %d: %w", updateID, err)
		}
	} else {
		if len(v.MissingRequired) > 0 {
			c.logger.Info().
				Interface("missing", v.MissingRequired).
				Msg("Contact not created, required fields missing")
			return &ContactResult{MissingRequired: v.MissingRequired}, nil
		}

		if err := c.post(ctx, EntityContacts, fields, &contact); err != nil {
			return nil, fmt.Errorf("failed to create contact: %w", err)
		}
	}

	id, ok := contact.ID()
	if !ok {
		return nil, ErrIncompleteWrite
	}

	c.logger.Info().
		Int64("contact_id", id).
		Bool("update", updateID != 0).
		Int("fields", fields.Len()).
		Int("ignored", len(v.Ignored)).
		Msg("Wrote contact")

	return &ContactResult{Contact: contact, Ignored: v.Ignored}, nil
}
