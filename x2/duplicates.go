package x2

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// LookupLimit caps duplicate lookups. A lookup that returns exactly this
// many records is treated as broken rather than as a partial answer.
const LookupLimit = 500

// LookupOptions controls GetContactsByEmails
type LookupOptions struct {
	// Flatten collapses the per-field buckets into Flat
	Flatten bool
	// Dedup keeps a contact only in the first field bucket it appears in
	Dedup bool
	// Visibility filters on the visibility attribute; "" disables the
	// filter and "0" is a real value.
	Visibility string
}

// DefaultLookupOptions returns flattened, deduplicated, visible-only lookups
func DefaultLookupOptions() LookupOptions {
	return LookupOptions{Flatten: true, Dedup: true, Visibility: "1"}
}

// FieldMatches holds the contacts one field lookup found, keyed by ID
type FieldMatches struct {
	Field    string           `json:"field"`
	Contacts map[int64]Entity `json:"contacts"`
}

// ContactMatches is the result of GetContactsByEmails. ByField is set when
// the lookup is not flattened, Flat when it is.
type ContactMatches struct {
	ByField []FieldMatches   `json:"byField,omitempty"`
	Flat    map[int64]Entity `json:"flat,omitempty"`
}

// Field returns the bucket for field name
func (m *ContactMatches) Field(name string) (map[int64]Entity, bool) {
	if m == nil {
		return nil, false
	}
	for _, fm := range m.ByField {
		if fm.Field == name {
			return fm.Contacts, true
		}
	}
	return nil, false
}

// Len returns the number of distinct contacts matched
func (m *ContactMatches) Len() int {
	if m == nil {
		return 0
	}
	if m.Flat != nil {
		return len(m.Flat)
	}
	seen := make(map[int64]struct{})
	for _, fm := range m.ByField {
		for id := range fm.Contacts {
			seen[id] = struct{}{}
		}
	}
	return len(seen)
}

// GetContactsByEmails looks emails up in every email-capable contact
// field, one request per field. The requests are independent; nothing is
// rolled back if a later one fails.
func (c *Client) GetContactsByEmails(ctx context.Context, emails []string, opts LookupOptions) (*ContactMatches, error) {
	if emails == nil {
		return nil, fmt.Errorf("%w: emails should be a list", ErrInvalidArgument)
	}

	fields, err := c.GetEmailFields(ctx, EntityContacts)
	if err != nil {
		return nil, err
	}

	matches := &ContactMatches{}
	for _, f := range fields {
		list, err := c.GetEntityByField(ctx, EntityContacts, emails, f.FieldName, opts.Visibility)
		if err != nil {
			return nil, err
		}
		if list == nil {
			continue
		}
		matches.ByField = append(matches.ByField, FieldMatches{
			Field:    f.FieldName,
			Contacts: FlattenEntityList([][]Entity{list}),
		})
	}

	if opts.Dedup {
		seen := make(map[int64]struct{})
		for _, fm := range matches.ByField {
			for id := range fm.Contacts {
				if _, dup := seen[id]; dup {
					delete(fm.Contacts, id)
					continue
				}
				seen[id] = struct{}{}
			}
		}
	}

	if opts.Flatten {
		lists := make([][]Entity, 0, len(matches.ByField))
		for _, fm := range matches.ByField {
			list := make([]Entity, 0, len(fm.Contacts))
			for _, e := range fm.Contacts {
				list = append(list, e)
			}
			lists = append(lists, list)
		}
		matches.Flat = FlattenEntityList(lists)
		matches.ByField = nil
	}

	c.logger.Debug().
		Int("emails", len(emails)).
		Int("fields", len(fields)).
		Int("contacts", matches.Len()).
		Msg("Looked up contacts by email")

	return matches, nil
}

// GetContactsByName looks contacts up by their full name ("First Last").
// Like the email lookup it only returns visible contacts.
func (c *Client) GetContactsByName(ctx context.Context, names []string) ([]Entity, error) {
	if names == nil {
		return nil, fmt.Errorf("%w: names should be a list", ErrInvalidArgument)
	}
	return c.GetEntityByField(ctx, EntityContacts, names, "name", "1")
}

// GetEntityByField returns the records of entity whose fieldName equals
// any of values. Empty values are dropped; if none remain, or if the
// lookup hits LookupLimit, it returns nil.
func (c *Client) GetEntityByField(ctx context.Context, entity string, values []string, fieldName, visibility string) ([]Entity, error) {
	var search []string
	for _, v := range values {
		if !isEmptyValue(v) {
			search = append(search, v)
		}
	}
	if len(search) == 0 {
		return nil, nil
	}

	params := url.Values{}
	params.Set("_limit", strconv.Itoa(LookupLimit))
	for i, v := range search {
		params.Set(fmt.Sprintf("%s[%d]", fieldName, i), v)
	}
	if visibility != "" {
		params.Set("visibility", visibility)
	}

	var records []Entity
	if err := c.get(ctx, url.PathEscape(entity), params, &records); err != nil {
		return nil, fmt.Errorf("failed to look up %s by %s: %w", entity, fieldName, err)
	}

	if len(records) == LookupLimit {
		c.logger.Warn().
			Str("entity", entity).
			Str("field", fieldName).
			Int("limit", LookupLimit).
			Msg("Lookup hit the result limit, discarding results")
		return nil, nil
	}

	return records, nil
}

// EmailDuplicates splits the contacts matching a set of emails into the one
// to update and the rest.
type EmailDuplicates struct {
	ContactToUpdate Entity                      `json:"contactToUpdate"`
	OtherContacts   map[string]map[int64]Entity `json:"otherContacts"`
}

// GetEmailDuplicates finds contacts sharing any of emails. emailFields
// lists email field names by priority (default just "email"): the contact
// with the highest ID under the first field that matched anything becomes
// ContactToUpdate, and every other match is reported under its field.
// It returns nil when emails is empty or nothing matched.
func (c *Client) GetEmailDuplicates(ctx context.Context, emails []string, emailFields []string) (*EmailDuplicates, error) {
	if len(emails) == 0 {
		return nil, nil
	}
	if len(emailFields) == 0 {
		emailFields = []string{"email"}
	}

	opts := DefaultLookupOptions()
	opts.Flatten = false
	matches, err := c.GetContactsByEmails(ctx, emails, opts)
	if err != nil {
		return nil, err
	}
	if matches.Len() == 0 {
		return nil, nil
	}

	dupes := &EmailDuplicates{OtherContacts: make(map[string]map[int64]Entity)}
	for _, name := range emailFields {
		bucket, ok := matches.Field(name)
		if !ok || len(bucket) == 0 {
			continue
		}

		others := make(map[int64]Entity, len(bucket))
		for id, e := range bucket {
			others[id] = e
		}

		if dupes.ContactToUpdate == nil {
			maxID := highestID(bucket)
			dupes.ContactToUpdate = bucket[maxID]
			delete(others, maxID)
		}
		if len(others) > 0 {
			dupes.OtherContacts[name] = others
		}
	}

	return dupes, nil
}

func highestID(bucket map[int64]Entity) int64 {
	var highest int64
	first := true
	for id := range bucket {
		if first || id > highest {
			highest = id
			first = false
		}
	}
	return highest
}
