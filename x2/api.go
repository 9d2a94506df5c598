package x2

import (
	"context"
)

// API defines the X2 operations used by the CLI
type API interface {
	// TestConnection verifies the client can reach the CRM
	TestConnection(ctx context.Context) error

	// Schema
	GetFields(ctx context.Context, entity string, withDropdownOptions bool) (*Schema, error)
	GetEmailFields(ctx context.Context, entity string) ([]*Field, error)
	GetRequiredFields(ctx context.Context, entity string) ([]*Field, error)
	GetFieldByName(ctx context.Context, entity, name string, matchOn MatchOn) (*Field, error)
	ValidateRequiredFields(ctx context.Context, entity string, fields *Fields) (map[string]string, error)
	VerifyAttributes(ctx context.Context, entity string, submitted *Fields, mapper Mapper, verifyDropdowns bool) (*Verification, error)

	// Contacts
	CreateContact(ctx context.Context, submitted *Fields, mapper Mapper, verifyDropdowns bool) (*ContactResult, error)
	UpdateContact(ctx context.Context, id int64, submitted *Fields, mapper Mapper, verifyDropdowns bool) (*ContactResult, error)

	// Records and sub-resources
	GetEntity(ctx context.Context, entity string, id int64) (Entity, error)
	GetEntityActions(ctx context.Context, entity string, id int64) ([]Entity, error)
	GetEntityActionsByID(ctx context.Context, entity string, id int64) (map[int64]Entity, error)
	CreateAction(ctx context.Context, entity string, entityID int64, description, actionType string) (Entity, error)
	GetEntityTags(ctx context.Context, entity string, id int64) ([]string, error)
	CreateTags(ctx context.Context, entity string, id int64, tags []string) (any, error)
	ResetDupeCheck(ctx context.Context, entity string, id int64) (Entity, error)
	ResetAllDupeCheck(ctx context.Context, entity string, list []Entity) error

	// Dropdowns
	GetAllDropdowns(ctx context.Context) ([]*Dropdown, error)
	GetAllDropdownsByID(ctx context.Context) (map[string]*Dropdown, error)
	GetDropdown(ctx context.Context, id string) (*Dropdown, error)

	// Duplicates
	GetContactsByEmails(ctx context.Context, emails []string, opts LookupOptions) (*ContactMatches, error)
	GetContactsByName(ctx context.Context, names []string) ([]Entity, error)
	GetEntityByField(ctx context.Context, entity string, values []string, fieldName, visibility string) ([]Entity, error)
	GetEmailDuplicates(ctx context.Context, emails []string, emailFields []string) (*EmailDuplicates, error)
}

var _ API = (*Client)(nil)
