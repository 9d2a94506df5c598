package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/x2rest/x2"
)

var (
	fieldFile       string
	fieldPairs      []string
	verifyDropdowns bool
)

// errNotWritten is returned after printing a create that was refused for
// missing required fields, so the exit status reflects it
var errNotWritten = errors.New("contact not created, required fields missing")

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check fields against an entity schema without writing",
	Long: `Rename the given fields through the configured mapper, drop the ones the
schema does not know or whose dropdown value is not an option, and report
required fields that are still missing. Nothing is written.`,
	Args: cobra.NoArgs,
	RunE: runVerify,
}

// contactCmd represents the contact command
var contactCmd = &cobra.Command{
	Use:   "contact",
	Short: "Create, update and show contacts",
}

var contactCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a contact from verified fields",
	Example: `  x2rest contact create --set firstName=Jane --set lastName=Doe
  x2rest contact create --file lead.yaml`,
	Args: cobra.NoArgs,
	RunE: runContactCreate,
}

var contactUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a contact with verified fields",
	Long: `Update a contact with verified fields. Required fields are not enforced.
dupeCheck is reset to 0 unless it is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runContactUpdate,
}

var contactGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a contact",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		contact, err := client.GetEntity(cmd.Context(), x2.EntityContacts, id)
		if err != nil {
			return err
		}
		return printJSON(contact)
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd, contactCmd)
	contactCmd.AddCommand(contactCreateCmd, contactUpdateCmd, contactGetCmd)

	for _, c := range []*cobra.Command{verifyCmd, contactCreateCmd, contactUpdateCmd} {
		c.Flags().StringVarP(&fieldFile, "file", "f", "", "YAML or JSON file of fields")
		c.Flags().StringArrayVarP(&fieldPairs, "set", "s", nil, "field as key=value, may be repeated")
		c.Flags().BoolVar(&verifyDropdowns, "verify-dropdowns", true, "reject dropdown values that are not options (default from config)")
	}
	verifyCmd.Flags().StringVarP(&entity, "entity", "e", x2.EntityContacts, "entity type")
}

// dropdownCheck returns the flag value when given, the config value otherwise
func dropdownCheck(cmd *cobra.Command) bool {
	if cmd.Flags().Changed("verify-dropdowns") {
		return verifyDropdowns
	}
	return cfg.Contacts.VerifyDropdowns
}

func runVerify(cmd *cobra.Command, args []string) error {
	fields, err := readFields(fieldFile, fieldPairs)
	if err != nil {
		return err
	}

	v, err := client.VerifyAttributes(cmd.Context(), entity, fields, mapper, dropdownCheck(cmd))
	if err != nil {
		return err
	}

	logger.Info().
		Int("verified", v.Verified.Len()).
		Int("ignored", len(v.Ignored)).
		Int("missing", len(v.MissingRequired)).
		Msg("Verified fields")

	return printJSON(v)
}

func runContactCreate(cmd *cobra.Command, args []string) error {
	fields, err := readFields(fieldFile, fieldPairs)
	if err != nil {
		return err
	}

	res, err := client.CreateContact(cmd.Context(), fields, mapper, dropdownCheck(cmd))
	if err != nil {
		return err
	}
	return reportWrite(res)
}

func runContactUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	fields, err := readFields(fieldFile, fieldPairs)
	if err != nil {
		return err
	}

	res, err := client.UpdateContact(cmd.Context(), id, fields, mapper, dropdownCheck(cmd))
	if err != nil {
		return err
	}
	return reportWrite(res)
}

func reportWrite(res *x2.ContactResult) error {
	for name, reason := range res.Ignored {
		logger.Warn().Str("field", name).Str("reason", reason).Msg("Field ignored")
	}

	if err := printJSON(res); err != nil {
		return err
	}

	if !res.Written() {
		return fmt.Errorf("%w: %d missing", errNotWritten, len(res.MissingRequired))
	}

	id, _ := res.Contact.ID()
	logger.Info().Int64("id", id).Msg("Contact saved")
	return nil
}
