package cmd

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/s0up4200/x2rest/x2"
)

var (
	byField     bool
	noDedup     bool
	visibility  string
	emailFields []string
	resetEmails []string
)

// dupesCmd represents the dupes command
var dupesCmd = &cobra.Command{
	Use:   "dupes",
	Short: "Find duplicate contacts and reset their dupe-check flag",
	Long: `Look contacts up by email or full name. Lookups that would return 500 or
more records are treated as failed and yield nothing.

--filter takes an expression or the name of a filter from the config file
and is applied to the contacts found, e.g.

  x2rest dupes emails jane@example.com --filter 'daysSince(createDate) < 30'`,
}

var dupesEmailsCmd = &cobra.Command{
	Use:   "emails <email>...",
	Short: "Find contacts by email in every email field",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDupesEmails,
}

var dupesNamesCmd = &cobra.Command{
	Use:   "names <full name>...",
	Short: "Find visible contacts by full name",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDupesNames,
}

var dupesEmailDuplicatesCmd = &cobra.Command{
	Use:   "email-duplicates <email>...",
	Short: "Pick the contact to update among contacts sharing an email",
	Long: `Pick the contact to update among contacts sharing an email. Email fields
are tried in the order given by --fields (default contacts.email_fields): the
highest id under the first field with a match is chosen, every other match is
listed under its field.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDupesEmailDuplicates,
}

var dupesResetCmd = &cobra.Command{
	Use:   "reset [id]...",
	Short: "Reset the dupe-check flag of records",
	Long: `Reset the dupe-check flag of the given records, or of the contacts found by
--email. Records are reset one at a time and the first failure stops the run.`,
	RunE: runDupesReset,
}

func init() {
	rootCmd.AddCommand(dupesCmd)
	dupesCmd.AddCommand(dupesEmailsCmd, dupesNamesCmd, dupesEmailDuplicatesCmd, dupesResetCmd)

	for _, c := range []*cobra.Command{dupesEmailsCmd, dupesNamesCmd, dupesResetCmd} {
		c.Flags().StringVar(&filterExpr, "filter", "", "filter expression or configured filter name")
	}
	dupesEmailsCmd.Flags().BoolVar(&byField, "by-field", false, "group contacts by the field that matched")
	dupesEmailsCmd.Flags().BoolVar(&noDedup, "no-dedup", false, "list a contact under every field that matched")
	dupesEmailsCmd.Flags().StringVar(&visibility, "visibility", "1", `visibility to match, "" for any`)
	dupesEmailDuplicatesCmd.Flags().StringSliceVar(&emailFields, "fields", nil, "email fields by priority")
	dupesResetCmd.Flags().StringSliceVar(&resetEmails, "email", nil, "reset contacts matching these emails")
	dupesResetCmd.Flags().StringVarP(&entity, "entity", "e", x2.EntityContacts, "entity type of the given ids")
}

func runDupesEmails(cmd *cobra.Command, args []string) error {
	f, err := resolveFilter()
	if err != nil {
		return err
	}

	opts := x2.LookupOptions{
		Flatten:    !byField,
		Dedup:      !noDedup,
		Visibility: visibility,
	}
	matches, err := client.GetContactsByEmails(cmd.Context(), args, opts)
	if err != nil {
		return err
	}

	if f != nil {
		if matches.Flat != nil {
			if matches.Flat, err = f.ApplyByID(matches.Flat); err != nil {
				return err
			}
		}
		for i := range matches.ByField {
			if matches.ByField[i].Contacts, err = f.ApplyByID(matches.ByField[i].Contacts); err != nil {
				return err
			}
		}
	}

	logger.Info().Int("contacts", matches.Len()).Msg("Contacts found")
	return printJSON(matches)
}

func runDupesNames(cmd *cobra.Command, args []string) error {
	f, err := resolveFilter()
	if err != nil {
		return err
	}

	contacts, err := client.GetContactsByName(cmd.Context(), args)
	if err != nil {
		return err
	}
	if f != nil {
		if contacts, err = f.Apply(contacts); err != nil {
			return err
		}
	}

	logger.Info().Int("contacts", len(contacts)).Msg("Contacts found")
	if contacts == nil {
		contacts = []x2.Entity{}
	}
	return printJSON(contacts)
}

func runDupesEmailDuplicates(cmd *cobra.Command, args []string) error {
	fields := emailFields
	if len(fields) == 0 {
		fields = cfg.Contacts.EmailFields
	}

	dupes, err := client.GetEmailDuplicates(cmd.Context(), args, fields)
	if err != nil {
		return err
	}
	if dupes == nil {
		logger.Info().Strs("emails", args).Msg("No contacts share these emails")
	}
	return printJSON(dupes)
}

func runDupesReset(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if len(args) > 0 && len(resetEmails) > 0 {
		return fmt.Errorf("give either ids or --email, not both")
	}

	var list []x2.Entity
	switch {
	case len(resetEmails) > 0:
		if entity != x2.EntityContacts {
			return fmt.Errorf("--email only finds %s", x2.EntityContacts)
		}
		matches, err := client.GetContactsByEmails(ctx, resetEmails, x2.DefaultLookupOptions())
		if err != nil {
			return err
		}
		for _, id := range slices.Sorted(maps.Keys(matches.Flat)) {
			list = append(list, matches.Flat[id])
		}
	case len(args) > 0:
		for _, arg := range args {
			id, err := parseID(arg)
			if err != nil {
				return err
			}
			list = append(list, x2.Entity{"id": id})
		}
	default:
		return fmt.Errorf("no records given, pass ids or --email")
	}

	f, err := resolveFilter()
	if err != nil {
		return err
	}
	if f != nil {
		if list, err = f.Apply(list); err != nil {
			return err
		}
	}

	if len(list) == 0 {
		logger.Info().Msg("Nothing to reset")
		return nil
	}

	if err := client.ResetAllDupeCheck(ctx, entity, list); err != nil {
		return err
	}

	logger.Info().Int("records", len(list)).Str("entity", entity).Msg("Dupe-check reset")
	return printJSON(map[string]int{"reset": len(list)})
}
