package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/x2rest/x2"
)

var (
	withOptions bool
	byLabel     bool
)

// fieldsCmd represents the fields command
var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "List the fields of an entity type",
	Long: `List every field the CRM defines for an entity type, in server order.
Use --options to attach the option sets of dropdown fields.`,
	Args: cobra.NoArgs,
	RunE: runFields,
}

var fieldsRequiredCmd = &cobra.Command{
	Use:   "required",
	Short: "List the required fields of an entity type",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fields, err := client.GetRequiredFields(cmd.Context(), entity)
		if err != nil {
			return err
		}
		return printJSON(fields)
	},
}

var fieldsEmailCmd = &cobra.Command{
	Use:   "email",
	Short: "List the fields that hold email addresses",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fields, err := client.GetEmailFields(cmd.Context(), entity)
		if err != nil {
			return err
		}
		return printJSON(fields)
	},
}

var fieldsGetCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Show a single field by name or label",
	Args:  cobra.ExactArgs(1),
	RunE:  runFieldsGet,
}

func init() {
	rootCmd.AddCommand(fieldsCmd)
	fieldsCmd.AddCommand(fieldsRequiredCmd, fieldsEmailCmd, fieldsGetCmd)

	fieldsCmd.PersistentFlags().StringVarP(&entity, "entity", "e", x2.EntityContacts, "entity type")
	fieldsCmd.Flags().BoolVar(&withOptions, "options", false, "include dropdown options")
	fieldsGetCmd.Flags().BoolVar(&byLabel, "label", false, "match on the attribute label instead of the field name")
}

func runFields(cmd *cobra.Command, args []string) error {
	schema, err := client.GetFields(cmd.Context(), entity, withOptions)
	if err != nil {
		return err
	}
	logger.Debug().Str("entity", entity).Int("fields", schema.Len()).Msg("Fetched schema")
	return printJSON(schema.Fields())
}

func runFieldsGet(cmd *cobra.Command, args []string) error {
	matchOn := x2.MatchFieldName
	if byLabel {
		matchOn = x2.MatchAttributeLabel
	}

	field, err := client.GetFieldByName(cmd.Context(), entity, args[0], matchOn)
	if err != nil {
		return fmt.Errorf("field %q on %s: %w", args[0], entity, err)
	}
	return printJSON(field)
}
