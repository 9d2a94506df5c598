package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/x2rest/x2"
)

var (
	actionType  string
	actionsByID bool
)

// actionsCmd represents the actions command
var actionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "List and create actions on a record",
}

var actionsListCmd = &cobra.Command{
	Use:   "list <id>",
	Short: "List the actions of a record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		if actionsByID {
			actions, err := client.GetEntityActionsByID(cmd.Context(), entity, id)
			if err != nil {
				return err
			}
			return printJSON(actions)
		}

		actions, err := client.GetEntityActions(cmd.Context(), entity, id)
		if err != nil {
			return err
		}
		return printJSON(actions)
	},
}

var actionsCreateCmd = &cobra.Command{
	Use:     "create <id> <description>",
	Short:   "Attach an action to a record",
	Example: `  x2rest actions create 12 "Called back, wants a demo" --type call`,
	Args:    cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		action, err := client.CreateAction(cmd.Context(), entity, id, strings.Join(args[1:], " "), actionType)
		if err != nil {
			return err
		}
		return printJSON(action)
	},
}

// tagsCmd represents the tags command
var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List and add tags on a record",
}

var tagsListCmd = &cobra.Command{
	Use:   "list <id>",
	Short: "List the tags of a record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		tags, err := client.GetEntityTags(cmd.Context(), entity, id)
		if err != nil {
			return err
		}
		return printJSON(tags)
	},
}

var tagsAddCmd = &cobra.Command{
	Use:   "add <id> <tag>...",
	Short: "Add tags to a record",
	Long:  `Add tags to a record. Tags get a single leading # and duplicates are sent once.`,
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		res, err := client.CreateTags(cmd.Context(), entity, id, args[1:])
		if err != nil {
			return err
		}
		logger.Info().Strs("tags", x2.NormalizeTags(args[1:])).Int64("id", id).Msg("Tags added")
		return printJSON(res)
	},
}

// dropdownsCmd represents the dropdowns command
var dropdownsCmd = &cobra.Command{
	Use:   "dropdowns",
	Short: "Inspect dropdown option sets",
}

var dropdownsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every dropdown option set",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dropdowns, err := client.GetAllDropdowns(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(dropdowns)
	},
}

var dropdownsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one dropdown option set",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := client.GetDropdown(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(d)
	},
}

func init() {
	rootCmd.AddCommand(actionsCmd, tagsCmd, dropdownsCmd)
	actionsCmd.AddCommand(actionsListCmd, actionsCreateCmd)
	tagsCmd.AddCommand(tagsListCmd, tagsAddCmd)
	dropdownsCmd.AddCommand(dropdownsListCmd, dropdownsGetCmd)

	for _, c := range []*cobra.Command{actionsCmd, tagsCmd} {
		c.PersistentFlags().StringVarP(&entity, "entity", "e", x2.EntityContacts, "entity type")
	}
	actionsListCmd.Flags().BoolVar(&actionsByID, "by-id", false, "key actions by their id")
	actionsCreateCmd.Flags().StringVarP(&actionType, "type", "t", x2.DefaultActionType, "action type")
}
