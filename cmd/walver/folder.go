package main

import (
	"github.com/Walver-io/walver-sdk-go/models"
	"github.com/spf13/cobra"
)

func newFolderCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folder",
		Short: "Manage folders grouping verifications",
	}
	cmd.AddCommand(
		newFolderCreateCmd(a),
		newFolderListCmd(a),
		newFolderGetCmd(a),
		newFolderVerificationsCmd(a),
	)
	return cmd
}

func newFolderCreateCmd(a *app) *cobra.Command {
	var (
		description  string
		customFields []string
	)

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := models.CreateFolderRequest{Name: args[0]}
			if cmd.Flags().Changed("description") {
				req.Description = models.Some(description)
			}
			for _, raw := range customFields {
				field, err := parseCustomField(raw)
				if err != nil {
					return err
				}
				req.CustomFields = append(req.CustomFields, field)
			}

			client, err := a.newClient()
			if err != nil {
				return err
			}
			folder, err := client.CreateFolder(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), folder)
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "folder description")
	cmd.Flags().StringArrayVar(&customFields, "custom-field", nil, `custom field, a type ("email") or a JSON object; repeatable`)
	return cmd
}

func newFolderListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your folders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.newClient()
			if err != nil {
				return err
			}
			folders, err := client.ListFolders(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), folders)
		},
	}
}

func newFolderGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <folder-id>",
		Short: "Show a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.newClient()
			if err != nil {
				return err
			}
			folder, err := client.GetFolder(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), folder)
		},
	}
}

func newFolderVerificationsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verifications <folder-id>",
		Short: "List the verifications in a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.newClient()
			if err != nil {
				return err
			}
			verifications, err := client.ListFolderVerifications(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), verifications)
		},
	}
}
