package main

import (
	"github.com/Walver-io/walver-sdk-go/models"
	"github.com/spf13/cobra"
)

func newAPIKeyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "api-key",
		Short: "Manage API keys",
	}
	cmd.AddCommand(newAPIKeyCreateCmd(a), newAPIKeyListCmd(a), newAPIKeyDeleteCmd(a))
	return cmd
}

func newAPIKeyCreateCmd(a *app) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create an API key, the key is only shown once",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := models.CreateAPIKeyRequest{Name: args[0]}
			if cmd.Flags().Changed("description") {
				req.Description = models.Some(description)
			}

			client, err := a.newClient()
			if err != nil {
				return err
			}
			key, err := client.CreateAPIKey(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), key)
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "API key description")
	return cmd
}

func newAPIKeyListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your API keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.newClient()
			if err != nil {
				return err
			}
			keys, err := client.ListAPIKeys(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), keys)
		},
	}
}

func newAPIKeyDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <api-key-id>",
		Short: "Delete an API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.newClient()
			if err != nil {
				return err
			}
			msg, err := client.DeleteAPIKey(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), msg)
		},
	}
}
