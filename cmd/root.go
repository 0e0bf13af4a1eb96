package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/CameronXie/credential-registry/internal/version"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "credregistry",
		Short:         "In-memory credential registry with a JSON API.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Version,
	}

	root.PersistentFlags().String("config", "", "path to a YAML config file")
	root.AddCommand(newServeCmd(), newVersionCmd())

	return root
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			configFile, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}

			return serve(cmd.Context(), cmd.Flags(), configFile)
		},
	}

	cmd.Flags().Int("port", PortNumber, "port to listen on")
	cmd.Flags().String("hasher", "plaintext", `password hasher ("plaintext", "bcrypt")`)

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Version)
		},
	}
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
