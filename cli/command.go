// Package cli implements the adminapi command.
package cli

import (
	"context"
	"os"

	"serveradmin/adminapi"
	"serveradmin/logreport"

	"github.com/spf13/cobra"
)

const multiNote = " (can be specified multiple times)"

// NewCommand returns the adminapi command.
func NewCommand() *cobra.Command {
	var opts Options
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "adminapi query...",
		Short: "Query and change servers on serveradmin",
		Long: `Query servers on serveradmin with the query language, print their
attributes and optionally reset or update them.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := adminapi.LoadConfig(cfgFile)
			if err != nil {
				return err
			}
			logreport.Setup(conf.LogLevel, cmd.ErrOrStderr())

			client, err := adminapi.NewClient(conf)
			if err != nil {
				return err
			}
			opts.Query = args
			return Run(context.Background(), cmd.OutOrStdout(), client, opts)
		},
	}
	cmd.DisableAutoGenTag = true

	flags := cmd.Flags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (default: $HOME/.adminapi.yaml)")
	flags.BoolVarP(&opts.One, "one", "1", false, "Make sure exactly one server matches with the query")
	flags.StringArrayVarP(&opts.Attrs, "attr", "a", nil, `Attributes to fetch (default: "hostname")`+multiNote)
	flags.StringArrayVarP(&opts.Order, "order", "o", nil, "Attributes to order by the result"+multiNote)
	flags.StringArrayVarP(&opts.Resets, "reset", "r", nil, "Attributes to reset"+multiNote)
	flags.VarP(&updatesValue{updates: &opts.Updates}, "update", "u", "Attributes with values to update"+multiNote)
	flags.BoolVarP(&opts.JSON, "json", "j", false, "Output results in JSON format")
	return cmd
}

// Execute runs the command with the process arguments.
func Execute(version string) error {
	cmd := NewCommand()
	cmd.Version = version
	cmd.SetArgs(os.Args[1:])
	return cmd.Execute()
}
