package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

func newResultsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "results",
		Short: "List recently completed rounds",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/results"
			if limit > 0 {
				path = fmt.Sprintf("%s?limit=%d", path, limit)
			}

			var result ResultsList
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of rounds (default: server default)")

	return cmd
}

func newRecordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "record <name>",
		Short: "Show a player's win/loss/draw record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result PlayerRecord

			if err := client.Get("/api/v1/players/"+url.PathEscape(args[0])+"/record", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
