package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "List stored identities",
		RunE: func(cmd *cobra.Command, args []string) error {
			addrs, err := wire.Identity.List()
			if err != nil {
				return err
			}
			if len(addrs) == 0 {
				fmt.Println("no identity stored. run init first")
				return nil
			}
			for _, addr := range addrs {
				fmt.Println(addr)
				if seen, ok, err := wire.Exchange.LastSeen(addr); err == nil && ok {
					fmt.Printf("  mail read up to %s\n", time.UnixMilli(seen).Format(time.RFC3339))
				}
			}
			return nil
		},
	}
}
