package cmd

import (
	"fmt"

	"github.com/klemjul/dobbychat/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func personasCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "personas",
		Short: "List the personas the relay answers as.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			personas, err := loadPersonas(viper.GetString(config.ENV_PERSONAS_FILE))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, id := range personas.IDs() {
				p := personas.Lookup(id)
				live := ""
				if p.ContextAware {
					live = " (live data)"
				}
				fmt.Fprintf(out, "%s\t%s%s\n", p.ID, p.Name, live)
			}
			return nil
		},
	}
}
