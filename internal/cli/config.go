package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/TheusHen/curvepool/curvepool/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Display the effective configuration",
		Long: `Display the effective configuration after defaults, the config file,
CURVEPOOL_* environment variables and flags have been applied.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			if a.flags.Output == OutputJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(a.cfg)
			}
			out, err := config.Marshal(a.cfg)
			if err != nil {
				return err
			}
			_, err = w.Write(out)
			return err
		},
	})
	return cmd
}
