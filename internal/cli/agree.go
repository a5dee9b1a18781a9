package cli

import (
	"encoding/hex"

	"github.com/spf13/cobra"

	"github.com/TheusHen/curvepool/curvepool/keys"
)

func newAgreeCmd(a *app) *cobra.Command {
	var privHex, pubHex string
	cmd := &cobra.Command{
		Use:   "agree",
		Short: "Compute an X25519 shared secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			priv, err := decodeHex("priv", privHex)
			if err != nil {
				return err
			}
			pub, err := decodeHex("pub", pubHex)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			e, err := a.engine(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			secret, err := keys.SharedSecret(ctx, e, pub, priv)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), a.flags.Output, field{"shared", hex.EncodeToString(secret)})
		},
	}
	cmd.Flags().StringVar(&privHex, "priv", "", "our 32-byte private key (hex)")
	cmd.Flags().StringVar(&pubHex, "pub", "", "their 32-byte public key (hex)")
	_ = cmd.MarkFlagRequired("priv")
	_ = cmd.MarkFlagRequired("pub")
	return cmd
}
