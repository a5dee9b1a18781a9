package cli

import (
	"encoding/hex"

	"github.com/spf13/cobra"

	"github.com/TheusHen/curvepool/curvepool/errors"
	"github.com/TheusHen/curvepool/curvepool/keys"
)

func newSignCmd(a *app) *cobra.Command {
	var privHex, msg, msgHex string
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign a message with XEdDSA",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			priv, err := decodeHex("priv", privHex)
			if err != nil {
				return err
			}
			m, err := message(msg, msgHex)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			e, err := a.engine(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			sig, err := keys.Sign(ctx, e, priv, m)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), a.flags.Output, field{"signature", hex.EncodeToString(sig)})
		},
	}
	cmd.Flags().StringVar(&privHex, "priv", "", "32-byte private key (hex)")
	cmd.Flags().StringVar(&msg, "msg", "", "message")
	cmd.Flags().StringVar(&msgHex, "msg-hex", "", "message as hex")
	cmd.MarkFlagsMutuallyExclusive("msg", "msg-hex")
	_ = cmd.MarkFlagRequired("priv")
	return cmd
}

func newVerifyCmd(a *app) *cobra.Command {
	var pubHex, sigHex, msg, msgHex string
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify an XEdDSA signature",
		Long:  "Verify an XEdDSA signature. Exits non-zero when the signature does not verify.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pub, err := decodeHex("pub", pubHex)
			if err != nil {
				return err
			}
			sig, err := decodeHex("sig", sigHex)
			if err != nil {
				return err
			}
			m, err := message(msg, msgHex)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			e, err := a.engine(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			ok, err := keys.Verify(ctx, e, pub, m, sig)
			if err != nil {
				return err
			}
			if err := render(cmd.OutOrStdout(), a.flags.Output, field{"valid", ok}); err != nil {
				return err
			}
			if !ok {
				return errors.ErrSignatureInvalid
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&pubHex, "pub", "", "32-byte public key (hex)")
	cmd.Flags().StringVar(&sigHex, "sig", "", "64-byte signature (hex)")
	cmd.Flags().StringVar(&msg, "msg", "", "message")
	cmd.Flags().StringVar(&msgHex, "msg-hex", "", "message as hex")
	cmd.MarkFlagsMutuallyExclusive("msg", "msg-hex")
	_ = cmd.MarkFlagRequired("pub")
	_ = cmd.MarkFlagRequired("sig")
	return cmd
}
