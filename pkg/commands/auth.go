package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/dailyreport/pkg/commands/options"
	"tableflip.dev/dailyreport/pkg/runner/auth"
)

func addUnlock(topLevel *cobra.Command) {
	po := &options.PasswordOptions{}

	cmd := &cobra.Command{
		Use:   "unlock",
		Short: "unlock the reports for this login session",
		Example: `
dailyreport unlock
echo "$PASSWORD" | dailyreport unlock --password-stdin
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWorkspace()
			if err != nil {
				return err
			}
			u := auth.Unlock{
				Gate:    w.gate,
				Session: w.session,
				Password: func() (string, error) {
					return po.Read("Password: ")
				},
			}
			return u.Do(cmd.Context())
		},
	}
	options.AddPasswordArgs(cmd, po)

	topLevel.AddCommand(cmd)
}

func addLock(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "lock",
		Short: "forget the unlock for this login session",
		Example: `
dailyreport lock
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWorkspace()
			if err != nil {
				return err
			}
			l := auth.Lock{Session: w.session}
			return l.Do(cmd.Context())
		},
	}

	topLevel.AddCommand(cmd)
}

func addHash(topLevel *cobra.Command) {
	po := &options.PasswordOptions{}
	argon := false

	cmd := &cobra.Command{
		Use:   "hash",
		Short: "print a reference digest for the digest config key",
		Long: options.Wrap80(`Reads a password and prints its SHA-256 digest. Put the output in the ` +
			`digest key of .dailyreport.yaml (or DAILYREPORT_DIGEST) to change the password. ` +
			`With --argon2 an argon2id reference is printed instead.`),
		Example: `
dailyreport hash
dailyreport hash --argon2
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h := auth.Hash{
				Argon2: argon,
				Password: func() (string, error) {
					return po.Read("Password to hash: ")
				},
			}
			return h.Do(cmd.Context())
		},
	}
	options.AddPasswordArgs(cmd, po)
	cmd.Flags().BoolVar(&argon, "argon2", false, "Print an argon2id reference instead of a SHA-256 digest.")

	topLevel.AddCommand(cmd)
}
