package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/domclone/pkg/errors"
)

// verifyCommand creates the verify command.
func (c *CLI) verifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <source> <copy>",
		Short: "Check that a document is a faithful clone of another",
		Long: `Verify that <copy> is a clone of <source>: no referent is shared, the
top-level subtrees match up to order, every Ref is cleared, every UniqueId
is absent or regenerated and all other properties are unchanged.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog := newProgress(loggerFromContext(cmd.Context()))
			err := verifyFiles(args[0], args[1])
			if errors.Is(err, errors.ErrCodeVerification) {
				printError("%s is not a faithful clone of %s", args[1], args[0])
				return err
			}
			if err != nil {
				return err
			}
			prog.done("Verified")
			printSuccess("%s is a faithful clone of %s", args[1], args[0])
			return nil
		},
	}
}
