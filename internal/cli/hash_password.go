package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/services"
)

// NewHashPasswordCommand prints the bcrypt hash for auth.admin_password_hash.
// The password is read from the first line of stdin.
func NewHashPasswordCommand(_ *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password",
		Short: "Hash the operator password read from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			password := strings.TrimRight(line, "\r\n")
			if password == "" {
				if err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				return errors.New("empty password")
			}

			hash, err := services.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
