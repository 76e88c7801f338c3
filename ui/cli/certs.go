// Copyright (c) 2026 Liblift Team
// Liblift - app bundle library extraction and curation
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/liblift/liblift/internal/db"
	"github.com/liblift/liblift/internal/i18n"
)

// newCertsCmd builds the command group for signing-certificate metadata.
func newCertsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "certs",
		Short: "Manage signing certificate metadata (add, list, rm)",
	}
	cmd.AddCommand(newCertsAddCmd())
	cmd.AddCommand(newCertsListCmd())
	cmd.AddCommand(newCertsRmCmd())
	applyDefaultFlags(cmd)
	return cmd
}

func newCertsAddCmd() *cobra.Command {
	var teamID string
	var expires string
	cmd := &cobra.Command{
		Use:   "add <common-name> <serial-number>",
		Short: "Store signing certificate metadata",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			commonName, serial := args[0], args[1]
			var expiresAt time.Time
			if expires != "" {
				t, err := time.Parse("2006-01-02", expires)
				if err != nil {
					return fmt.Errorf("invalid --expires date (want YYYY-MM-DD): %w", err)
				}
				expiresAt = t
			}
			if _, err := db.AddCertificate(commonName, teamID, serial, expiresAt); err != nil {
				return fmt.Errorf("failed to add certificate: %w", err)
			}
			fmt.Println(i18n.T("certs.added", commonName))
			return nil
		},
	}
	cmd.Flags().StringVar(&teamID, "team", "", "Team identifier")
	cmd.Flags().StringVar(&expires, "expires", "", "Expiry date (YYYY-MM-DD)")
	return cmd
}

func newCertsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored certificates",
		RunE: func(cmd *cobra.Command, args []string) error {
			certs, err := db.GetAllCertificates()
			if err != nil {
				return fmt.Errorf("failed to list certificates: %w", err)
			}
			if len(certs) == 0 {
				fmt.Println(i18n.T("certs.none_found"))
				return nil
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				i18n.T("certs.header_id"), i18n.T("certs.header_common_name"),
				i18n.T("certs.header_team"), i18n.T("certs.header_serial"),
				i18n.T("certs.header_expires"))
			for _, c := range certs {
				expiry := ""
				switch {
				case c.IsExpired():
					expiry = i18n.T("certs.expired")
				case !c.ExpiresAt.IsZero():
					expiry = c.ExpiresAt.Format("2006-01-02")
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", c.ID, c.CommonName, c.TeamID, c.SerialNumber, expiry)
			}
			return w.Flush()
		},
	}
}

func newCertsRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove stored certificate metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid certificate id %q", args[0])
			}
			if err := db.DeleteCertificate(id); err != nil {
				return fmt.Errorf("failed to delete certificate: %w", err)
			}
			fmt.Println(i18n.T("certs.deleted", id))
			return nil
		},
	}
}
