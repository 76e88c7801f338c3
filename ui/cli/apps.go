// Copyright (c) 2026 Liblift Team
// Liblift - app bundle library extraction and curation
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/liblift/liblift/internal/db"
	"github.com/liblift/liblift/internal/i18n"
)

// newAppsCmd builds the command group for application inventory management.
func newAppsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apps",
		Short: "Manage the application bundle inventory (add, list, rm)",
		Long: `The 'apps' command group maintains the inventory of application
bundles that 'liblift extract' can resolve by bundle identifier.`,
	}
	cmd.AddCommand(newAppsAddCmd())
	cmd.AddCommand(newAppsListCmd())
	cmd.AddCommand(newAppsRmCmd())
	applyDefaultFlags(cmd)
	return cmd
}

func newAppsAddCmd() *cobra.Command {
	var displayName string
	cmd := &cobra.Command{
		Use:   "add <bundle-id> <bundle-path>",
		Short: "Add an application bundle to the inventory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bundleID, bundlePath := args[0], args[1]
			abs, err := filepath.Abs(bundlePath)
			if err != nil {
				return fmt.Errorf("failed to resolve bundle path: %w", err)
			}
			if _, err := os.Stat(abs); err != nil {
				return fmt.Errorf("bundle path not accessible: %w", err)
			}
			if displayName == "" {
				displayName = stripBundleExt(filepath.Base(abs))
			}
			if _, err := db.AddApp(bundleID, displayName, abs); err != nil {
				return fmt.Errorf("failed to add application: %w", err)
			}
			fmt.Println(i18n.T("apps.added", bundleID))
			return nil
		},
	}
	cmd.Flags().StringVar(&displayName, "name", "", "Display name (defaults to the bundle directory name)")
	return cmd
}

func newAppsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all applications in the inventory",
		RunE: func(cmd *cobra.Command, args []string) error {
			apps, err := db.GetAllApps()
			if err != nil {
				return fmt.Errorf("failed to list applications: %w", err)
			}
			if len(apps) == 0 {
				fmt.Println(i18n.T("apps.none_found"))
				return nil
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				i18n.T("apps.header_id"), i18n.T("apps.header_bundle_id"),
				i18n.T("apps.header_name"), i18n.T("apps.header_path"))
			for _, a := range apps {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", a.ID, a.BundleID, a.DisplayName, a.BundlePath)
			}
			return w.Flush()
		},
	}
}

func newAppsRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id or bundle-id>",
		Short: "Remove an application from the inventory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveAppID(args[0])
			if err != nil {
				return err
			}
			if err := db.DeleteApp(id); err != nil {
				return fmt.Errorf("failed to delete application: %w", err)
			}
			fmt.Println(i18n.T("apps.deleted", id))
			return nil
		},
	}
}

// resolveAppID accepts either a numeric inventory ID or a bundle identifier.
func resolveAppID(identifier string) (int, error) {
	if id, err := strconv.Atoi(identifier); err == nil {
		return id, nil
	}
	app, err := db.GetAppByBundleID(identifier)
	if err != nil {
		return 0, fmt.Errorf("failed to look up application: %w", err)
	}
	if app == nil {
		return 0, appNotFoundError(identifier)
	}
	return app.ID, nil
}

func appNotFoundError(bundleID string) error {
	return fmt.Errorf("%s", i18n.T("apps.not_found", bundleID))
}

// stripBundleExt drops a trailing bundle extension (.app, .ipa, .zip) from a
// directory or archive name when deriving a display name.
func stripBundleExt(name string) string {
	switch filepath.Ext(name) {
	case ".app", ".ipa", ".zip":
		return name[:len(name)-len(filepath.Ext(name))]
	}
	return name
}
