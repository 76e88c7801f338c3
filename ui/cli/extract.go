// Copyright (c) 2026 Liblift Team
// Liblift - app bundle library extraction and curation
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/liblift/liblift/internal/curate"
	"github.com/liblift/liblift/internal/db"
	"github.com/liblift/liblift/internal/extract"
	"github.com/liblift/liblift/internal/i18n"
	"github.com/liblift/liblift/internal/logging"
	"github.com/liblift/liblift/internal/reveal"
	"github.com/liblift/liblift/internal/tui"
)

// extractOptions collects the flag state for a single extract invocation.
type extractOptions struct {
	keepAll       bool
	keepNames     []string
	suffixes      []string
	writeManifest bool
	doReveal      bool
	doCopy        bool
}

// newExtractCmd builds the extract command: stage a bundle, classify its
// dynamic libraries, curate the keep set, and reconcile the scratch
// directory.
func newExtractCmd() *cobra.Command {
	var opts extractOptions
	cmd := &cobra.Command{
		Use:   "extract <bundle-id>",
		Short: "Extract and curate dynamic libraries from an application bundle",
		Long: `Stages the bundle's files into a scratch directory named after the
application, removes everything that is not a dynamic library, and asks
which libraries to keep. Without --all or --keep this opens an
interactive picker; in a non-interactive shell one of the two flags is
required.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, args[0], opts)
		},
	}
	cmd.Flags().BoolVar(&opts.keepAll, "all", false, "Keep every extracted library")
	cmd.Flags().StringSliceVar(&opts.keepNames, "keep", nil, "Library names to keep (comma-separated, repeatable)")
	cmd.Flags().StringSliceVar(&opts.suffixes, "suffix", nil, "Library suffixes to classify (overrides config)")
	cmd.Flags().BoolVar(&opts.writeManifest, "manifest", false, "Write a manifest.yaml beside the kept libraries")
	cmd.Flags().BoolVar(&opts.doReveal, "reveal", false, "Open the staging directory in the file manager afterwards")
	cmd.Flags().BoolVar(&opts.doCopy, "copy", false, "Copy the staging directory path to the clipboard")
	applyDefaultFlags(cmd)
	return cmd
}

func runExtract(cmd *cobra.Command, bundleID string, opts extractOptions) error {
	app, err := db.GetAppByBundleID(bundleID)
	if err != nil {
		return fmt.Errorf("failed to look up application: %w", err)
	}
	if app == nil {
		return appNotFoundError(bundleID)
	}

	suffixes := opts.suffixes
	if len(suffixes) == 0 {
		suffixes = appConfig.LibrarySuffixes
	}

	ex := extract.New(appConfig.ScratchRoot)
	folder := extract.SanitizeFolderName(app.DisplayName)
	scratchDir := ex.ScratchDir(folder)

	fmt.Println(i18n.T("extract.staging", app.DisplayName))
	artifacts, err := ex.Extract(cmd.Context(), app.BundlePath, folder)
	if err != nil {
		// A busy scratch directory belongs to another in-flight extraction
		// and must not be discarded from here. Every other failure leaves a
		// partial staging area plus a registry hold to clean up.
		if !errors.Is(err, extract.ErrScratchBusy) {
			curate.AbortExtraction(scratchDir)
		}
		return err
	}

	libraries, _ := extract.Classify(artifacts, suffixes)
	logging.Infof("%s", i18n.T("extract.extracted", len(artifacts), len(libraries)))

	if len(libraries) == 0 {
		curate.AbortExtraction(scratchDir)
		fmt.Println(i18n.T("extract.no_libraries", app.DisplayName))
		return nil
	}

	session, err := curate.NewSession(app.DisplayName, scratchDir, libraries)
	if err != nil {
		curate.AbortExtraction(scratchDir)
		return err
	}

	switch {
	case opts.keepAll:
		session.SelectAll()
	case len(opts.keepNames) > 0:
		if err := applyKeepNames(session, opts.keepNames); err != nil {
			curate.Abort(session)
			return err
		}
	default:
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			curate.Abort(session)
			return fmt.Errorf("%s", i18n.T("extract.nothing_kept"))
		}
		confirmed, err := tui.RunCurationPicker(session)
		if err != nil {
			curate.Abort(session)
			return err
		}
		if !confirmed {
			curate.Abort(session)
			if err := db.LogAction("ABORT", fmt.Sprintf("bundle: %s", bundleID)); err != nil {
				logging.Warnf("failed to write audit log entry: %v", err)
			}
			fmt.Println(i18n.T("extract.cancelled"))
			return nil
		}
	}

	if opts.writeManifest {
		if err := curate.WriteManifest(session, app.BundlePath); err != nil {
			logging.Warnf("failed to write manifest: %v", err)
		}
	}

	kept := session.KeptCount()
	dir, err := curate.Finalize(session)
	if err != nil {
		curate.Abort(session)
		return err
	}

	if err := db.LogAction("EXTRACT", fmt.Sprintf("bundle: %s, kept: %d/%d", bundleID, kept, len(libraries))); err != nil {
		logging.Warnf("failed to write audit log entry: %v", err)
	}

	fmt.Println(i18n.T("extract.kept", kept, len(libraries), dir))

	if opts.doReveal {
		if err := reveal.Open(dir); err != nil {
			logging.Warnf("failed to open file manager: %v", err)
		}
	}
	if opts.doCopy {
		if err := clipboard.WriteAll(dir); err != nil {
			logging.Warnf("failed to copy path to clipboard: %v", err)
		} else {
			fmt.Println(i18n.T("extract.copied"))
		}
	}

	return nil
}

// applyKeepNames marks the named libraries as kept. Names are matched
// case-insensitively against the staged (disambiguated) file names.
func applyKeepNames(session *curate.Session, names []string) error {
	byName := make(map[string]string)
	for _, lib := range session.Libraries() {
		byName[strings.ToLower(lib.Name)] = lib.ID
	}
	for _, name := range names {
		id, ok := byName[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return fmt.Errorf("%s", i18n.T("extract.keep_unknown", name))
		}
		if !session.IsKept(id) {
			session.Toggle(id)
		}
	}
	return nil
}
