// Copyright (c) 2026 Liblift Team
// Liblift - app bundle library extraction and curation
// This source code is licensed under the MIT license found in the LICENSE file.

// Package reveal opens a directory in the platform file manager. It is a
// fire-and-forget convenience used after finalizing a staging directory.
package reveal

import (
	"fmt"
	"os/exec"
	"runtime"
)

// commandFunc allows tests to intercept command construction.
var commandFunc = exec.Command

// Open launches the platform file manager on dir. The viewer runs detached;
// Open returns once the process has started.
func Open(dir string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = commandFunc("open", dir)
	case "windows":
		cmd = commandFunc("explorer", dir)
	default:
		cmd = commandFunc("xdg-open", dir)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open %s: %w", dir, err)
	}
	// Reap the child when it exits so it does not linger as a zombie.
	go func() { _ = cmd.Wait() }()
	return nil
}
