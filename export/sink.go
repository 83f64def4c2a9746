// SPDX-License-Identifier: EPL-2.0

package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DirSink writes artifacts into a directory, creating it when missing.
// Existing files with the same name are replaced.
type DirSink struct {
	Dir string
}

// Path returns where a is written.
func (d DirSink) Path(a *Artifact) string {
	return filepath.Join(d.Dir, filepath.Base(a.Filename))
}

func (d DirSink) Deliver(ctx context.Context, a *Artifact) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", d.Dir, err)
	}

	path := d.Path(a)
	if err := os.WriteFile(path, a.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
