/*
Copyright © 2026 the confined shelf authors.
This file is part of shelf.

shelf is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

shelf is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with shelf.  If not, see <http://www.gnu.org/licenses/>.
*/

package shelfutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Relocate moves the files in workDir that match any of patterns into
// scratchDir, creating it if necessary, and returns the new paths.
// A relative scratchDir is taken relative to workDir. Files listed in
// keep are never moved. An empty workDir means the current directory.
func Relocate(workDir, scratchDir string, patterns, keep []string, log logrus.FieldLogger) ([]string, error) {
	if workDir == "" {
		workDir = "."
	}
	if !filepath.IsAbs(scratchDir) {
		scratchDir = filepath.Join(workDir, scratchDir)
	}
	kept := make(map[string]bool)
	for _, k := range keep {
		if k == "" {
			continue
		}
		if a, err := filepath.Abs(k); err == nil {
			kept[a] = true
		}
	}

	var moved []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(workDir, pattern))
		if err != nil {
			return moved, fmt.Errorf("shelfutil: invalid file pattern %q: %v", pattern, err)
		}
		for _, m := range matches {
			a, err := filepath.Abs(m)
			if err != nil || kept[a] {
				continue
			}
			fi, err := os.Stat(m)
			if err != nil || fi.IsDir() {
				continue
			}
			if err := os.MkdirAll(scratchDir, 0755); err != nil {
				return moved, fmt.Errorf("shelfutil: creating scratch directory: %v", err)
			}
			dst := filepath.Join(scratchDir, filepath.Base(m))
			if err := os.Rename(m, dst); err != nil {
				return moved, fmt.Errorf("shelfutil: moving %s to scratch directory: %v", m, err)
			}
			log.WithFields(logrus.Fields{"from": m, "to": dst}).Debug("moved file")
			moved = append(moved, dst)
		}
	}
	return moved, nil
}
