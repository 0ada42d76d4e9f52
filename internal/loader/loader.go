// Package loader discovers time-log files and reads their lines.
package loader

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Dir lists the log files in a directory in name order. Subdirectories
// and editor backups ("~" suffix) are skipped. A non-empty glob pattern
// further restricts the file names (doublestar syntax, e.g. "*.log").
func Dir(path string, glob string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("could not read directory '%s': %w", path, err)
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasSuffix(name, "~") {
			continue
		}
		if glob != "" {
			ok, err := doublestar.Match(glob, name)
			if err != nil {
				return nil, fmt.Errorf("bad glob pattern '%s': %w", glob, err)
			}
			if !ok {
				continue
			}
		}
		files = append(files, filepath.Join(path, name))
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no log files found in '%s'", path)
	}
	return files, nil
}

// ReadLines returns the decoded lines of one log file.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not read file '%s': %w", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read file '%s': %w", path, err)
	}
	return lines, nil
}
