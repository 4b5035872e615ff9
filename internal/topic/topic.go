// Package topic loads and picks speech topic prompts.
package topic

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadTopics reads one prompt per line. Blank lines and lines starting with
// '#' are skipped.
func LoadTopics(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only topic list.
			_ = cerr
		}
	}()

	var topics []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		topics = append(topics, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(topics) == 0 {
		return nil, fmt.Errorf("topic list %q is empty", path)
	}
	return topics, nil
}
