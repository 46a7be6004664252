package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var errNoURLs = errors.New("no URLs given: use --url or --urls-file")

// readURLs collects URLs from the repeated --url flag and, when path is
// set, from a file with one URL per line ("-" reads stdin). Blank lines and
// lines starting with # are skipped.
func readURLs(stdin io.Reader, path string, flagURLs []string) ([]string, error) {
	var urls []string
	for _, u := range flagURLs {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}

	if path != "" {
		r := stdin
		if path != "-" {
			f, err := os.Open(path)
			if err != nil {
				return nil, fmt.Errorf("open urls file: %w", err)
			}
			defer func() { _ = f.Close() }()
			r = f
		}

		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			urls = append(urls, line)
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read urls file: %w", err)
		}
	}

	if len(urls) == 0 {
		return nil, errNoURLs
	}
	return urls, nil
}
