package ingest

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// Regex for valid subreddit names
var subNameRegex = regexp.MustCompile(`^[A-Za-z0-9_]{3,21}$`)

// LoadSubreddits reads a one-column CSV of subreddit names with a header row.
// A leading "r/" is accepted; invalid names and duplicates are skipped.
func LoadSubreddits(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadSubreddits(f)
}

func ReadSubreddits(in io.Reader) ([]string, error) {
	r := csv.NewReader(stripBOM(in))
	r.FieldsPerRecord = -1
	r.Comment = '#'

	var subs []string
	seen := make(map[string]bool)
	line := 0
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read subreddits: %w", err)
		}
		line++
		if line == 1 {
			continue // Skip header
		}
		if len(record) == 0 {
			continue
		}

		// Validation (Fail-Soft)
		sub := strings.TrimSpace(record[0])
		sub = strings.TrimPrefix(strings.TrimPrefix(sub, "/"), "r/")
		if !subNameRegex.MatchString(sub) {
			continue
		}
		key := strings.ToLower(sub)
		if seen[key] {
			continue
		}
		seen[key] = true
		subs = append(subs, sub)
	}
	return subs, nil
}

func stripBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	rdr, _, err := br.ReadRune()
	if err != nil {
		return br
	}
	if rdr != '\uFEFF' {
		br.UnreadRune()
	}
	return br
}
