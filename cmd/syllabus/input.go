package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type topicFile struct {
	Topics []string `json:"topics" yaml:"topics"`
}

// readTopics loads raw topic strings from path. The format follows the file
// extension; stdin and unknown extensions are sniffed from the content.
func readTopics(path string) ([]string, error) {
	r, err := openInput(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	topics, err := parseTopics(data, formatFor(path, data))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return topics, nil
}

func formatFor(path string, data []byte) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	case ".txt", ".md":
		return "lines"
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		return "json"
	}
	return "lines"
}

func parseTopics(data []byte, format string) ([]string, error) {
	switch format {
	case "json":
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) > 0 && trimmed[0] == '{' {
			var f topicFile
			if err := json.Unmarshal(trimmed, &f); err != nil {
				return nil, err
			}
			return f.Topics, nil
		}
		var topics []string
		if err := json.Unmarshal(trimmed, &topics); err != nil {
			return nil, err
		}
		return topics, nil

	case "yaml":
		var topics []string
		if err := yaml.Unmarshal(data, &topics); err == nil {
			return topics, nil
		}
		var f topicFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, err
		}
		return f.Topics, nil

	case "lines":
		var topics []string
		scanner := bufio.NewScanner(bytes.NewReader(data))
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				topics = append(topics, line)
			}
		}
		return topics, scanner.Err()

	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}
