package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// queryColumns are the accepted header names for the query column of
// a bulk CSV file, in priority order.
var queryColumns = []string{"query", "search", "title"}

// ReadQueries loads a bulk query list, dispatching on file extension.
// Supported formats: .csv, .json, .yaml/.yml.
func ReadQueries(path string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadQueriesCSV(path)
	case ".json":
		return ReadQueriesJSON(path)
	case ".yaml", ".yml":
		return ReadQueriesYAML(path)
	}
	return nil, fmt.Errorf("unsupported bulk file format: %s", filepath.Ext(path))
}

// ReadQueriesCSV reads queries from the first column named query,
// search or title. Empty cells are skipped.
func ReadQueriesCSV(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open bulk CSV: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	column := -1
	for _, name := range queryColumns {
		for i, cell := range header {
			if strings.EqualFold(strings.TrimSpace(cell), name) {
				column = i
				break
			}
		}
		if column >= 0 {
			break
		}
	}
	if column < 0 {
		return nil, fmt.Errorf("bulk CSV has no query, search or title column")
	}

	var queries []string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			slog.Warn("Skipping malformed CSV record", "error", err)
			continue
		}
		if column >= len(record) {
			continue
		}
		if query := strings.TrimSpace(record[column]); query != "" {
			queries = append(queries, query)
		}
	}

	return queries, nil
}

// jsonBulk covers the accepted JSON shapes: a plain string list, an
// object with a queries key, or a list of per-row objects.
type jsonBulk struct {
	Queries []string `json:"queries"`
}

type jsonBulkRow struct {
	Query  string `json:"query"`
	Search string `json:"search"`
	Title  string `json:"title"`
}

func (r jsonBulkRow) value() string {
	for _, v := range []string{r.Query, r.Search, r.Title} {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// ReadQueriesJSON reads queries from a JSON file. Accepted shapes:
// ["q", ...], {"queries": ["q", ...]}, or [{"query": "q"}, ...] with
// search/title as alternative keys.
func ReadQueriesJSON(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bulk JSON: %w", err)
	}

	var plain []string
	if err := json.Unmarshal(data, &plain); err == nil {
		return trimNonEmpty(plain), nil
	}

	var wrapped jsonBulk
	if err := json.Unmarshal(data, &wrapped); err == nil && len(wrapped.Queries) > 0 {
		return trimNonEmpty(wrapped.Queries), nil
	}

	var rows []jsonBulkRow
	if err := json.Unmarshal(data, &rows); err == nil {
		var queries []string
		for _, row := range rows {
			if v := row.value(); v != "" {
				queries = append(queries, v)
			}
		}
		return queries, nil
	}

	return nil, fmt.Errorf("unrecognized bulk JSON shape in %s", path)
}

// yamlBulk mirrors jsonBulk for YAML files.
type yamlBulk struct {
	Queries []string `yaml:"queries"`
}

// ReadQueriesYAML reads queries from a YAML file, either a plain
// string list or a document with a queries key.
func ReadQueriesYAML(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bulk YAML: %w", err)
	}

	var plain []string
	if err := yaml.Unmarshal(data, &plain); err == nil && len(plain) > 0 {
		return trimNonEmpty(plain), nil
	}

	var wrapped yamlBulk
	if err := yaml.Unmarshal(data, &wrapped); err == nil && len(wrapped.Queries) > 0 {
		return trimNonEmpty(wrapped.Queries), nil
	}

	return nil, fmt.Errorf("unrecognized bulk YAML shape in %s", path)
}

func trimNonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
