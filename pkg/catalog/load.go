package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// File is the YAML layout of a catalog reference table.
type File struct {
	ARGs []ARG `yaml:"args"`
	MGEs []MGE `yaml:"mges"`
}

// LoadFile reads a catalog from a .yaml/.yml or .csv file.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, path)
}

// Read decodes a catalog from r, choosing the format from the extension of
// name. name may be a path or an object key.
func Read(r io.Reader, name string) (*Catalog, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return ReadYAML(r)
	case ".csv":
		return ReadCSV(r)
	default:
		return nil, fmt.Errorf("catalog %s: unsupported extension %q", name, filepath.Ext(name))
	}
}

// ReadYAML decodes a File document and builds a Catalog from it.
func ReadYAML(r io.Reader) (*Catalog, error) {
	var file File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode catalog yaml: %w", err)
	}
	return New(file.ARGs, file.MGEs)
}

// ReadCSV reads a flat reference table. Required columns: kind, id, name.
// Optional columns: class, group, label, snp. Column order is free.
func ReadCSV(r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read catalog header: %w", err)
	}
	colIndex := make(map[string]int, len(header))
	for i, col := range header {
		if i == 0 {
			col = strings.TrimPrefix(col, "\ufeff")
		}
		colIndex[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, required := range []string{"kind", "id", "name"} {
		if _, ok := colIndex[required]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrInvalidEntry, required)
		}
	}

	var (
		args []ARG
		mges []MGE
		line = 1
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read catalog line %d: %w", line, err)
		}

		kind, err := ParseKind(getField(record, colIndex, "kind"))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		id, err := strconv.Atoi(getField(record, colIndex, "id"))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w: id %q", line, ErrInvalidEntry, getField(record, colIndex, "id"))
		}
		name := getField(record, colIndex, "name")

		switch kind {
		case KindARG:
			args = append(args, ARG{
				ID:                      id,
				Name:                    name,
				Class:                   getField(record, colIndex, "class"),
				Group:                   getField(record, colIndex, "group"),
				RequiresSNPConfirmation: parseFlag(getField(record, colIndex, "snp")),
			})
		case KindMGE:
			mges = append(mges, MGE{
				ID:    id,
				Name:  name,
				Label: getField(record, colIndex, "label"),
				Group: getField(record, colIndex, "group"),
			})
		}
	}

	return New(args, mges)
}

func getField(record []string, colIndex map[string]int, name string) string {
	i, ok := colIndex[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func parseFlag(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}
