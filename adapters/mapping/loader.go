package mapping

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/unnatikoppikar/SchoolReportGenerator/domain/record"
	"github.com/unnatikoppikar/SchoolReportGenerator/internal/errors"
)

// Loader reads field mappings from flat JSON files on disk. The file is a
// single object of placeholder key → column address, e.g.
//
//	{"name": "B", "score": "C"}
//
// Key order in the file is preserved in the returned mapping.
type Loader struct{}

// NewLoader creates a mapping loader
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads and parses the mapping file. Any missing, unreadable or
// structurally wrong file is a MAPPING_LOAD_ERROR; the run must not start.
func (l *Loader) Load(path string) (record.FieldMapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return record.FieldMapping{}, errors.MappingLoad(fmt.Sprintf("cannot read mapping file %s", path), err)
	}

	entries, err := parseFlatObject(data)
	if err != nil {
		return record.FieldMapping{}, errors.MappingLoad(fmt.Sprintf("mapping file %s is not a flat key/string object", path), err)
	}

	return record.NewFieldMapping(entries), nil
}

// parseFlatObject walks the JSON token stream instead of unmarshalling into a
// map, because Go maps do not keep key order.
func parseFlatObject(data []byte) ([]record.MappingEntry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected top-level object, got %v", tok)
	}

	var entries []record.MappingEntry
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected string key, got %v", keyTok)
		}

		valTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		value, ok := valTok.(string)
		if !ok {
			return nil, fmt.Errorf("value for %q is not a string", key)
		}

		entries = append(entries, record.MappingEntry{Key: key, Address: value})
	}

	// closing brace
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return entries, nil
}
