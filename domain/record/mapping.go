package record

// MappingEntry pairs a template placeholder key with a spreadsheet column address
type MappingEntry struct {
	Key     string
	Address string
}

// FieldMapping is the ordered placeholder-key → column-address table loaded
// from the mapping file. Order is preserved for readability only; resolution
// never depends on it. Immutable once loaded.
type FieldMapping struct {
	entries []MappingEntry
	index   map[string]int
}

// NewFieldMapping builds a mapping from entries. Later duplicates of a key
// overwrite earlier ones, keeping the original position.
func NewFieldMapping(entries []MappingEntry) FieldMapping {
	m := FieldMapping{index: make(map[string]int, len(entries))}
	for _, e := range entries {
		if pos, ok := m.index[e.Key]; ok {
			m.entries[pos].Address = e.Address
			continue
		}
		m.index[e.Key] = len(m.entries)
		m.entries = append(m.entries, e)
	}
	return m
}

// Entries returns the mapping entries in insertion order
func (m FieldMapping) Entries() []MappingEntry {
	return m.entries
}

// Address returns the column address for a placeholder key
func (m FieldMapping) Address(key string) (string, bool) {
	pos, ok := m.index[key]
	if !ok {
		return "", false
	}
	return m.entries[pos].Address, true
}

// Len returns the number of placeholder keys
func (m FieldMapping) Len() int {
	return len(m.entries)
}

// FieldDict is the fully normalized per-record payload handed to the
// templating stage: placeholder key → display string, in mapping order with
// the injected class key last. Values are always normalized strings.
type FieldDict struct {
	keys   []string
	values map[string]string
}

// NewFieldDict creates an empty dict with capacity for n fields
func NewFieldDict(n int) *FieldDict {
	return &FieldDict{
		keys:   make([]string, 0, n),
		values: make(map[string]string, n),
	}
}

// Set stores a value under key, appending the key on first use
func (d *FieldDict) Set(key, value string) {
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = value
}

// Get returns the value stored under key
func (d *FieldDict) Get(key string) (string, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Keys returns the keys in insertion order
func (d *FieldDict) Keys() []string {
	return d.keys
}

// Len returns the number of keys
func (d *FieldDict) Len() int {
	return len(d.keys)
}

// Map returns a plain map copy for template execution
func (d *FieldDict) Map() map[string]string {
	out := make(map[string]string, len(d.values))
	for k, v := range d.values {
		out[k] = v
	}
	return out
}
