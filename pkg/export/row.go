package export

// Row - one flattened endpoint record. Keys keep the position of their first Set,
// setting an existing key replaces only its value.
type Row struct {
	keys   []string
	values map[string]interface{}
}

// NewRow -
func NewRow() *Row {
	return &Row{
		values: map[string]interface{}{},
	}
}

// Set - value is a string, int64, float64, bool or nil for a blank cell
func (r *Row) Set(key string, value interface{}) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get -
func (r *Row) Get(key string) (interface{}, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Keys - the keys in first set order
func (r *Row) Keys() []string {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

// Len -
func (r *Row) Len() int {
	return len(r.keys)
}
