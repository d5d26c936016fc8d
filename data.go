package goSession

// Data is the mutable content of one session. Values must be serializable by
// the Store's codec. An empty Data is never persisted.
type Data map[string]any

// Clone returns a shallow copy. A nil receiver yields an empty, non-nil map.
func (d Data) Clone() Data {
	out := make(Data, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Empty reports whether there is nothing worth persisting.
func (d Data) Empty() bool {
	return len(d) == 0
}
