package pic

import "sort"

// MemStore is a Store kept entirely in memory. Format readers that decode a
// whole file at once (and tests) use it.
type MemStore struct {
	name   string
	values map[string]interface{}
}

// NewMemStore returns a MemStore holding values. The map is used as is, not copied.
func NewMemStore(name string, values map[string]interface{}) *MemStore {
	if values == nil {
		values = make(map[string]interface{})
	}
	return &MemStore{name: name, values: values}
}

// Keys returns the keys of the store, sorted.
func (M *MemStore) Keys() []string {
	ret := make([]string, 0, len(M.values))
	for k := range M.values {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

// Get returns the value under key.
func (M *MemStore) Get(key string) (interface{}, error) {
	if M.values == nil {
		return nil, NewError(ErrClosed, M.name, "MemStore.Get", "%q", key)
	}
	v, ok := M.values[key]
	if !ok {
		return nil, NewError(ErrKeyNotFound, M.name, "MemStore.Get", "%q", key)
	}
	return v, nil
}

// Set stores v under key, replacing any previous value. It fails with
// ErrClosed after Close.
func (M *MemStore) Set(key string, v interface{}) error {
	if M.values == nil {
		return NewError(ErrClosed, M.name, "MemStore.Set", "%q", key)
	}
	M.values[key] = v
	return nil
}

// Len returns the number of keys in the store.
func (M *MemStore) Len() int { return len(M.values) }

// Close drops the stored values. The store can't be used afterwards.
func (M *MemStore) Close() error {
	M.values = nil
	return nil
}
