package query

import (
	"bytes"
	"encoding/json"
	"slices"
)

// Reserved order keys sorting by the value of meta_key.
const (
	OrderMetaValue    = "meta_value"
	OrderMetaValueNum = "meta_value_num"
)

// OrderBy is an insertion-ordered mapping from order key to direction.
// It marshals to a JSON object with keys in insertion order.
type OrderBy struct {
	keys []string
	dirs map[string]Direction
}

// Set adds key at the end, or updates its direction in place.
func (o *OrderBy) Set(key string, dir Direction) {
	if o.dirs == nil {
		o.dirs = make(map[string]Direction)
	}
	if _, ok := o.dirs[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.dirs[key] = dir
}

// Delete removes key, keeping the order of the rest.
func (o *OrderBy) Delete(key string) {
	if _, ok := o.dirs[key]; !ok {
		return
	}
	delete(o.dirs, key)
	o.keys = slices.DeleteFunc(o.keys, func(k string) bool { return k == key })
}

// Get returns the direction for key.
func (o OrderBy) Get(key string) (Direction, bool) {
	d, ok := o.dirs[key]
	return d, ok
}

// Keys returns the keys in insertion order.
func (o OrderBy) Keys() []string { return slices.Clone(o.keys) }

// Len returns the number of keys.
func (o OrderBy) Len() int { return len(o.keys) }

func (o OrderBy) clone() OrderBy {
	c := OrderBy{keys: slices.Clone(o.keys), dirs: make(map[string]Direction, len(o.dirs))}
	for k, v := range o.dirs {
		c.dirs[k] = v
	}
	return c
}

// MarshalJSON implements json.Marshaler.
func (o OrderBy) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(string(o.dirs[k]))
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
