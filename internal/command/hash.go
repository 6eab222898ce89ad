package command

import (
	"github.com/emberdb/emberdb/internal/resp"
	"github.com/emberdb/emberdb/internal/store"
)

// HGet reads a single field of a hash.
type HGet struct {
	key   string
	field string
}

// HSet upserts a single field of a hash, creating the hash on first
// write.
type HSet struct {
	key   string
	field string
	value resp.Frame
}

// HGetAll reads a snapshot of a whole hash.
type HGetAll struct {
	key string
}

// HMGet reads several fields of a hash; the reply preserves field
// order and has one entry per requested field.
type HMGet struct {
	key    string
	fields []string
}

func parseHGet(req resp.Frame) (Command, error) {
	if err := validate(req, "hget", 2, true); err != nil {
		return nil, err
	}
	args, err := extractArgs(req, 1)
	if err != nil {
		return nil, err
	}
	key, err := argText(args[0], "key")
	if err != nil {
		return nil, err
	}
	field, err := argText(args[1], "field")
	if err != nil {
		return nil, err
	}
	return &HGet{key: key, field: field}, nil
}

func parseHSet(req resp.Frame) (Command, error) {
	if err := validate(req, "hset", 3, true); err != nil {
		return nil, err
	}
	args, err := extractArgs(req, 1)
	if err != nil {
		return nil, err
	}
	key, err := argText(args[0], "key")
	if err != nil {
		return nil, err
	}
	field, err := argText(args[1], "field")
	if err != nil {
		return nil, err
	}
	return &HSet{key: key, field: field, value: args[2]}, nil
}

func parseHGetAll(req resp.Frame) (Command, error) {
	if err := validate(req, "hgetall", 1, true); err != nil {
		return nil, err
	}
	args, err := extractArgs(req, 1)
	if err != nil {
		return nil, err
	}
	key, err := argText(args[0], "key")
	if err != nil {
		return nil, err
	}
	return &HGetAll{key: key}, nil
}

func parseHMGet(req resp.Frame) (Command, error) {
	if err := validate(req, "hmget", 2, false); err != nil {
		return nil, err
	}
	args, err := extractArgs(req, 1)
	if err != nil {
		return nil, err
	}
	key, err := argText(args[0], "key")
	if err != nil {
		return nil, err
	}
	fields := make([]string, 0, len(args)-1)
	for _, arg := range args[1:] {
		field, err := argText(arg, "field")
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	return &HMGet{key: key, fields: fields}, nil
}

// Name implements Command.
func (c *HGet) Name() string { return "hget" }

// Key implements Keyed.
func (c *HGet) Key() string { return c.key }

// Field returns the addressed field name.
func (c *HGet) Field() string { return c.field }

// Execute implements Command.
func (c *HGet) Execute(st *store.Store) resp.Frame {
	value, ok := st.HGet(c.key, c.field)
	if !ok {
		return resp.NullBulk()
	}
	return value
}

// Name implements Command.
func (c *HSet) Name() string { return "hset" }

// Key implements Keyed.
func (c *HSet) Key() string { return c.key }

// Field returns the addressed field name.
func (c *HSet) Field() string { return c.field }

// Value returns the frame this command stores.
func (c *HSet) Value() resp.Frame { return c.value }

// Execute implements Command.
func (c *HSet) Execute(st *store.Store) resp.Frame {
	st.HSet(c.key, c.field, c.value)
	return resp.SimpleString("OK")
}

// Name implements Command.
func (c *HGetAll) Name() string { return "hgetall" }

// Key implements Keyed.
func (c *HGetAll) Key() string { return c.key }

// Execute implements Command.
// The reply is an array of alternating field/value entries. An absent
// key and an empty hash both render as an empty array; the distinction
// is lost at the wire boundary.
func (c *HGetAll) Execute(st *store.Store) resp.Frame {
	snapshot, ok := st.HGetAll(c.key)
	if !ok {
		return resp.NewArray()
	}
	items := make([]resp.Frame, 0, len(snapshot)*2)
	for field, value := range snapshot {
		items = append(items, resp.BulkString(field), value)
	}
	return resp.NewArray(items...)
}

// Name implements Command.
func (c *HMGet) Name() string { return "hmget" }

// Key implements Keyed.
func (c *HMGet) Key() string { return c.key }

// Fields returns the requested field names in request order.
func (c *HMGet) Fields() []string { return c.fields }

// Execute implements Command.
func (c *HMGet) Execute(st *store.Store) resp.Frame {
	values := st.HMGet(c.key, c.fields)
	items := make([]resp.Frame, len(values))
	for i, v := range values {
		if v.Present {
			items[i] = v.Frame
		} else {
			items[i] = resp.NullBulk()
		}
	}
	return resp.NewArray(items...)
}
