package command

import (
	"github.com/emberdb/emberdb/internal/resp"
	"github.com/emberdb/emberdb/internal/store"
)

// Get reads a scalar key.
type Get struct {
	key string
}

// Set upserts a scalar key. The value may be any frame kind; the store
// never interprets it.
type Set struct {
	key   string
	value resp.Frame
}

func parseGet(req resp.Frame) (Command, error) {
	if err := validate(req, "get", 1, true); err != nil {
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
	return &Get{key: key}, nil
}

func parseSet(req resp.Frame) (Command, error) {
	if err := validate(req, "set", 2, true); err != nil {
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
	return &Set{key: key, value: args[1]}, nil
}

// Name implements Command.
func (c *Get) Name() string { return "get" }

// Key implements Keyed.
func (c *Get) Key() string { return c.key }

// Execute implements Command.
func (c *Get) Execute(st *store.Store) resp.Frame {
	value, ok := st.Get(c.key)
	if !ok {
		return resp.NullBulk()
	}
	return value
}

// Name implements Command.
func (c *Set) Name() string { return "set" }

// Key implements Keyed.
func (c *Set) Key() string { return c.key }

// Value returns the frame this command stores.
func (c *Set) Value() resp.Frame { return c.value }

// Execute implements Command.
func (c *Set) Execute(st *store.Store) resp.Frame {
	st.Set(c.key, c.value)
	return resp.SimpleString("OK")
}
