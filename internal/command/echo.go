package command

import (
	"github.com/emberdb/emberdb/internal/resp"
	"github.com/emberdb/emberdb/internal/store"
)

// Echo replies with its own argument without touching the store.
type Echo struct {
	Value string
}

func parseEcho(req resp.Frame) (Command, error) {
	if err := validate(req, "echo", 1, true); err != nil {
		return nil, err
	}
	args, err := extractArgs(req, 1)
	if err != nil {
		return nil, err
	}
	value, err := argText(args[0], "value")
	if err != nil {
		return nil, err
	}
	return &Echo{Value: value}, nil
}

// Name implements Command.
func (c *Echo) Name() string { return "echo" }

// Execute implements Command.
func (c *Echo) Execute(_ *store.Store) resp.Frame {
	return resp.BulkString(c.Value)
}
