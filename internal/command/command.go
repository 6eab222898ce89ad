// Package command implements the typed command layer: each supported
// operation is one struct, constructed by validating an inbound RESP
// array and executed against the store to produce a reply frame.
// Parsing is the only fallible step; execution never fails on a
// well-formed command.
package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/emberdb/emberdb/internal/resp"
	"github.com/emberdb/emberdb/internal/store"
)

// Parse error taxonomy. Every parse failure wraps exactly one of
// these sentinels; the server renders them as protocol error replies.
var (
	// ErrUnknownCommand is returned when the leading argument does not
	// name a supported command.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrWrongArgCount is returned when the trailing argument count
	// does not satisfy the command's arity.
	ErrWrongArgCount = errors.New("wrong number of arguments")
	// ErrWrongArgType is returned when an argument expected to be a
	// bulk string is a different frame kind.
	ErrWrongArgType = errors.New("wrong argument type")
	// ErrInvalidText is returned when a bulk-string argument's payload
	// is not valid UTF-8.
	ErrInvalidText = errors.New("invalid utf-8 in argument")
)

// Command is one parsed, validated client request. Executing it
// against the store is infallible and produces the reply frame.
type Command interface {
	// Name returns the lower-case command name.
	Name() string
	// Execute runs the command against the store and shapes the reply.
	Execute(st *store.Store) resp.Frame
}

// Keyed is implemented by commands that address a single key. The
// engine uses it for key access tracking.
type Keyed interface {
	Key() string
}

// Parse converts a decoded request frame into exactly one Command.
// The request must be a non-empty array whose first element is a
// bulk string naming the command; matching is case-insensitive.
func Parse(req resp.Frame) (Command, error) {
	if req.Type != resp.TypeArray || req.Null || len(req.Array) == 0 {
		return nil, fmt.Errorf("%w: request must be a non-empty array", ErrWrongArgCount)
	}
	name := req.Array[0]
	if !name.IsBulk() {
		return nil, fmt.Errorf("%w: command name must be a bulk string", ErrWrongArgType)
	}

	switch strings.ToLower(name.Str) {
	case "echo":
		return parseEcho(req)
	case "get":
		return parseGet(req)
	case "set":
		return parseSet(req)
	case "hget":
		return parseHGet(req)
	case "hset":
		return parseHSet(req)
	case "hgetall":
		return parseHGetAll(req)
	case "hmget":
		return parseHMGet(req)
	case "sadd":
		return parseSAdd(req)
	case "smembers":
		return parseSMembers(req)
	case "sismember":
		return parseSIsMember(req)
	default:
		return nil, fmt.Errorf("%w '%s'", ErrUnknownCommand, name.Str)
	}
}
