package command

import (
	"sort"

	"github.com/emberdb/emberdb/internal/resp"
	"github.com/emberdb/emberdb/internal/store"
)

// SAdd inserts members into a set, creating the set on first write.
type SAdd struct {
	key     string
	members []string
}

// SMembers reads a snapshot of a whole set. When Sort is set, members
// are encoded in ascending lexicographic order.
type SMembers struct {
	key  string
	Sort bool
}

// SIsMember tests a single member for set membership.
type SIsMember struct {
	key    string
	member string
}

func parseSAdd(req resp.Frame) (Command, error) {
	if err := validate(req, "sadd", 2, false); err != nil {
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
	members := make([]string, 0, len(args)-1)
	for _, arg := range args[1:] {
		member, err := argText(arg, "member")
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return &SAdd{key: key, members: members}, nil
}

func parseSMembers(req resp.Frame) (Command, error) {
	if err := validate(req, "smembers", 1, true); err != nil {
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
	return &SMembers{key: key}, nil
}

func parseSIsMember(req resp.Frame) (Command, error) {
	if err := validate(req, "sismember", 2, true); err != nil {
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
	member, err := argText(args[1], "member")
	if err != nil {
		return nil, err
	}
	return &SIsMember{key: key, member: member}, nil
}

// Name implements Command.
func (c *SAdd) Name() string { return "sadd" }

// Key implements Keyed.
func (c *SAdd) Key() string { return c.key }

// Members returns the members to insert, in request order.
func (c *SAdd) Members() []string { return c.members }

// Execute implements Command.
func (c *SAdd) Execute(st *store.Store) resp.Frame {
	added := st.SAdd(c.key, c.members...)
	return resp.Integer(int64(added))
}

// Name implements Command.
func (c *SMembers) Name() string { return "smembers" }

// Key implements Keyed.
func (c *SMembers) Key() string { return c.key }

// Execute implements Command.
// An absent key and an empty set both render as an empty array.
func (c *SMembers) Execute(st *store.Store) resp.Frame {
	members, ok := st.SMembers(c.key)
	if !ok {
		return resp.NewArray()
	}
	if c.Sort {
		sort.Strings(members)
	}
	items := make([]resp.Frame, len(members))
	for i, m := range members {
		items[i] = resp.BulkString(m)
	}
	return resp.NewArray(items...)
}

// Name implements Command.
func (c *SIsMember) Name() string { return "sismember" }

// Key implements Keyed.
func (c *SIsMember) Key() string { return c.key }

// Member returns the tested member.
func (c *SIsMember) Member() string { return c.member }

// Execute implements Command.
func (c *SIsMember) Execute(st *store.Store) resp.Frame {
	if st.SIsMember(c.key, c.member) {
		return resp.Integer(1)
	}
	return resp.Integer(0)
}
