package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberdb/emberdb/internal/resp"
	"github.com/emberdb/emberdb/internal/store"
)

func TestEcho_Parse(t *testing.T) {
	cmd, err := Parse(req("echo", "hello"))
	require.NoError(t, err)

	echo, ok := cmd.(*Echo)
	require.True(t, ok)
	assert.Equal(t, "hello", echo.Value)
}

func TestEcho_Execute(t *testing.T) {
	st := store.New(0)
	cmd := &Echo{Value: "hello"}

	reply := cmd.Execute(st)
	assert.Equal(t, resp.BulkString("hello"), reply)
}
