package main

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantrypal/pantrypal/pkg/database"
	"github.com/pantrypal/pantrypal/pkg/migration"
)

func TestPrintRoutes(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printRoutes(&out, nil))

	s := out.String()
	assert.Contains(t, s, "METHOD")
	assert.Regexp(t, `POST\s+/login\s+auth.login`, s)
	assert.Regexp(t, `DELETE\s+/users/\{id\}\s+users.destroy`, s)
	assert.Regexp(t, `GET\s+/check_session\s+auth.check_session`, s)
}

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{"serve", "migrate", "migrate:rollback", "migrate:status", "seed", "route:list"} {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestWarnPending(t *testing.T) {
	db, err := database.Open("sqlite", "file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	assert.Nil(t, warnPending(db), "missing tracking table")

	runner := migration.New(db).WithOutput(io.Discard)
	require.NoError(t, runner.EnsureTable())
	assert.NotEmpty(t, warnPending(db))

	require.NoError(t, runner.Run())
	assert.Empty(t, warnPending(db))
}
