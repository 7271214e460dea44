package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/existflow/ironfocus/internal/config"
	"github.com/existflow/ironfocus/internal/history"
	"github.com/existflow/ironfocus/internal/remote"
	"github.com/existflow/ironfocus/internal/store"
	"github.com/existflow/ironfocus/internal/testutil"
)

// keepOpen lets one test store outlive several command runs
type keepOpen struct {
	store.Store
}

func (keepOpen) Close() error { return nil }

func newCLIStore(t *testing.T) store.Store {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	st := testutil.NewTestDB(t)
	prev := storeOpener
	storeOpener = func(*config.Config) (store.Store, error) {
		return keepOpen{st}, nil
	}
	t.Cleanup(func() { storeOpener = prev })
	return st
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	listDone = false
	listLimit = store.CompletedLimit
	historyMonths = 6
	historyJSON = false
	setKeyURL = ""
	logLevel, logFile, logConsole = "", "", false
	for _, name := range []string{"log-level", "log-file", "log-console"} {
		rootCmd.PersistentFlags().Lookup(name).Changed = false
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func TestAddAndList(t *testing.T) {
	newCLIStore(t)

	out, err := runCLI(t, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No tasks found")

	out, err = runCLI(t, "", "add", "Write", "report")
	require.NoError(t, err)
	assert.Contains(t, out, `Added`)
	assert.Contains(t, out, `"Write report"`)

	out, err = runCLI(t, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Active (1)")
	assert.Contains(t, out, "Write report")

	out, err = runCLI(t, "", "list", "--done")
	require.NoError(t, err)
	assert.Contains(t, out, "No completed tasks yet.")
}

func TestAddBlankName(t *testing.T) {
	newCLIStore(t)

	_, err := runCLI(t, "", "add", "  ")
	assert.ErrorIs(t, err, store.ErrEmptyName)
}

func TestDoneByPrefix(t *testing.T) {
	st := newCLIStore(t)
	task, err := st.CreateTask(context.Background(), "Ship it")
	require.NoError(t, err)

	out, err := runCLI(t, "", "done", task.ShortID())
	require.NoError(t, err)
	assert.Contains(t, out, `Completed: "Ship it"`)

	out, err = runCLI(t, "", "done", task.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Already completed")

	out, err = runCLI(t, "", "list", "--done")
	require.NoError(t, err)
	assert.Contains(t, out, "Completed (1)")
	assert.Contains(t, out, "[x]")

	_, err = runCLI(t, "", "done", "ffffffff-0000")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestFocusRejectsCompletedTask(t *testing.T) {
	st := newCLIStore(t)
	ctx := context.Background()
	task, err := st.CreateTask(ctx, "old news")
	require.NoError(t, err)
	require.NoError(t, st.CompleteTask(ctx, task.ID))

	_, err = runCLI(t, "", "focus", task.ShortID())
	assert.ErrorIs(t, err, store.ErrAlreadyCompleted)
}

func TestHistoryJSON(t *testing.T) {
	st := newCLIStore(t)
	ctx := context.Background()
	for _, name := range []string{"one", "two"} {
		task, err := st.CreateTask(ctx, name)
		require.NoError(t, err)
		require.NoError(t, st.CompleteTask(ctx, task.ID))
	}

	out, err := runCLI(t, "", "history", "--json")
	require.NoError(t, err)

	var values []history.Value
	require.NoError(t, json.Unmarshal([]byte(out), &values))
	require.Len(t, values, 1)
	assert.Equal(t, time.Now().Format(history.DateLayout), values[0].Date)
	assert.Equal(t, 2, values[0].Count)

	out, err = runCLI(t, "", "history", "--months", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "2 completed across 1 days")
	assert.Contains(t, out, "Best day")

	_, err = runCLI(t, "", "history", "--months", "0")
	assert.Error(t, err)
}

func TestHashKey(t *testing.T) {
	newCLIStore(t)

	out, err := runCLI(t, "s3cret\n", "auth", "hash-key")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	hash := strings.TrimSpace(lines[len(lines)-1])
	hash = strings.TrimPrefix(hash, "Key to hash: ")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))

	_, err = runCLI(t, "\n", "auth", "hash-key")
	assert.Error(t, err)
}

func TestOpenStoreSelectsBackend(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := config.DefaultConfig()
	cfg.Store.Backend = config.BackendRemote
	cfg.Store.URL = "http://localhost:1"
	cfg.Store.APIKey = "inline"

	st, err := openStore(cfg)
	require.NoError(t, err)
	assert.IsType(t, &remote.Client{}, st)
	require.NoError(t, st.Close())

	cfg = config.DefaultConfig()
	cfg.Store.Path = ":memory:"
	st, err = openStore(cfg)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	cfg.Store.Backend = "ftp"
	_, err = openStore(cfg)
	assert.Error(t, err)
}

func TestLogFlagsDoNotPersistEnv(t *testing.T) {
	newCLIStore(t)
	t.Setenv("IRONFOCUS_STORE_API_KEY", "env-only")

	_, err := runCLI(t, "", "list", "--log-level", "DEBUG")
	require.NoError(t, err)

	data, err := os.ReadFile(config.DefaultPath())
	require.NoError(t, err)
	assert.Contains(t, string(data), "DEBUG")
	assert.NotContains(t, string(data), "env-only")
}
