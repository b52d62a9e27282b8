package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/reuse/pkg/types"
)

type cliEnv struct {
	configDir string
	dbFile    string
}

type runResult struct {
	stdout string
	stderr string
	err    error
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("REUSE_LOG_LEVEL", "")
	t.Setenv("REUSE_DB_FILE", "")
	return &cliEnv{
		configDir: filepath.Join(dir, "config"),
		dbFile:    filepath.Join(dir, "data", "database.json"),
	}
}

func (e *cliEnv) run(args ...string) runResult {
	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	full := append([]string{"--config-dir", e.configDir, "--db-file", e.dbFile, "--log-level", "error"}, args...)
	root.SetArgs(full)
	err := root.Execute()
	return runResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func (e *cliEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	res := e.run(args...)
	require.NoError(t, res.err, "args %v, stderr %s", args, res.stderr)
	return res.stdout
}

func (e *cliEnv) snapshot(t *testing.T) types.Snapshot {
	t.Helper()
	data, err := os.ReadFile(e.dbFile)
	require.NoError(t, err)
	var snap types.Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	return snap
}

func registerMember(t *testing.T, e *cliEnv, username string) {
	t.Helper()
	e.mustRun(t, "user", "register",
		"--username", username, "--password", "pw",
		"--name", username, "--address", "东街 1 号",
		"--phone", "555", "--email", username+"@example.com")
}

// addItemArgs returns "item add" arguments with every required field set.
func addItemArgs(owner, itemType, name, address string, extra ...string) []string {
	args := []string{"item", "add",
		"--user", owner, "--type", itemType, "--name", name,
		"--description", name + " to give away", "--address", address,
		"--phone", "555", "--email", owner + "@example.com"}
	return append(args, extra...)
}

func TestVersion(t *testing.T) {
	e := newCLIEnv(t)
	out := e.mustRun(t, "version")
	assert.Contains(t, out, "reuse v"+Version)
	assert.NoFileExists(t, e.dbFile)
}

func TestInitSeedsAndWritesConfig(t *testing.T) {
	e := newCLIEnv(t)
	out := e.mustRun(t, "init")
	assert.Contains(t, out, "Registry initialized")
	assert.FileExists(t, filepath.Join(e.configDir, "config.yaml"))

	snap := e.snapshot(t)
	require.Len(t, snap.Users, 1)
	assert.Equal(t, "admin", snap.Users[0].Username)
	assert.Len(t, snap.ItemTypes, 3)

	e.mustRun(t, "init")
	assert.Len(t, e.snapshot(t).Users, 1)
}

func TestInitConfigPointsAtDBFile(t *testing.T) {
	e := newCLIEnv(t)
	e.mustRun(t, "init")

	root := NewRootCmd()
	var stdout bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--config-dir", e.configDir, "--log-level", "error", "db", "path"})
	require.NoError(t, root.Execute())
	assert.Equal(t, e.dbFile+"\n", stdout.String())
}

func TestUserRegistrationFlow(t *testing.T) {
	e := newCLIEnv(t)
	e.mustRun(t, "init")
	registerMember(t, e, "alice")

	res := e.run("user", "login", "--username", "alice", "--password", "pw")
	assert.ErrorIs(t, res.err, types.ErrNotApproved)
	assert.Equal(t, exitUserError, exitCode(res.err))

	out := e.mustRun(t, "--json", "user", "pending")
	var pending []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &pending))
	require.Len(t, pending, 1)
	assert.Equal(t, "alice", pending[0]["username"])
	assert.NotContains(t, pending[0], "password")

	e.mustRun(t, "user", "approve", "alice")
	out = e.mustRun(t, "user", "login", "--username", "alice", "--password", "pw")
	assert.Contains(t, out, "Welcome, alice (member)")

	res = e.run("user", "register",
		"--username", "alice", "--password", "x", "--name", "n",
		"--address", "a", "--phone", "p", "--email", "e")
	assert.ErrorIs(t, res.err, types.ErrUserExists)

	res = e.run("user", "register",
		"--username", "erin", "--password", "x", "--name", "",
		"--address", "a", "--phone", "p", "--email", "e")
	assert.ErrorIs(t, res.err, types.ErrMissingField)
	assert.Contains(t, res.err.Error(), "name")
	for _, u := range e.snapshot(t).Users {
		assert.NotEqual(t, "erin", u.Username)
	}
}

func TestAdminCommandsCheckActor(t *testing.T) {
	e := newCLIEnv(t)
	e.mustRun(t, "init")
	registerMember(t, e, "alice")
	registerMember(t, e, "bob")

	res := e.run("user", "approve", "bob", "--as", "alice")
	assert.ErrorIs(t, res.err, types.ErrForbidden)
	assert.Equal(t, exitUserError, exitCode(res.err))

	e.mustRun(t, "user", "approve", "alice", "--as", "admin")
	assert.ErrorIs(t, e.run("user", "approve", "bob", "--as", "alice").err, types.ErrForbidden)
	assert.ErrorIs(t, e.run("type", "add", "家具", "--as", "alice").err, types.ErrForbidden)
	assert.ErrorIs(t, e.run("type", "edit", "食品", "--name", "零食", "--as", "alice").err, types.ErrForbidden)

	e.mustRun(t, "type", "add", "家具", "--as", "admin")
	e.mustRun(t, "type", "edit", "家具", "--attr", "材质", "--as", "admin")

	snap := e.snapshot(t)
	assert.Len(t, snap.ItemTypes, 4)
	for _, u := range snap.Users {
		if u.Username == "bob" {
			assert.False(t, u.IsApproved)
		}
	}
}

func TestUserUpdate(t *testing.T) {
	e := newCLIEnv(t)
	e.mustRun(t, "init")
	registerMember(t, e, "bob")

	e.mustRun(t, "user", "update", "bob", "phone=999", "is_approved=true")
	out := e.mustRun(t, "--json", "user", "show", "bob")
	var u map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &u))
	assert.Equal(t, "999", u["phone"])
	assert.Equal(t, true, u["is_approved"])

	assert.ErrorIs(t, e.run("user", "update", "bob", "username=robert").err, types.ErrImmutableField)
	assert.ErrorIs(t, e.run("user", "update", "bob", "shoe_size=9").err, types.ErrUnknownField)
	assert.ErrorIs(t, e.run("user", "update", "bob", "phone").err, types.ErrInvalidValue)
	assert.ErrorIs(t, e.run("user", "update", "ghost", "phone=1").err, types.ErrUserNotFound)
}

func TestItemTypeCommands(t *testing.T) {
	e := newCLIEnv(t)
	e.mustRun(t, "init")

	e.mustRun(t, "type", "add", "家具", " 材质 ", "尺寸")
	assert.ErrorIs(t, e.run("type", "add", "家具").err, types.ErrItemTypeExists)
	assert.ErrorIs(t, e.run("type", "add", "玩具", "颜色", "", " 颜色").err, types.ErrInvalidAttr)
	assert.ErrorIs(t, e.run("type", "add", "玩具", "颜色", " 颜色").err, types.ErrDuplicateAttr)

	out := e.mustRun(t, "--json", "type", "show", "家具")
	var added types.ItemType
	require.NoError(t, json.Unmarshal([]byte(out), &added))
	assert.Equal(t, []string{"材质", "尺寸"}, added.Attributes)

	e.mustRun(t, "type", "edit", "家具", "--attr", "颜色 ")
	out = e.mustRun(t, "--json", "type", "show", "家具")
	var got types.ItemType
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []string{"颜色"}, got.Attributes)

	e.mustRun(t, "type", "edit", "家具", "--name", "家居")
	assert.ErrorIs(t, e.run("type", "show", "家具").err, types.ErrItemTypeNotFound)

	out = e.mustRun(t, "type", "list")
	assert.Contains(t, out, "家居")
	assert.Contains(t, out, "食品")
}

func TestItemLifecycle(t *testing.T) {
	e := newCLIEnv(t)
	e.mustRun(t, "init")
	registerMember(t, e, "carol")
	e.mustRun(t, "user", "approve", "carol")
	registerMember(t, e, "dave")
	e.mustRun(t, "user", "approve", "dave")

	out := e.mustRun(t, append([]string{"--json"},
		addItemArgs("carol", "食品", "方便面", "东街", "--attr", "数量=5", "--attr", "保质期=")...)...)
	var added types.Item
	require.NoError(t, json.Unmarshal([]byte(out), &added))
	require.NotEmpty(t, added.ID)
	assert.Equal(t, "carol", added.User)
	assert.Equal(t, map[string]string{"数量": "5"}, added.ExtraAttributes)

	e.mustRun(t, addItemArgs("dave", "工具", "Hammer", "West st")...)

	res := e.run(addItemArgs("dave", "工具", "Saw", "West st", "--attr", "颜色=red")...)
	assert.ErrorIs(t, res.err, types.ErrUnknownAttribute)

	res = e.run("item", "add", "--user", "dave", "--type", "工具", "--name", "Saw", "--address", "West st")
	assert.ErrorIs(t, res.err, types.ErrMissingField)
	assert.Len(t, e.snapshot(t).Items, 2)

	out = e.mustRun(t, "--json", "item", "list", "--type", "食品")
	var list []types.Item
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 1)
	assert.Equal(t, added.ID, list[0].ID)

	out = e.mustRun(t, "--json", "item", "list", "--keyword", "WEST")
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Hammer", list[0].Name)

	e.mustRun(t, "item", "update", " "+added.ID+" ", "address=北街", "extra_attributes.保质期=2026-01-01")
	out = e.mustRun(t, "--json", "item", "show", added.ID)
	var shown types.Item
	require.NoError(t, json.Unmarshal([]byte(out), &shown))
	assert.Equal(t, "北街", shown.Address)
	assert.Equal(t, map[string]string{"数量": "5", "保质期": "2026-01-01"}, shown.ExtraAttributes)
	assert.ErrorIs(t, e.run("item", "update", added.ID, "id=1").err, types.ErrImmutableField)

	assert.ErrorIs(t, e.run("item", "delete", added.ID, "--as", "dave").err, types.ErrForbidden)
	e.mustRun(t, "item", "delete", added.ID, "--as", "carol")
	assert.ErrorIs(t, e.run("item", "show", added.ID).err, types.ErrItemNotFound)
	assert.Len(t, e.snapshot(t).Items, 1)

	out = e.mustRun(t, "item", "list", "--keyword", "nothing-matches")
	assert.Contains(t, out, "No items found.")
}

func TestDBResave(t *testing.T) {
	e := newCLIEnv(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(e.dbFile), 0o755))
	require.NoError(t, os.WriteFile(e.dbFile, []byte(`{"items": [{"id": 20250101120000123, "name": "旧椅子"}]}`), 0o644))

	out := e.mustRun(t, "db", "resave")
	assert.Contains(t, out, "0 users, 0 item types, 1 items")

	data, err := os.ReadFile(e.dbFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"id": "20250101120000123"`)
	assert.Contains(t, string(data), `"users": []`)
	assert.Contains(t, string(data), "旧椅子")
}

func TestDBExport(t *testing.T) {
	e := newCLIEnv(t)
	e.mustRun(t, "init")
	dbPath := filepath.Join(t.TempDir(), "reuse.db")

	out := e.mustRun(t, "--json", "db", "export", dbPath)
	var counts map[string]int
	require.NoError(t, json.Unmarshal([]byte(out), &counts))
	assert.Equal(t, map[string]int{"users": 1, "item_types": 3, "items": 0}, counts)
	assert.FileExists(t, dbPath)
}

func TestPersistFailureExitCode(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	e := &cliEnv{configDir: filepath.Join(dir, "config"), dbFile: filepath.Join(blocker, "database.json")}
	t.Setenv("REUSE_LOG_LEVEL", "")

	res := e.run("type", "add", "家具")
	require.Error(t, res.err)
	assert.ErrorIs(t, res.err, types.ErrPersist)
	assert.Equal(t, exitSysError, exitCode(res.err))
	assert.Contains(t, res.stderr, "snapshot save failed")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitSuccess, exitCode(nil))
	assert.Equal(t, exitUserError, exitCode(types.ErrUserNotFound))
	assert.Equal(t, exitSysError, exitCode(sysErr(os.ErrPermission)))
}

func TestParseAssignments(t *testing.T) {
	got, err := parseAssignments([]string{"a=1", "b=x=y", "c="})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1", "b": "x=y", "c": ""}, got)

	_, err = parseAssignments([]string{"=1"})
	assert.ErrorIs(t, err, types.ErrInvalidValue)
}
