package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mesh-intelligence/reuse/pkg/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// openTemp opens a store on a fresh file in a temp dir and returns it with
// the log observer.
func openTemp(t *testing.T, opts ...Option) (*Store, *observer.ObservedLogs) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "database.json")
	return openAt(t, path, opts...)
}

func openAt(t *testing.T, path string, opts ...Option) (*Store, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	opts = append([]Option{WithLogger(zap.New(core))}, opts...)
	return Open(types.Config{DBFile: path}, opts...), logs
}

// sequence returns an id generator yielding prefix1, prefix2, ...
func sequence(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

func sampleUser(name string) types.User {
	return types.User{
		Username: name,
		Password: name + "-pw",
		Name:     strings.ToUpper(name),
		Address:  "1 Main St",
		Phone:    "555-0100",
		Email:    name + "@example.com",
	}
}

func populate(t *testing.T, s *Store) {
	t.Helper()
	require.NoError(t, s.AddUser(types.User{
		Username: "admin", Password: "admin123", Name: "系统管理员",
		IsAdmin: true, IsApproved: true,
	}))
	require.NoError(t, s.AddUser(sampleUser("alice")))
	require.NoError(t, s.AddItemType(types.ItemType{Name: "食品", Attributes: []string{"保质期", "数量"}}))
	require.NoError(t, s.AddItemType(types.ItemType{Name: "工具", Attributes: []string{"品牌"}}))
	_, err := s.AddItem(types.Item{
		Name: "方便面", Description: "五包 <unopened> & sealed", Address: "东街 3 号",
		ContactPhone: "555", ContactEmail: "a@example.com", ItemType: "食品", User: "alice",
		ExtraAttributes: map[string]string{"保质期": "2026-01-01", "数量": "5"},
	})
	require.NoError(t, err)
	_, err = s.AddItem(types.Item{Name: "Hammer", Address: "West Rd", ItemType: "工具", User: "alice"})
	require.NoError(t, err)
}

func TestOpenMissingFile(t *testing.T) {
	s, logs := openTemp(t)

	assert.Empty(t, s.Users())
	assert.Empty(t, s.ItemTypes())
	assert.Empty(t, s.Items(types.ItemFilter{}))
	assert.Equal(t, 1, logs.FilterMessage("snapshot not found, starting empty").Len())

	_, err := os.Stat(s.Path())
	assert.True(t, os.IsNotExist(err), "open must not create the file")
}

func TestOpenDefaultPath(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	s := Open(types.Config{})
	assert.Equal(t, types.DefaultDBFile, s.Path())
}

func TestOpenCorruptFileRecovers(t *testing.T) {
	inputs := map[string]string{
		"truncated":  `{"users": [{"username": "a"`,
		"not json":   "hello",
		"wrong root": `[1, 2, 3]`,
		"bad member": `{"users": "nobody", "item_types": [], "items": []}`,
		"bad id":     `{"users": [], "item_types": [], "items": [{"id": true}]}`,
	}
	for name, content := range inputs {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "database.json")
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

			s, logs := openAt(t, path)
			assert.Empty(t, s.Users())
			assert.Empty(t, s.ItemTypes())
			assert.Empty(t, s.Items(types.ItemFilter{}))
			assert.Equal(t, 1, logs.FilterMessage("snapshot unreadable, starting empty").Len())

			require.NoError(t, s.AddUser(sampleUser("bob")))

			reloaded, _ := openAt(t, path)
			u, ok := reloaded.GetUser("bob")
			require.True(t, ok)
			assert.Equal(t, sampleUser("bob"), u)
		})
	}
}

func TestOpenDirectoryAsFile(t *testing.T) {
	dir := t.TempDir()
	s, logs := openAt(t, dir)
	assert.Empty(t, s.Users())
	assert.Equal(t, 1, logs.FilterMessage("snapshot unreadable, starting empty").Len())
}

func TestOpenPartialMembers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"users": [{"username": "carol", "is_approved": true}]}`), 0o644))

	s, logs := openAt(t, path)
	u, ok := s.GetUser("carol")
	require.True(t, ok)
	assert.True(t, u.IsApproved)
	assert.NotNil(t, s.ItemTypes())
	assert.Empty(t, s.Items(types.ItemFilter{}))

	loaded := logs.FilterMessage("snapshot loaded").All()
	require.Len(t, loaded, 1)
	assert.Equal(t, int64(1), loaded[0].ContextMap()["users"])
	assert.Equal(t, int64(0), loaded[0].ContextMap()["items"])
}

func TestRoundTrip(t *testing.T) {
	s, _ := openTemp(t)
	populate(t, s)
	before := s.Snapshot()

	reloaded, logs := openAt(t, s.Path())
	if diff := cmp.Diff(before, reloaded.Snapshot()); diff != "" {
		t.Errorf("reloaded snapshot differs (-saved +loaded):\n%s", diff)
	}
	require.Equal(t, 1, logs.FilterMessage("snapshot loaded").Len())

	first, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	require.NoError(t, reloaded.Save())
	second, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestSnapshotEncoding(t *testing.T) {
	s, _ := openTemp(t)
	populate(t, s)

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	text := string(data)

	assert.True(t, strings.HasPrefix(text, "{\n  \"users\": [\n"), "unexpected head: %q", text[:20])
	assert.Contains(t, text, "系统管理员")
	assert.Contains(t, text, "<unopened> & sealed")
	assert.NotContains(t, text, `\u`)
	assert.Contains(t, text, `"extra_attributes": {}`)
	assert.True(t, strings.HasSuffix(text, "}\n"))

	for _, field := range []string{
		"username", "password", "is_admin", "is_approved",
		"item_types", "attributes", "contact_phone", "contact_email", "item_type",
	} {
		assert.Contains(t, text, `"`+field+`"`)
	}

	// Field order follows the record declarations.
	assert.Less(t, strings.Index(text, `"users"`), strings.Index(text, `"item_types"`))
	assert.Less(t, strings.Index(text, `"item_types"`), strings.Index(text, `"items"`))
	assert.Less(t, strings.Index(text, `"username"`), strings.Index(text, `"password"`))
}

func TestNoTempFilesLeftBehind(t *testing.T) {
	s, _ := openTemp(t)
	populate(t, s)

	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "database.json", entries[0].Name())
}

func TestSaveCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "db.json")
	s, _ := openAt(t, path)
	require.NoError(t, s.AddUser(sampleUser("dave")))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestSaveFailureKeepsMemory(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	path := filepath.Join(blocker, "database.json")

	s, logs := openAt(t, path)

	err := s.AddUser(sampleUser("erin"))
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrPersist)

	u, ok := s.GetUser("erin")
	require.True(t, ok, "in-memory change must stand after a failed save")
	assert.Equal(t, "erin", u.Username)

	found, err := s.UpdateUser("erin", types.Approval())
	assert.True(t, found)
	assert.ErrorIs(t, err, types.ErrPersist)
	u, _ = s.GetUser("erin")
	assert.True(t, u.IsApproved)

	assert.Equal(t, 2, logs.FilterMessage("snapshot save failed").Len())
}
