package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listkit/listkit/internal/cli"
)

// createTestUsers writes a JSON record file with count users and returns its
// path. Ages cycle so sort orders are non-trivial.
func createTestUsers(t *testing.T, count int) string {
	t.Helper()

	type user struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Age  int    `json:"age"`
	}

	users := make([]user, count)
	for i := range users {
		users[i] = user{
			ID:   fmt.Sprintf("u%03d", i),
			Name: fmt.Sprintf("user-%03d", count-i),
			Age:  20 + (i*7)%50,
		}
	}

	data, err := json.Marshal(users)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// createTestConfig writes a config file declaring id keys and sortable
// name/age attributes with pages of ten.
func createTestConfig(t *testing.T) string {
	t.Helper()

	content := `
version: "1.0.0"
default_limit: 10
window: 5
key_field: id
base_path: /users
attributes:
  - name: name
  - name: age
default_order:
  - {attribute: name}
logging:
  level: error
`
	path := filepath.Join(t.TempDir(), "listkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// runCLI executes the root command with args and returns its output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := cli.NewRootCmd("test-version")
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// TestCLIView_Pagination walks pages of a hundred-user collection and checks
// the footer and link math line up.
func TestCLIView_Pagination(t *testing.T) {
	dataPath := createTestUsers(t, 100)
	cfgPath := createTestConfig(t)

	t.Run("middle page as table", func(t *testing.T) {
		out, err := runCLI(t, "view", "--config", cfgPath, "--input", dataPath,
			"--sort", "age", "--page", "2")
		require.NoError(t, err)
		assert.Contains(t, out, "Page 3 of 10 (100 records, 70 more)")
	})

	t.Run("middle page links", func(t *testing.T) {
		out, err := runCLI(t, "view", "--config", cfgPath, "--input", dataPath,
			"--sort", "age", "--page", "2", "--output", "json")
		require.NoError(t, err)

		var doc struct {
			Links map[string]string `json:"links"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &doc))

		assert.Equal(t, "/users?page=2", doc.Links["self"])
		assert.Equal(t, "/users", doc.Links["first"])
		assert.Equal(t, "/users?page=1", doc.Links["prev"])
		assert.Equal(t, "/users?page=3", doc.Links["next"])
		assert.Equal(t, "/users?page=9", doc.Links["last"])
	})

	t.Run("non-default limit kept in links", func(t *testing.T) {
		out, err := runCLI(t, "view", "--config", cfgPath, "--input", dataPath,
			"--page", "1", "--limit", "25", "--output", "json")
		require.NoError(t, err)

		var doc struct {
			Links map[string]string `json:"links"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &doc))
		assert.Equal(t, "/users?limit=25&page=1", doc.Links["self"])
		assert.Equal(t, "/users?limit=25", doc.Links["first"])
	})
}

// TestCLIView_DefaultOrder checks the configured default order applies when
// the sort parameter is empty or garbage.
func TestCLIView_DefaultOrder(t *testing.T) {
	dataPath := createTestUsers(t, 30)
	cfgPath := createTestConfig(t)

	for _, sortParam := range []string{"", "bogus,unknown"} {
		out, err := runCLI(t, "view", "--config", cfgPath, "--input", dataPath,
			"--sort", sortParam, "--output", "json")
		require.NoError(t, err)

		var doc struct {
			Items []map[string]any `json:"items"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &doc))
		require.NotEmpty(t, doc.Items)
		assert.Equal(t, "user-001", doc.Items[0]["name"],
			"default order sorts by name regardless of parameter garbage")
	}
}

// TestCLIView_DescendingPageOrder checks that desc mode mirrors navigation
// targets while leaving page contents alone.
func TestCLIView_DescendingPageOrder(t *testing.T) {
	dataPath := createTestUsers(t, 100)
	cfgPath := createTestConfig(t)

	out, err := runCLI(t, "view", "--config", cfgPath, "--input", dataPath,
		"--page", "2", "--desc", "--output", "json")
	require.NoError(t, err)

	var doc struct {
		Pagination map[string]any    `json:"pagination"`
		Links      map[string]string `json:"links"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))

	assert.Equal(t, float64(2), doc.Pagination["pageCurrent"])
	assert.Equal(t, float64(20), doc.Pagination["offset"], "offset unaffected by page order")
	assert.Equal(t, float64(9), doc.Pagination["pageFirst"])
	assert.Equal(t, float64(0), doc.Pagination["pageLast"])
	assert.Equal(t, "/users?page=9", doc.Links["first"])
	assert.Equal(t, "/users", doc.Links["last"])
	assert.Equal(t, "/users?page=3", doc.Links["prev"])
	assert.Equal(t, "/users?page=1", doc.Links["next"])
}

// TestCLIView_MultipleInputs checks multiple record files concatenate in
// argument order.
func TestCLIView_MultipleInputs(t *testing.T) {
	cfgPath := createTestConfig(t)
	dir := t.TempDir()

	a := filepath.Join(dir, "a.json")
	require.NoError(t, os.WriteFile(a, []byte(`[{"id":"a1","name":"zz","age":1}]`), 0o644))
	b := filepath.Join(dir, "b.yaml")
	require.NoError(t, os.WriteFile(b, []byte("- id: b1\n  name: aa\n  age: 2\n"), 0o644))

	out, err := runCLI(t, "view", "--config", cfgPath,
		"--input", a, "--input", b, "--sort", "age", "--output", "ndjson")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "a1")
	assert.Contains(t, lines[1], "b1")
}

// TestCLIView_AssignIDs checks ULIDs fill the key field for keyless records.
func TestCLIView_AssignIDs(t *testing.T) {
	cfgPath := createTestConfig(t)
	dir := t.TempDir()

	dataPath := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(dataPath,
		[]byte(`[{"name":"keyless","age":9},{"id":"kept","name":"keyed","age":8}]`), 0o644))

	out, err := runCLI(t, "view", "--config", cfgPath, "--input", dataPath,
		"--assign-ids", "--sort", "age", "--output", "json")
	require.NoError(t, err)

	var doc struct {
		Keys []string `json:"keys"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Keys, 2)
	assert.Equal(t, "kept", doc.Keys[0], "existing key preserved")
	assert.Len(t, doc.Keys[1], 26, "generated key is a ULID")
}
