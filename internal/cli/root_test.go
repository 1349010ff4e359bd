package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testdata = "../adapters/csvio/testdata"

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "streaks", cmd.Use)

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "c", configFlag.Shorthand)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()

	for _, name := range []string{"derive", "sync", "databases", "hash-password"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestDerive(t *testing.T) {
	golden, err := os.ReadFile(filepath.Join(testdata, "golden", "derive.golden"))
	require.NoError(t, err)

	base := []string{
		"derive",
		"--habits", filepath.Join(testdata, "habits.csv"),
		"--tracker", filepath.Join(testdata, "tracker.csv"),
		"--calendar", filepath.Join(testdata, "calendar.csv"),
	}

	t.Run("To stdout", func(t *testing.T) {
		stdout, _, err := execute(t, "", base...)
		require.NoError(t, err)
		assert.Equal(t, string(golden), stdout)
	})

	t.Run("To file", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "streaks.csv")
		_, stderr, err := execute(t, "", append(base, "--out", out)...)
		require.NoError(t, err)
		assert.Contains(t, stderr, "11 streaks (4 active)")

		written, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Equal(t, string(golden), string(written))
	})

	t.Run("Window narrows the replay", func(t *testing.T) {
		stdout, _, err := execute(t, "", append(base, "--to", "2025-01-07")...)
		require.NoError(t, err)
		assert.NotContains(t, stdout, "2025-01-10")
	})

	t.Run("Bad window", func(t *testing.T) {
		_, _, err := execute(t, "", append(base, "--from", "yesterday")...)
		assert.Error(t, err)
	})

	t.Run("Missing required flag", func(t *testing.T) {
		_, _, err := execute(t, "", "derive", "--habits", "h.csv")
		assert.Error(t, err)
	})
}

func TestHashPassword(t *testing.T) {
	stdout, _, err := execute(t, "correct-horse\n", "hash-password")
	require.NoError(t, err)

	hash := strings.TrimSpace(stdout)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("correct-horse")))

	_, _, err = execute(t, "", "hash-password")
	assert.Error(t, err)

	_, _, err = execute(t, "short\n", "hash-password")
	assert.Error(t, err)
}

func TestDatabases_RequiresToken(t *testing.T) {
	t.Setenv("NOTION_TOKEN", "")
	_, _, err := execute(t, "", "databases", "--env-file", filepath.Join(t.TempDir(), "none.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "notion token is not set")
}

func TestSync_FromFiles(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "streaks.csv")
	cfgPath := filepath.Join(dir, "streaks.toml")
	content := "[database]\nstore = \"sqlite\"\nsqlite_path = " + quote(filepath.Join(dir, "streaks.db")) + "\n\n" +
		"[resources]\n" +
		"calendar_file = " + quote(filepath.Join(testdata, "calendar.csv")) + "\n" +
		"habits_file = " + quote(filepath.Join(testdata, "habits.csv")) + "\n" +
		"tracker_file = " + quote(filepath.Join(testdata, "tracker.csv")) + "\n" +
		"streaks_file = " + quote(out) + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o600))

	t.Setenv("NOTION_TOKEN", "")
	t.Setenv("STREAK_STORE", "")
	stdout, _, err := execute(t, "", "sync", "--config", cfgPath, "--env-file", filepath.Join(dir, "none.env"))
	require.NoError(t, err)
	assert.Contains(t, stdout, `"status": "succeeded"`)
	assert.Contains(t, stdout, `"streaks": 11`)

	_, err = os.Stat(out)
	assert.NoError(t, err)
}

func quote(s string) string {
	return "'" + s + "'"
}
