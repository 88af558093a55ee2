package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkarov/intelconsole/internal/store/storetest"
)

func writeImportFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFromFileSkipsBlankAndMalformedLines(t *testing.T) {
	fake := storetest.New()
	path := writeImportFile(t, "alice,h1\n\nbob,h2,extra\nmalformed\n")

	n, err := FromFile(context.Background(), fake, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, storetest.User{Hash: "h1", Role: "user"}, fake.Users["alice"])
	assert.Equal(t, storetest.User{Hash: "h2", Role: "user"}, fake.Users["bob"])
}

func TestFromFileIsIdempotent(t *testing.T) {
	fake := storetest.New()
	path := writeImportFile(t, "alice,h1\nbob,h2\n")

	n, err := FromFile(context.Background(), fake, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Re-running against the populated table imports nothing new.
	n, err = FromFile(context.Background(), fake, path)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestFromFileMissingFile(t *testing.T) {
	fake := storetest.New()

	n, err := FromFile(context.Background(), fake, filepath.Join(t.TempDir(), "absent.txt"))
	require.NoError(t, err, "a missing legacy file is not fatal")
	assert.Equal(t, 0, n)
}

func TestFromFileContinuesPastRowErrors(t *testing.T) {
	fake := storetest.New()
	fake.ExecErr = assert.AnError
	path := writeImportFile(t, "alice,h1\nbob,h2\n")

	n, err := FromFile(context.Background(), fake, path)
	require.NoError(t, err, "row errors are logged, not propagated")
	assert.Equal(t, 0, n)
}
