package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gohornet/verdict/pkg/utils"
)

type tomlInfo struct {
	Engine string `toml:"databaseEngine"`
}

func TestTOMLFileRoundtrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dbinfo")

	require.NoError(t, utils.WriteTOMLToFile(path, &tomlInfo{Engine: "pebble"}, 0600, "# auto-generated"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "# auto-generated\n")

	info := &tomlInfo{}
	require.NoError(t, utils.ReadTOMLFromFile(path, info))
	require.Equal(t, "pebble", info.Engine)
}

func TestDirectoryHelpers(t *testing.T) {
	dir := t.TempDir()

	exists, err := utils.PathExists(dir)
	require.NoError(t, err)
	require.True(t, exists)

	empty, err := utils.DirectoryEmpty(dir)
	require.NoError(t, err)
	require.True(t, empty)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "file"), []byte{1}, 0600))
	empty, err = utils.DirectoryEmpty(dir)
	require.NoError(t, err)
	require.False(t, empty)

	exists, err = utils.PathExists(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	require.False(t, exists)
}
