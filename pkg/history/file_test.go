package history

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/newsdigest/pkg/domain"
)

func TestFileStore_LoadMissing(t *testing.T) {
	st := NewFileStore(filepath.Join(t.TempDir(), "news.json"))
	h, err := st.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, h.Editions)
	assert.Empty(t, h.Editions)
}

func TestFileStore_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "news.json")
	st := NewFileStore(path)
	assert.Equal(t, path, st.Location())

	h := domain.History{Editions: []domain.Edition{
		{Date: "2024-01-02", Articles: []domain.Article{{
			Title: "t1", URL: "https://example.com/1", PublishedAt: "2024-01-02T10:00:00Z",
			Source: "src", Summary: "sum", SimplifiedContent: "simple", GUID: "g1",
		}}},
		{Date: "2024-01-01", Articles: []domain.Article{{Title: "t0", URL: "https://example.com/0"}}},
	}}
	require.NoError(t, st.Save(context.Background(), h))

	loaded, err := st.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, h, loaded)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "{\n  \"editions\": [\n")
	assert.Contains(t, string(data), `"simplifiedContent": "simple"`)
	assert.Contains(t, string(data), `"publishedAt": "2024-01-02T10:00:00Z"`)
	// omitempty for the second article
	assert.Equal(t, 1, strings.Count(string(data), "simplifiedContent"))

	// no temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "news.json", entries[0].Name())
	require.NoError(t, st.Close())
}

func TestFileStore_SaveEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "news.json")
	require.NoError(t, NewFileStore(path).Save(context.Background(), domain.History{}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"editions":[]}`, string(data))
}

func TestFileStore_LoadCorrupted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "news.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"editions": [ {"date": "2024-`), 0o600))

	_, err := NewFileStore(path).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse "+path)
}

func TestFileStore_SaveFailureKeepsPrevious(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "news.json")
	st := NewFileStore(path)
	prev := domain.History{Editions: []domain.Edition{{Date: "2024-01-01", Articles: []domain.Article{}}}}
	require.NoError(t, st.Save(context.Background(), prev))

	require.NoError(t, os.Chmod(dir, 0o500)) //nolint:gosec // test makes dir read-only
	defer os.Chmod(dir, 0o750)               //nolint:errcheck,gosec // restore for cleanup

	err := st.Save(context.Background(), domain.History{Editions: []domain.Edition{{Date: "2024-01-02"}}})
	require.Error(t, err)

	loaded, err := st.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, prev, loaded)
}

func TestFileStore_SaveToInvalidDir(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	// parent "directory" is a regular file
	err := NewFileStore(filepath.Join(blocker, "news.json")).Save(context.Background(), domain.History{})
	require.Error(t, err)
}
