package seenstore

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seen_ads.json")
	return New(path, slog.New(slog.NewTextHandler(io.Discard, nil))), path
}

func TestLoadMissingFile(t *testing.T) {
	store, _ := testStore(t)
	require.Empty(t, store.Load())
}

func TestLoadShapes(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    []string
	}{
		{
			name:    "bare array",
			payload: `["a.html", "b.html"]`,
			want:    []string{"a.html", "b.html"},
		},
		{
			name:    "canonical object",
			payload: `{"seen_ids": ["a.html", "b.html"]}`,
			want:    []string{"a.html", "b.html"},
		},
		{
			name:    "legacy urls normalized to identities",
			payload: `{"urls": ["https://www.avto.net/oglasi/a.html", "https://www.avto.net/oglasi/b.html?x=1"]}`,
			want:    []string{"a.html", "b.html"},
		},
		{
			name:    "seen_ids wins over urls",
			payload: `{"seen_ids": ["a.html"], "urls": ["https://www.avto.net/oglasi/b.html"]}`,
			want:    []string{"a.html"},
		},
		{
			name:    "empty strings skipped",
			payload: `["a.html", ""]`,
			want:    []string{"a.html"},
		},
		{
			name:    "empty object",
			payload: `{}`,
			want:    nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, path := testStore(t)
			require.NoError(t, os.WriteFile(path, []byte(tt.payload), 0o644))

			seen := store.Load()
			require.Len(t, seen, len(tt.want))
			for _, id := range tt.want {
				require.Contains(t, seen, id)
			}
		})
	}
}

func TestLoadMalformedFile(t *testing.T) {
	store, path := testStore(t)
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o644))
	require.Empty(t, store.Load())
}

func TestSaveWritesCanonicalSortedShape(t *testing.T) {
	store, path := testStore(t)
	require.NoError(t, store.Save(map[string]struct{}{
		"c.html": {},
		"a.html": {},
		"b.html": {},
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var payload struct {
		SeenIDs []string `json:"seen_ids"`
	}
	require.NoError(t, json.Unmarshal(data, &payload))
	require.Equal(t, []string{"a.html", "b.html", "c.html"}, payload.SeenIDs)
}

func TestSaveEmptySetWritesEmptyList(t *testing.T) {
	store, path := testStore(t)
	require.NoError(t, store.Save(map[string]struct{}{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.JSONEq(t, `{"seen_ids": []}`, string(data))
}

func TestSaveUnwritablePath(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := New(filepath.Join(t.TempDir(), "missing-dir", "seen.json"), logger)
	require.Error(t, store.Save(map[string]struct{}{"a.html": {}}))
}

func TestLoadSaveRoundTrip(t *testing.T) {
	store, _ := testStore(t)
	seen := map[string]struct{}{"a.html": {}, "b.html": {}}
	require.NoError(t, store.Save(seen))
	require.Equal(t, seen, store.Load())
}
