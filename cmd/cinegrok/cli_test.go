package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinegrok-backend/internal/browse"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadRows(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    int
	}{
		{"json list", "rows.json", `[{"name":"Arjun"},{"name":"Meera"}]`, 2},
		{"json wrapped", "rows.json", `{"rows":[{"name":"Arjun"}]}`, 1},
		{"yaml list", "rows.yaml", "- name: Arjun\n  roles: [Director]\n- name: Meera\n", 2},
		{"yaml wrapped", "rows.yml", "rows:\n  - name: Arjun\n", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := readRows(writeFile(t, tt.file, tt.content))
			require.NoError(t, err)
			assert.Len(t, rows, tt.want)
		})
	}
}

func TestReadRows_YAMLBecomesJSON(t *testing.T) {
	rows, err := readRows(writeFile(t, "rows.yaml", "- name: Arjun\n  open_to_collab: true\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.JSONEq(t, `{"name":"Arjun","open_to_collab":true}`, string(rows[0]))
}

func TestReadRows_Errors(t *testing.T) {
	_, err := readRows(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "failed to read")

	_, err = readRows(writeFile(t, "rows.json", `{"people":[]}`))
	assert.ErrorContains(t, err, "has no rows")

	_, err = readRows(writeFile(t, "rows.json", `not json`))
	assert.ErrorContains(t, err, "failed to parse")
}

func TestRunBrowse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Editor", r.URL.Query().Get("role"))
		io.WriteString(w, `{"data":[{"id":"f1","stage_name":"Meera Nair","current_city":"Kochi","current_state":"Kerala","roles":["Editor","Writer"],"genre_tags":[]}],
			"pagination":{"page":1,"limit":12,"total":1,"total_pages":1},"links":{"self":"/api/v1/filmmakers"}}`)
	}))
	defer server.Close()

	apiURL, timeout = server.URL, 5*time.Second
	browseFilter = browse.Filter{Page: 1, Limit: browse.DefaultLimit, Role: "Editor"}

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	require.NoError(t, runBrowse(cmd, nil))

	assert.Contains(t, out.String(), "Meera Nair")
	assert.Contains(t, out.String(), "Editor/Writer")
	assert.Contains(t, out.String(), "Kochi, Kerala")
	assert.Contains(t, out.String(), "page 1 of 1, 1 filmmakers")
}

func TestRunMe_NotSignedIn(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"error":"authentication required"}`)
	}))
	defer server.Close()

	apiURL, token, timeout = server.URL, "", 5*time.Second
	err := runMe(&cobra.Command{}, nil)
	assert.ErrorContains(t, err, "not signed in")
}
