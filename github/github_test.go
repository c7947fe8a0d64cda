package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fwojciec/skillreview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClient returns a Client pointed at the test server.
func testClient(server *httptest.Server) *Client {
	return &Client{
		token:   "test-token",
		apiURL:  server.URL,
		httpCli: server.Client(),
	}
}

func TestClient_Changes(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/vnd.github.v3+json", r.Header.Get("Accept"))
		assert.Equal(t, "/repos/acme/widgets/pulls/42/files", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("page"))

		files := []prFile{
			{Filename: "main.go", Status: "modified", Patch: "@@ -1,2 +1,2 @@\n-old\n+new\n"},
			{Filename: "new.go", Status: "added", Patch: "@@ -0,0 +1,1 @@\n+content\n"},
			{Filename: "gone.go", Status: "removed"},
			{Filename: "copy.go", Status: "copied"},
		}
		require.NoError(t, json.NewEncoder(w).Encode(files))
	}))
	defer server.Close()

	c := testClient(server)

	event, err := c.Changes(context.Background(), "acme/widgets", 42)

	require.NoError(t, err)
	assert.Equal(t, "pull_request", event.Type)
	assert.Empty(t, event.Action)
	assert.Equal(t, "acme/widgets", event.Repo)
	assert.Equal(t, 42, event.Number)

	require.Len(t, event.Files, 4)
	assert.Equal(t, "main.go", event.Files[0].Path)
	assert.Equal(t, skillreview.StatusModified, event.Files[0].Status)
	assert.Equal(t, "@@ -1,2 +1,2 @@\n-old\n+new\n", event.Files[0].Patch)
	assert.Equal(t, skillreview.StatusAdded, event.Files[1].Status)
	assert.Equal(t, skillreview.StatusRemoved, event.Files[2].Status)
	assert.Equal(t, skillreview.StatusAdded, event.Files[3].Status)
}

func TestClient_Changes_FollowsPagination(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			files := make([]prFile, perPage)
			for i := range files {
				files[i] = prFile{Filename: fmt.Sprintf("file%03d.go", i), Status: "modified"}
			}
			require.NoError(t, json.NewEncoder(w).Encode(files))
			return
		}
		require.NoError(t, json.NewEncoder(w).Encode([]prFile{{Filename: "last.go", Status: "added"}}))
	}))
	defer server.Close()

	c := testClient(server)

	event, err := c.Changes(context.Background(), "acme/widgets", 7)

	require.NoError(t, err)
	require.Len(t, event.Files, perPage+1)
	assert.Equal(t, "last.go", event.Files[perPage].Path)
}

func TestClient_Changes_NotFound(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(404)
		_, _ = w.Write([]byte(`{"message":"Not Found"}`))
	}))
	defer server.Close()

	c := testClient(server)

	_, err := c.Changes(context.Background(), "acme/widgets", 99)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestClient_Changes_AuthFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(401)
		_, _ = w.Write([]byte(`{"message":"Bad credentials"}`))
	}))
	defer server.Close()

	c := testClient(server)

	_, err := c.Changes(context.Background(), "acme/widgets", 1)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "authentication failed")
}

func TestClient_Changes_BadRepo(t *testing.T) {
	t.Parallel()

	c := &Client{token: "t", apiURL: "http://unused", httpCli: http.DefaultClient}

	_, err := c.Changes(context.Background(), "not-a-repo", 1)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "owner/name")
}

func TestClient_Head(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/widgets/pulls/42", r.URL.Path)
		_, _ = w.Write([]byte(`{"number":42,"head":{"sha":"abc123"},"base":{"sha":"def456"}}`))
	}))
	defer server.Close()

	c := testClient(server)

	sha, err := c.Head(context.Background(), "acme/widgets", 42)

	require.NoError(t, err)
	assert.Equal(t, "abc123", sha)
}

func TestClient_Comment(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/repos/acme/widgets/issues/42/comments", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "## Review\n\n1 finding", payload["body"])

		w.WriteHeader(201)
		_, _ = w.Write([]byte(`{"id":1}`))
	}))
	defer server.Close()

	c := testClient(server)

	err := c.Comment(context.Background(), "acme/widgets", 42, "## Review\n\n1 finding")

	require.NoError(t, err)
}

func TestClient_Comment_Error(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(403)
		_, _ = w.Write([]byte(`{"message":"Forbidden"}`))
	}))
	defer server.Close()

	c := testClient(server)

	err := c.Comment(context.Background(), "acme/widgets", 42, "body")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestClient_Contents(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/vnd.github.v3.raw", r.Header.Get("Accept"))
		assert.Equal(t, "/repos/acme/widgets/contents/src/config.go", r.URL.Path)
		assert.Equal(t, "main", r.URL.Query().Get("ref"))
		_, _ = w.Write([]byte("package config\n"))
	}))
	defer server.Close()

	c := testClient(server)

	content, err := c.Contents(context.Background(), "acme/widgets", "src/config.go", "main")

	require.NoError(t, err)
	assert.Equal(t, "package config\n", content)
}

func TestRefReader_ReadFile(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/widgets/contents/pkg/util.go", r.URL.Path)
		assert.Equal(t, "abc123", r.URL.Query().Get("ref"))
		_, _ = w.Write([]byte("package pkg\n"))
	}))
	defer server.Close()

	c := testClient(server)
	reader := c.Reader("acme/widgets", "abc123")

	content, err := reader.ReadFile(context.Background(), "pkg/util.go")

	require.NoError(t, err)
	assert.Equal(t, "package pkg\n", content)
}

func TestStatusFromAPI(t *testing.T) {
	t.Parallel()

	tests := []struct {
		api  string
		want skillreview.FileStatus
	}{
		{"added", skillreview.StatusAdded},
		{"copied", skillreview.StatusAdded},
		{"removed", skillreview.StatusRemoved},
		{"renamed", skillreview.StatusRenamed},
		{"modified", skillreview.StatusModified},
		{"changed", skillreview.StatusModified},
		{"unchanged", skillreview.StatusModified},
	}

	for _, tt := range tests {
		t.Run(tt.api, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, statusFromAPI(tt.api))
		})
	}
}
