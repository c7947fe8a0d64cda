package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/fwojciec/skillreview"
)

// Compile-time interface verification.
var (
	_ skillreview.ChangeSource = (*Client)(nil)
	_ skillreview.Commenter    = (*Client)(nil)
)

const defaultAPIURL = "https://api.github.com"

// perPage is the page size used for list endpoints.
const perPage = 100

// Client provides access to the GitHub REST API.
type Client struct {
	token   string
	apiURL  string
	httpCli *http.Client
}

// NewClient creates a new GitHub client. Requires GITHUB_TOKEN env var.
func NewClient() (*Client, error) {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("GITHUB_TOKEN environment variable is not set")
	}

	apiURL := os.Getenv("GITHUB_API_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	apiURL = strings.TrimRight(apiURL, "/")

	return &Client{
		token:   token,
		apiURL:  apiURL,
		httpCli: &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// prFile is one entry from the pull-request files endpoint.
type prFile struct {
	Filename string `json:"filename"`
	Status   string `json:"status"`
	Patch    string `json:"patch"`
}

// Changes fetches the change set for a pull request. repo is in owner/name
// form. The files endpoint paginates, so all pages are followed.
func (c *Client) Changes(ctx context.Context, repo string, number int) (*skillreview.Event, error) {
	if err := validateRepo(repo); err != nil {
		return nil, err
	}

	var files []skillreview.ChangedFile
	for page := 1; ; page++ {
		reqURL := fmt.Sprintf("%s/repos/%s/pulls/%d/files?per_page=%d&page=%d", c.apiURL, repo, number, perPage, page)

		body, err := c.get(ctx, reqURL, "application/vnd.github.v3+json")
		if err != nil {
			return nil, fmt.Errorf("fetching PR #%d files in %s: %w", number, repo, err)
		}

		var batch []prFile
		if err := json.Unmarshal(body, &batch); err != nil {
			return nil, fmt.Errorf("parsing PR files response: %w", err)
		}

		for _, f := range batch {
			files = append(files, skillreview.ChangedFile{
				Path:   f.Filename,
				Status: statusFromAPI(f.Status),
				Patch:  f.Patch,
			})
		}

		if len(batch) < perPage {
			break
		}
	}

	return &skillreview.Event{
		Type:   "pull_request",
		Repo:   repo,
		Number: number,
		Files:  files,
	}, nil
}

// Head returns the pull request's head commit SHA, used to read file
// content as of the change under review.
func (c *Client) Head(ctx context.Context, repo string, number int) (string, error) {
	if err := validateRepo(repo); err != nil {
		return "", err
	}

	reqURL := fmt.Sprintf("%s/repos/%s/pulls/%d", c.apiURL, repo, number)

	body, err := c.get(ctx, reqURL, "application/vnd.github.v3+json")
	if err != nil {
		return "", fmt.Errorf("fetching PR #%d in %s: %w", number, repo, err)
	}

	var pr struct {
		Head struct {
			SHA string `json:"sha"`
		} `json:"head"`
	}
	if err := json.Unmarshal(body, &pr); err != nil {
		return "", fmt.Errorf("parsing PR response: %w", err)
	}

	return pr.Head.SHA, nil
}

// Comment posts a discussion comment on the pull request.
func (c *Client) Comment(ctx context.Context, repo string, number int, body string) error {
	if err := validateRepo(repo); err != nil {
		return err
	}

	reqURL := fmt.Sprintf("%s/repos/%s/issues/%d/comments", c.apiURL, repo, number)

	payload, err := json.Marshal(map[string]string{"body": body})
	if err != nil {
		return fmt.Errorf("marshaling comment: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", reqURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return fmt.Errorf("posting comment: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("GitHub API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	return nil
}

// Contents fetches the raw content of a file at a ref.
func (c *Client) Contents(ctx context.Context, repo, path, ref string) (string, error) {
	if err := validateRepo(repo); err != nil {
		return "", err
	}

	reqURL := fmt.Sprintf("%s/repos/%s/contents/%s", c.apiURL, repo, path)
	if ref != "" {
		reqURL += "?ref=" + url.QueryEscape(ref)
	}

	body, err := c.get(ctx, reqURL, "application/vnd.github.v3.raw")
	if err != nil {
		return "", fmt.Errorf("fetching %s at %s in %s: %w", path, ref, repo, err)
	}

	return string(body), nil
}

// Reader returns a FileReader that reads file content from the repository
// at the given ref, for building unit context in PR mode.
func (c *Client) Reader(repo, ref string) *RefReader {
	return &RefReader{client: c, repo: repo, ref: ref}
}

// Compile-time interface verification.
var _ skillreview.FileReader = (*RefReader)(nil)

// RefReader reads file content from a repository at a fixed ref.
type RefReader struct {
	client *Client
	repo   string
	ref    string
}

func (r *RefReader) ReadFile(ctx context.Context, path string) (string, error) {
	return r.client.Contents(ctx, r.repo, path, r.ref)
}

// get performs an authorized GET and returns the body for 200 responses.
func (c *Client) get(ctx context.Context, reqURL, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", accept)

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode == 404 {
		return nil, fmt.Errorf("not found")
	}
	if resp.StatusCode == 401 || resp.StatusCode == 403 {
		return nil, fmt.Errorf("authentication failed: %s", string(body))
	}
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("GitHub API error (status %d): %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// statusFromAPI maps the REST API's per-file status strings onto FileStatus.
// Unrecognized statuses (changed, unchanged) are treated as modifications.
func statusFromAPI(s string) skillreview.FileStatus {
	switch s {
	case "added", "copied":
		return skillreview.StatusAdded
	case "removed":
		return skillreview.StatusRemoved
	case "renamed":
		return skillreview.StatusRenamed
	default:
		return skillreview.StatusModified
	}
}

func validateRepo(repo string) error {
	parts := strings.Split(repo, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("repo %q is not in owner/name form", repo)
	}
	return nil
}
