// Package github provides a minimal GitHub REST API client for fetching
// pull-request change sets and posting review summaries back as comments.
//
// The client authenticates with the GITHUB_TOKEN environment variable. The
// pull-request files endpoint returns each file's patch fragment directly,
// which is the per-file form the rest of the pipeline consumes.
package github
