package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// HTTPClient talks to the tracker's issue-creation endpoint. It carries no
// explicit timeout: a create call runs to completion or failure on the
// transport's own terms, and nothing retries automatically.
type HTTPClient struct {
	endpoint   string
	token      string
	orgID      string
	httpClient *http.Client
}

func NewHTTPClient(endpoint, token, orgID string) *HTTPClient {
	return &HTTPClient{
		endpoint:   endpoint,
		token:      token,
		orgID:      orgID,
		httpClient: &http.Client{},
	}
}

func (c *HTTPClient) CreateIssue(ctx context.Context, req CreateIssueRequest) (*Issue, error) {
	if req.Tags == nil {
		req.Tags = []string{}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal create issue request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("build request (tracker): %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "OAuth "+c.token)
	httpReq.Header.Set("X-Org-ID", c.orgID)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("create issue (tracker): %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		errorBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read error body (tracker): %w", err)
		}
		var apiErr apiError
		if err := json.Unmarshal(errorBody, &apiErr); err != nil {
			return nil, fmt.Errorf("error status (tracker): %d", resp.StatusCode)
		}
		if len(apiErr.ErrorMessages) > 0 {
			return nil, fmt.Errorf("tracker error: %s", strings.Join(apiErr.ErrorMessages, "; "))
		}
		return nil, fmt.Errorf("error status (tracker): %d", resp.StatusCode)
	}

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body (tracker): %w", err)
	}

	issue, err := parseIssue(responseBody)
	if err != nil {
		return nil, err
	}
	return issue, nil
}

// parseIssue accepts either a single issue object or an array of them, in
// which case the first element is the created issue. A response without a
// key counts as a failure.
func parseIssue(body []byte) (*Issue, error) {
	trimmed := bytes.TrimSpace(body)

	var issue Issue
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var issues []Issue
		if err := json.Unmarshal(trimmed, &issues); err != nil {
			return nil, fmt.Errorf("parse create issue response (tracker): %w", err)
		}
		if len(issues) == 0 {
			return nil, fmt.Errorf("create issue response is empty (tracker)")
		}
		issue = issues[0]
	} else {
		if err := json.Unmarshal(trimmed, &issue); err != nil {
			return nil, fmt.Errorf("parse create issue response (tracker): %w", err)
		}
	}

	if issue.Key == "" {
		return nil, fmt.Errorf("create issue response missing task id (tracker)")
	}
	return &issue, nil
}
