package vendors

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xiaoyuanzhu-com/project-import/log"
	"github.com/xiaoyuanzhu-com/project-import/models"
)

// AutopilotClient talks to the autopilot project-management service
type AutopilotClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAutopilotClient creates a client for the service at baseURL.
// A nil httpClient gets a client with the given timeout.
func NewAutopilotClient(baseURL string, httpClient *http.Client, timeout time.Duration) *AutopilotClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &AutopilotClient{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// ResolveProject looks up the project record for projectHex.
// The service answers with a list; exactly its first element is used.
func (c *AutopilotClient) ResolveProject(ctx context.Context, projectHex string) (*models.ProjectDescriptor, error) {
	endpoint, err := c.endpoint(url.Values{"project_hex": {projectHex}}, "database", "get_projects")
	if err != nil {
		return nil, err
	}

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	if err := validateShape(projectsSchema, body); err != nil {
		return nil, &models.UpstreamError{
			URL:  endpoint,
			Kind: models.ErrMalformedResponse,
			Err:  fmt.Errorf("%w: expected a non-empty list: %v", models.ErrNotFound, err),
		}
	}

	var projects []models.ProjectDescriptor
	if err := json.Unmarshal(body, &projects); err != nil {
		return nil, &models.UpstreamError{URL: endpoint, Kind: models.ErrMalformedResponse, Err: err}
	}
	if len(projects) == 0 {
		return nil, fmt.Errorf("%w: %s", models.ErrNotFound, projectHex)
	}

	log.Debug().
		Str("projectHex", projectHex).
		Str("name", projects[0].ProjectName).
		Int("matches", len(projects)).
		Msg("project resolved")

	return &projects[0], nil
}

// ListDocuments returns the document descriptors of a project in service order
func (c *AutopilotClient) ListDocuments(ctx context.Context, projectHex string) ([]models.DocumentDescriptor, error) {
	endpoint, err := c.endpoint(nil, "database", "retrieve_raw_html_files", projectHex)
	if err != nil {
		return nil, err
	}

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	if err := validateShape(documentsSchema, body); err != nil {
		return nil, &models.UpstreamError{URL: endpoint, Kind: models.ErrMalformedResponse, Err: err}
	}

	var docs []models.DocumentDescriptor
	if err := json.Unmarshal(body, &docs); err != nil {
		return nil, &models.UpstreamError{URL: endpoint, Kind: models.ErrMalformedResponse, Err: err}
	}

	log.Debug().Str("projectHex", projectHex).Int("documents", len(docs)).Msg("documents listed")
	return docs, nil
}

// FetchBlob returns the raw text stored under blobDir. The locator is
// opaque: it is appended verbatim, never cleaned or re-escaped.
func (c *AutopilotClient) FetchBlob(ctx context.Context, blobDir string) (string, error) {
	endpoint, err := c.rawEndpoint("/azure_storage/get_blob/" + blobDir)
	if err != nil {
		return "", err
	}

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *AutopilotClient) endpoint(query url.Values, elem ...string) (string, error) {
	if c.baseURL == "" {
		return "", &models.UpstreamError{
			Kind: models.ErrUnreachable,
			Err:  fmt.Errorf("AUTOPILOT_AI_URL not configured"),
		}
	}

	fullURL, err := url.JoinPath(c.baseURL, elem...)
	if err != nil {
		return "", &models.UpstreamError{URL: c.baseURL, Kind: models.ErrUnreachable, Err: err}
	}
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}
	return fullURL, nil
}

func (c *AutopilotClient) rawEndpoint(path string) (string, error) {
	if c.baseURL == "" {
		return "", &models.UpstreamError{
			Kind: models.ErrUnreachable,
			Err:  fmt.Errorf("AUTOPILOT_AI_URL not configured"),
		}
	}
	return strings.TrimRight(c.baseURL, "/") + path, nil
}

func (c *AutopilotClient) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &models.UpstreamError{URL: endpoint, Kind: models.ErrUnreachable, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &models.UpstreamError{URL: endpoint, Kind: models.ErrUnreachable, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &models.UpstreamError{URL: endpoint, StatusCode: resp.StatusCode, Kind: models.ErrUnreachable}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &models.UpstreamError{URL: endpoint, Kind: models.ErrUnreachable, Err: err}
	}
	return body, nil
}
