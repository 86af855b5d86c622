package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/LerianStudio/lib-commons/commons/log"
	cn "github.com/LerianStudio/snyk-gc-projects/constant"
	libErr "github.com/LerianStudio/snyk-gc-projects/error"
	"github.com/LerianStudio/snyk-gc-projects/model"
)

// Client handles communication with the Snyk REST and v1 APIs
type Client struct {
	httpClient *http.Client
	config     model.Config
	logger     log.Logger
	now        func() time.Time
}

// New creates a new API client. A nil httpClient gets a client with no
// timeout.
func New(cfg model.Config, httpClient *http.Client, logger log.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		httpClient: httpClient,
		config:     cfg,
		logger:     logger,
		now:        time.Now,
	}
}

// SetHTTPClient allows overriding the HTTP client (useful for testing)
func (c *Client) SetHTTPClient(client *http.Client) {
	if client != nil {
		c.httpClient = client
	}
}

// SetClock overrides the clock used to compute the API version date
func (c *Client) SetClock(now func() time.Time) {
	if now != nil {
		c.now = now
	}
}

// ListProjects returns every project of the organization in API order,
// following pagination links until they are exhausted.
func (c *Client) ListProjects(ctx context.Context) ([]model.ProjectSummary, error) {
	projects := make([]model.ProjectSummary, 0)
	visited := make(map[string]bool)
	cursor := ""

	for {
		query := url.Values{}
		query.Set(cn.LimitParam, strconv.Itoa(cn.DefaultPageLimit))

		if cursor != "" {
			query.Set(cn.StartingAfterParam, cursor)
		}

		var page model.ProjectList
		if err := c.getJSON(ctx, c.restURL("/projects", query), &page); err != nil {
			return nil, err
		}

		projects = append(projects, page.Data...)

		next := c.nextCursor(page.Links.Next)
		if next == "" {
			break
		}

		if visited[next] {
			c.logger.Warnf("Pagination cursor %s repeated, stopping project listing", next)
			break
		}

		visited[next] = true
		cursor = next
	}

	c.logger.Debugf("Listed %d projects for org %s", len(projects), c.config.OrgID)

	return projects, nil
}

// GetProject fetches the v1 detail document of a project
func (c *Client) GetProject(ctx context.Context, id string) (model.ProjectDetail, error) {
	var detail model.ProjectDetail

	if err := c.getJSON(ctx, c.v1URL("/project/"+url.PathEscape(id), nil), &detail); err != nil {
		return model.ProjectDetail{}, err
	}

	return detail, nil
}

// DeleteProject removes a project through the REST API
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	rawURL := c.restURL("/projects/"+url.PathEscape(id), nil)

	c.logger.Debugf("DELETE %s", rawURL)

	resp, err := c.do(ctx, http.MethodDelete, rawURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}

// version is the mandatory API version: today's UTC date
func (c *Client) version() string {
	return c.now().UTC().Format(cn.VersionLayout)
}

func (c *Client) restURL(path string, query url.Values) string {
	return c.buildURL(cn.RESTPathPrefix, path, query)
}

func (c *Client) v1URL(path string, query url.Values) string {
	return c.buildURL(cn.V1PathPrefix, path, query)
}

func (c *Client) buildURL(prefix, path string, query url.Values) string {
	if query == nil {
		query = url.Values{}
	}

	query.Set(cn.VersionParam, c.version())

	return c.config.APIURL + prefix + url.PathEscape(c.config.OrgID) + path + "?" + query.Encode()
}

// nextCursor extracts the starting_after cursor from a next link
func (c *Client) nextCursor(link string) string {
	if link == "" {
		return ""
	}

	u, err := url.Parse(link)
	if err != nil {
		c.logger.Warnf("Ignoring malformed pagination link %q: %v", link, err)
		return ""
	}

	return u.Query().Get(cn.StartingAfterParam)
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	if c.config.Verbose {
		c.logger.Infof("GET %s", rawURL)
	}

	resp, err := c.do(ctx, http.MethodGet, rawURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", rawURL, err)
	}

	return nil
}

// do issues an authenticated request and turns non-2xx statuses into
// *HTTPError. The caller owns the body of a successful response.
func (c *Client) do(ctx context.Context, method, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set(cn.AuthorizationHeader, cn.AuthorizationScheme+" "+c.config.APIToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warnf("%s request failed - error: %s", method, err.Error())
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		defer resp.Body.Close()
		return nil, c.handleErrorResponse(method, rawURL, resp)
	}

	return resp, nil
}

// handleErrorResponse builds the *HTTPError for a failed call
func (c *Client) handleErrorResponse(method, rawURL string, resp *http.Response) error {
	bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, cn.MaxErrorBodyBytes))

	httpErr := &libErr.HTTPError{
		Method:     method,
		URL:        rawURL,
		StatusCode: resp.StatusCode,
		Body:       string(bodyBytes),
	}

	var errorResp model.ErrorResponse
	if json.Unmarshal(bodyBytes, &errorResp) == nil {
		httpErr.Code = errorResp.Code
		httpErr.Detail = errorResp.Detail()
	}

	if resp.StatusCode >= 500 {
		c.logger.Debugf("Server error from Snyk API - status: %d, code: %s, message: %s",
			resp.StatusCode, httpErr.Code, httpErr.Detail)
	} else {
		c.logger.Debugf("Client error from Snyk API - status: %d, code: %s, message: %s",
			resp.StatusCode, httpErr.Code, httpErr.Detail)
	}

	return httpErr
}
