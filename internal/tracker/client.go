package tracker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const (
	// DefaultStoryPointsField is the custom field Jira Cloud uses for story points.
	DefaultStoryPointsField = "customfield_10016"
	// DefaultTimeout bounds each tracker request.
	DefaultTimeout = 30 * time.Second
	// MaxSuggestions caps ProjectSuggestions.
	MaxSuggestions = 5
	// MaxSearchResults caps SearchIssues.
	MaxSearchResults = 1000
)

// Config configures a Client.
type Config struct {
	BaseURL          string
	Email            string
	APIToken         string
	StoryPointsField string
	Timeout          time.Duration
	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// Client is a minimal Jira REST client using basic auth with an API token.
type Client struct {
	baseURL     string
	email       string
	token       string
	pointsField string
	http        *http.Client
}

// NewClient creates a client. BaseURL is required.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("tracker base URL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("parse tracker URL: %w", err)
	}
	if cfg.StoryPointsField == "" {
		cfg.StoryPointsField = DefaultStoryPointsField
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		email:       cfg.Email,
		token:       cfg.APIToken,
		pointsField: cfg.StoryPointsField,
		http:        httpClient,
	}, nil
}

// statusError is a non-2xx tracker response.
type statusError struct {
	Code int
	Path string
	Body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("tracker %s returned %d: %s", e.Path, e.Code, e.Body)
}

// get issues a GET and returns the raw JSON body.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.email != "" || c.token != "" {
		req.SetBasicAuth(c.email, c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := gjson.GetBytes(body, "errorMessages.0").String()
		if msg == "" {
			msg = strings.TrimSpace(string(body))
			if len(msg) > 200 {
				msg = msg[:200]
			}
		}
		return nil, &statusError{Code: resp.StatusCode, Path: path, Body: msg}
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("tracker %s returned invalid JSON", path)
	}
	return body, nil
}

func parseProject(r gjson.Result) Project {
	return Project{
		ID:   r.Get("id").String(),
		Key:  r.Get("key").String(),
		Name: r.Get("name").String(),
	}
}

// Project fetches a project by exact key or ID.
func (c *Client) Project(ctx context.Context, keyOrID string) (Project, error) {
	body, err := c.get(ctx, "/rest/api/2/project/"+url.PathEscape(keyOrID), nil)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) && se.Code == http.StatusNotFound {
			return Project{}, ErrProjectNotFound
		}
		return Project{}, err
	}
	return parseProject(gjson.ParseBytes(body)), nil
}

// Projects lists every project visible to the user.
func (c *Client) Projects(ctx context.Context) ([]Project, error) {
	body, err := c.get(ctx, "/rest/api/2/project", nil)
	if err != nil {
		return nil, err
	}
	var projects []Project
	gjson.ParseBytes(body).ForEach(func(_, v gjson.Result) bool {
		projects = append(projects, parseProject(v))
		return true
	})
	return projects, nil
}

// FindProject resolves a key, ID or name fragment. An exact key match wins;
// otherwise the first project whose name contains the fragment
// (case-insensitive) is returned.
func (c *Client) FindProject(ctx context.Context, idOrName string) (Project, error) {
	p, err := c.Project(ctx, idOrName)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrProjectNotFound) {
		return Project{}, err
	}

	projects, err := c.Projects(ctx)
	if err != nil {
		return Project{}, fmt.Errorf("list projects: %w", err)
	}
	needle := strings.ToLower(idOrName)
	for _, p := range projects {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			return p, nil
		}
	}
	return Project{}, ErrProjectNotFound
}

// ProjectSuggestions returns up to MaxSuggestions project names containing term.
func (c *Client) ProjectSuggestions(ctx context.Context, term string) ([]string, error) {
	projects, err := c.Projects(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(term)
	names := []string{}
	for _, p := range projects {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			names = append(names, p.Name)
			if len(names) == MaxSuggestions {
				break
			}
		}
	}
	return names, nil
}

// ActiveSprint returns the active sprint of the project's first board, or
// nil when the project has no board or no active sprint.
func (c *Client) ActiveSprint(ctx context.Context, projectKey string) (*Sprint, error) {
	body, err := c.get(ctx, "/rest/agile/1.0/board", url.Values{"projectKeyOrId": {projectKey}})
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	board := gjson.GetBytes(body, "values.0.id")
	if !board.Exists() {
		return nil, nil
	}

	body, err = c.get(ctx, "/rest/agile/1.0/board/"+board.String()+"/sprint", url.Values{"state": {"active"}})
	if err != nil {
		return nil, fmt.Errorf("list sprints: %w", err)
	}
	s := gjson.GetBytes(body, "values.0")
	if !s.Exists() {
		return nil, nil
	}
	return &Sprint{
		ID:        int(s.Get("id").Int()),
		Name:      s.Get("name").String(),
		State:     s.Get("state").String(),
		StartDate: s.Get("startDate").String(),
		EndDate:   s.Get("endDate").String(),
	}, nil
}

func (c *Client) searchFields() string {
	return strings.Join([]string{
		"summary", "status", "priority", "assignee", "created", "updated",
		"duedate", "labels", "timeoriginalestimate", "project", "description", c.pointsField,
	}, ",")
}

// SearchIssues runs a JQL query and returns up to MaxSearchResults issues.
func (c *Client) SearchIssues(ctx context.Context, jql string) ([]Issue, error) {
	body, err := c.get(ctx, "/rest/api/2/search", url.Values{
		"jql":        {jql},
		"maxResults": {strconv.Itoa(MaxSearchResults)},
		"fields":     {c.searchFields()},
	})
	if err != nil {
		return nil, fmt.Errorf("search issues: %w", err)
	}

	issues := []Issue{}
	gjson.GetBytes(body, "issues").ForEach(func(_, v gjson.Result) bool {
		issues = append(issues, c.parseIssue(v))
		return true
	})
	return issues, nil
}

func (c *Client) parseIssue(v gjson.Result) Issue {
	f := v.Get("fields")
	issue := Issue{
		Key:             v.Get("key").String(),
		Summary:         f.Get("summary").String(),
		Status:          f.Get("status.name").String(),
		Priority:        f.Get("priority.name").String(),
		Assignee:        f.Get("assignee.displayName").String(),
		Created:         f.Get("created").String(),
		Updated:         f.Get("updated").String(),
		DueDate:         f.Get("duedate").String(),
		StoryPoints:     f.Get(c.pointsField).Float(),
		EstimateSeconds: int(f.Get("timeoriginalestimate").Int()),
		Project:         f.Get("project.name").String(),
	}
	if d := f.Get("description"); d.Type == gjson.String {
		issue.Description = d.String()
	}
	f.Get("labels").ForEach(func(_, l gjson.Result) bool {
		issue.Labels = append(issue.Labels, l.String())
		return true
	})
	return issue
}

// ProjectIssues returns the issues of a project, limited to a sprint when
// sprintID is non-zero.
func (c *Client) ProjectIssues(ctx context.Context, projectKey string, sprintID int) ([]Issue, error) {
	jql := "project = " + quoteJQL(projectKey)
	if sprintID != 0 {
		jql += " AND sprint = " + strconv.Itoa(sprintID)
	}
	return c.SearchIssues(ctx, jql)
}

// quoteJQL quotes a JQL string literal.
func quoteJQL(s string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s) + `"`
}
