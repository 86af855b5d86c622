// Package fakeapi serves an in-memory imitation of the Snyk project
// endpoints used by the collector. It backs the package tests.
package fakeapi

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/LerianStudio/snyk-gc-projects/constant"
	"github.com/LerianStudio/snyk-gc-projects/model"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// Request is a request received by the fake
type Request struct {
	Method        string
	Path          string
	Version       string
	Authorization string
	Query         url.Values
}

// Server is a fake Snyk API for a single organization.
type Server struct {
	URL string

	app   *fiber.App
	orgID string
	token string

	mu       sync.Mutex
	pageSize int
	projects []model.ProjectDetail
	deleted  []string
	requests []Request
	failures map[string]int
}

// New creates a fake that accepts requests for orgID authenticated with token
func New(orgID, token string) *Server {
	s := &Server{
		orgID:    orgID,
		token:    token,
		failures: make(map[string]int),
	}

	s.app = fiber.New(fiber.Config{DisableStartupMessage: true})
	s.app.Use(s.record, s.authenticate)
	s.app.Get("/rest/orgs/:org/projects", s.listProjects)
	s.app.Delete("/rest/orgs/:org/projects/:id", s.deleteProject)
	s.app.Get("/v1/org/:org/project/:id", s.getProject)

	return s
}

// Start listens on a random loopback port and serves in the background
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return err
	}

	s.URL = "http://" + ln.Addr().String()

	go func() {
		_ = s.app.Listener(ln)
	}()

	return nil
}

// Close stops the server
func (s *Server) Close() error {
	return s.app.Shutdown()
}

// AddProject registers a project. Listing order is registration order.
func (s *Server) AddProject(p model.ProjectDetail) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.projects = append(s.projects, p)
}

// SetPageSize makes the list endpoint paginate; 0 returns a single page
func (s *Server) SetPageSize(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pageSize = n
}

// FailList makes the list endpoint answer with status
func (s *Server) FailList(status int) {
	s.fail("list", status)
}

// FailDetail makes the detail endpoint answer with status for id
func (s *Server) FailDetail(id string, status int) {
	s.fail("detail:"+id, status)
}

// FailDelete makes the delete endpoint answer with status for id
func (s *Server) FailDelete(id string, status int) {
	s.fail("delete:"+id, status)
}

func (s *Server) fail(key string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failures[key] = status
}

// Deleted returns the IDs deleted so far, in order
func (s *Server) Deleted() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.deleted...)
}

// Requests returns every request received so far, in order
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Request(nil), s.requests...)
}

// CountRequests returns how many requests used method
func (s *Server) CountRequests(method string) int {
	n := 0

	for _, r := range s.Requests() {
		if r.Method == method {
			n++
		}
	}

	return n
}

func (s *Server) record(c *fiber.Ctx) error {
	query, _ := url.ParseQuery(string(c.Request().URI().QueryString()))

	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method:        utils.CopyString(c.Method()),
		Path:          utils.CopyString(c.Path()),
		Version:       utils.CopyString(c.Query(constant.VersionParam)),
		Authorization: utils.CopyString(c.Get(constant.AuthorizationHeader)),
		Query:         query,
	})
	s.mu.Unlock()

	return c.Next()
}

func (s *Server) authenticate(c *fiber.Ctx) error {
	if c.Get(constant.AuthorizationHeader) != constant.AuthorizationScheme+" "+s.token {
		return withError(c, apiError{
			Status:  fiber.StatusUnauthorized,
			Code:    "SNYK-0005",
			Title:   "Authentication error",
			Message: "Authentication credentials not recognized, or user access is not provisioned.",
		})
	}

	if _, err := time.Parse(constant.VersionLayout, c.Query(constant.VersionParam)); err != nil {
		return withError(c, apiError{
			Status:  fiber.StatusBadRequest,
			Code:    "SNYK-API-0001",
			Title:   "Invalid version",
			Message: fmt.Sprintf("version %q is not a valid API version", c.Query(constant.VersionParam)),
		})
	}

	return c.Next()
}

func (s *Server) orgNotFound(c *fiber.Ctx) error {
	return withError(c, apiError{
		Status:  fiber.StatusNotFound,
		Code:    "SNYK-0003",
		Title:   "Org not found",
		Message: "The requested organization does not exist.",
	})
}

func (s *Server) listProjects(c *fiber.Ctx) error {
	if c.Params("org") != s.orgID {
		return s.orgNotFound(c)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if status, ok := s.failures["list"]; ok {
		return withError(c, injectedFailure(status))
	}

	start := 0

	if after := c.Query(constant.StartingAfterParam); after != "" {
		for i, p := range s.projects {
			if p.ID == after {
				start = i + 1
				break
			}
		}
	}

	end := len(s.projects)
	if s.pageSize > 0 && start+s.pageSize < end {
		end = start + s.pageSize
	}

	page := model.ProjectList{Data: make([]model.ProjectSummary, 0, end-start)}

	for _, p := range s.projects[start:end] {
		page.Data = append(page.Data, model.ProjectSummary{
			ID:         p.ID,
			Type:       "project",
			Attributes: model.ProjectAttributes{Name: p.Name, Origin: p.Origin},
		})
	}

	if end < len(s.projects) {
		next := url.Values{}
		next.Set(constant.VersionParam, c.Query(constant.VersionParam))
		next.Set(constant.LimitParam, strconv.Itoa(s.pageSize))
		next.Set(constant.StartingAfterParam, s.projects[end-1].ID)
		page.Links.Next = "/orgs/" + s.orgID + "/projects?" + next.Encode()
	}

	return c.JSON(page)
}

func (s *Server) getProject(c *fiber.Ctx) error {
	if c.Params("org") != s.orgID {
		return s.orgNotFound(c)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := c.Params("id")

	if status, ok := s.failures["detail:"+id]; ok {
		return withError(c, injectedFailure(status))
	}

	if i := s.indexOf(id); i >= 0 {
		return c.JSON(s.projects[i])
	}

	return s.projectNotFound(c, id)
}

func (s *Server) deleteProject(c *fiber.Ctx) error {
	if c.Params("org") != s.orgID {
		return s.orgNotFound(c)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := utils.CopyString(c.Params("id"))

	if status, ok := s.failures["delete:"+id]; ok {
		return withError(c, injectedFailure(status))
	}

	i := s.indexOf(id)
	if i < 0 {
		return s.projectNotFound(c, id)
	}

	s.projects = append(s.projects[:i], s.projects[i+1:]...)
	s.deleted = append(s.deleted, id)

	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) indexOf(id string) int {
	for i, p := range s.projects {
		if p.ID == id {
			return i
		}
	}

	return -1
}

func (s *Server) projectNotFound(c *fiber.Ctx, id string) error {
	return withError(c, apiError{
		Status:  fiber.StatusNotFound,
		Code:    "SNYK-0003",
		Title:   "Project not found",
		Message: fmt.Sprintf("Project %s does not exist.", id),
	})
}
