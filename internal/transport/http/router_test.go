package httptransport

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	audithandler "modqueue/internal/audit/handler"
	auditstore "modqueue/internal/audit/store"
	"modqueue/internal/auth"
	listinghandler "modqueue/internal/listing/handler"
	"modqueue/internal/listing/service"
	liststore "modqueue/internal/listing/store"
)

// RouterSuite exercises the full HTTP surface end to end against in-memory
// stores: login, auth enforcement, and the moderation endpoints.
type RouterSuite struct {
	suite.Suite
	server *httptest.Server
	token  string
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	users := auth.NewUserStore()
	s.Require().NoError(users.Add(auth.User{
		ID:    1,
		Email: "admin@example.com",
		Name:  "Admin User",
		Role:  "admin",
	}, "password123"))
	tokens := auth.NewTokenManager("test-signing-key", time.Hour)

	svc := service.New(liststore.NewInMemory(), auditstore.NewInMemory())

	s.server = httptest.NewServer(NewRouter(Deps{
		Logger:    logger,
		Validator: tokens,
		Auth:      auth.NewHandler(users, tokens, logger),
		Listings:  listinghandler.New(svc, logger),
		Audit:     audithandler.New(svc, logger),
	}))
	s.T().Cleanup(s.server.Close)

	s.token = s.login("admin@example.com", "password123")
}

func (s *RouterSuite) login(email, password string) string {
	status, body := s.request(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, "")
	s.Require().Equal(http.StatusOK, status, string(body))

	var resp struct {
		Token string `json:"token"`
	}
	s.Require().NoError(json.Unmarshal(body, &resp))
	s.Require().NotEmpty(resp.Token)
	return resp.Token
}

// request performs a JSON round trip; an empty token sends no Authorization
// header.
func (s *RouterSuite) request(method, path string, payload any, token string) (int, []byte) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		s.Require().NoError(err)
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, s.server.URL+path, body)
	s.Require().NoError(err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.server.Client().Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return resp.StatusCode, raw
}

func (s *RouterSuite) createListing(title string) int {
	status, body := s.request(http.MethodPost, "/api/listings", map[string]any{
		"title":       title,
		"description": "test description",
		"location":    "Test Town",
		"price":       150,
	}, s.token)
	s.Require().Equal(http.StatusCreated, status, string(body))

	var listing struct {
		ID int `json:"id"`
	}
	s.Require().NoError(json.Unmarshal(body, &listing))
	return listing.ID
}

func (s *RouterSuite) TestHealthzIsPublic() {
	status, body := s.request(http.MethodGet, "/healthz", nil, "")
	s.Equal(http.StatusOK, status)
	s.JSONEq(`{"status":"ok"}`, string(body))
}

func (s *RouterSuite) TestLoginRejectsBadCredentials() {
	status, body := s.request(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "admin@example.com",
		"password": "wrong",
	}, "")
	s.Equal(http.StatusUnauthorized, status)
	s.Contains(string(body), "unauthorized")
}

func (s *RouterSuite) TestModerationAPIRequiresToken() {
	status, _ := s.request(http.MethodGet, "/api/listings", nil, "")
	s.Equal(http.StatusUnauthorized, status)

	status, _ = s.request(http.MethodGet, "/api/audit", nil, "garbage-token")
	s.Equal(http.StatusUnauthorized, status)
}

func (s *RouterSuite) TestListEnvelope() {
	s.createListing("Cozy studio downtown")
	s.createListing("Family house")

	status, body := s.request(http.MethodGet, "/api/listings?search=downtown", nil, s.token)
	s.Require().Equal(http.StatusOK, status)

	var resp struct {
		Listings []struct {
			Title  string `json:"title"`
			Status string `json:"status"`
		} `json:"listings"`
		Pagination struct {
			CurrentPage  int `json:"currentPage"`
			TotalPages   int `json:"totalPages"`
			TotalItems   int `json:"totalItems"`
			ItemsPerPage int `json:"itemsPerPage"`
		} `json:"pagination"`
		Stats struct {
			Pending int `json:"pending"`
		} `json:"stats"`
	}
	s.Require().NoError(json.Unmarshal(body, &resp))
	s.Require().Len(resp.Listings, 1)
	s.Equal("Cozy studio downtown", resp.Listings[0].Title)
	s.Equal("pending", resp.Listings[0].Status)
	s.Equal(1, resp.Pagination.CurrentPage)
	s.Equal(1, resp.Pagination.TotalItems)
	s.Equal(10, resp.Pagination.ItemsPerPage)
	s.Equal(1, resp.Stats.Pending)
}

func (s *RouterSuite) TestEditListing() {
	id := s.createListing("Before")

	status, body := s.request(http.MethodPut, "/api/listings/"+strconv.Itoa(id), map[string]any{
		"title":     "After",
		"adminUser": "Jane Reviewer",
	}, s.token)
	s.Require().Equal(http.StatusOK, status, string(body))

	var listing struct {
		Title string `json:"title"`
	}
	s.Require().NoError(json.Unmarshal(body, &listing))
	s.Equal("After", listing.Title)

	// The edit lands in the audit trail with the body's identity.
	status, body = s.request(http.MethodGet, "/api/audit", nil, s.token)
	s.Require().Equal(http.StatusOK, status)
	var trail struct {
		Logs []struct {
			Action    string `json:"action"`
			AdminUser string `json:"adminUser"`
		} `json:"logs"`
	}
	s.Require().NoError(json.Unmarshal(body, &trail))
	s.Require().Len(trail.Logs, 1)
	s.Equal("updated", trail.Logs[0].Action)
	s.Equal("Jane Reviewer", trail.Logs[0].AdminUser)
}

func (s *RouterSuite) TestChangeStatusFallsBackToTokenIdentity() {
	id := s.createListing("Pending work")

	status, body := s.request(http.MethodPatch, "/api/listings/"+strconv.Itoa(id), map[string]any{
		"status": "approved",
	}, s.token)
	s.Require().Equal(http.StatusOK, status, string(body))

	var listing struct {
		Status string `json:"status"`
	}
	s.Require().NoError(json.Unmarshal(body, &listing))
	s.Equal("approved", listing.Status)

	status, body = s.request(http.MethodGet, "/api/audit", nil, s.token)
	s.Require().Equal(http.StatusOK, status)
	var trail struct {
		Logs []struct {
			AdminUser string `json:"adminUser"`
			OldStatus string `json:"oldStatus"`
			NewStatus string `json:"newStatus"`
		} `json:"logs"`
	}
	s.Require().NoError(json.Unmarshal(body, &trail))
	s.Require().Len(trail.Logs, 1)
	s.Equal("Admin User", trail.Logs[0].AdminUser)
	s.Equal("pending", trail.Logs[0].OldStatus)
	s.Equal("approved", trail.Logs[0].NewStatus)
}

func (s *RouterSuite) TestErrorShapes() {
	status, body := s.request(http.MethodGet, "/api/listings/999", nil, s.token)
	s.Equal(http.StatusNotFound, status)
	s.Contains(string(body), "not_found")

	status, body = s.request(http.MethodGet, "/api/listings/abc", nil, s.token)
	s.Equal(http.StatusBadRequest, status)
	s.Contains(string(body), "bad_request")

	id := s.createListing("Valid")
	status, body = s.request(http.MethodPatch, "/api/listings/"+strconv.Itoa(id), map[string]any{}, s.token)
	s.Equal(http.StatusBadRequest, status)
	s.Contains(string(body), "status is required")
}

func (s *RouterSuite) TestNonJSONBodyRejected() {
	req, err := http.NewRequest(http.MethodPost, s.server.URL+"/api/listings", bytes.NewReader([]byte("title=x")))
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.server.Client().Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusUnsupportedMediaType, resp.StatusCode)
}

