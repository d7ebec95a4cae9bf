package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/amosley/joinboard/internal/auth"
	tu "github.com/amosley/joinboard/internal/testing"
)

// newTestServer spins up the full API over an in-memory database.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	db := tu.MustOpenDB(t)
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	api := NewAPI(db, issuer, APIOpts{Hasher: tu.PlainHasher{}})

	server := httptest.NewServer(api.Routes())
	t.Cleanup(server.Close)
	return server
}

// doJSON issues a request with an optional bearer token and decodes the JSON
// response into out when out is non-nil.
func doJSON(t *testing.T, method, url, token string, body any, out any) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
	}

	return resp
}

// signup registers a user and returns their token.
func signup(t *testing.T, server *httptest.Server, name, email string) string {
	t.Helper()

	var result struct {
		User  userDTO `json:"user"`
		Token string  `json:"token"`
	}
	resp := doJSON(t, http.MethodPost, server.URL+"/api/auth/signup", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": "secret",
	}, &result)

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup failed with status %d", resp.StatusCode)
	}
	if result.Token == "" {
		t.Fatal("expected token in signup response")
	}
	return result.Token
}

func TestAuthEndpoints(t *testing.T) {
	t.Run("SignupAndLogin", func(t *testing.T) {
		server := newTestServer(t)

		var created struct {
			User  userDTO `json:"user"`
			Token string  `json:"token"`
		}
		resp := doJSON(t, http.MethodPost, server.URL+"/api/auth/signup", "", map[string]string{
			"name":     "Max Muster",
			"email":    "Max@Example.com",
			"password": "secret",
		}, &created)

		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("expected 201, got %d", resp.StatusCode)
		}
		if created.User.Initials != "MM" {
			t.Errorf("expected derived initials, got %q", created.User.Initials)
		}
		if created.User.Email != "max@example.com" {
			t.Errorf("expected lowercased email, got %q", created.User.Email)
		}

		var loggedIn struct {
			User  userDTO `json:"user"`
			Token string  `json:"token"`
		}
		resp = doJSON(t, http.MethodPost, server.URL+"/api/auth/login", "", map[string]string{
			"email":    "max@example.com",
			"password": "secret",
		}, &loggedIn)

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		if loggedIn.User.ID != created.User.ID {
			t.Errorf("expected same user, got %s and %s", created.User.ID, loggedIn.User.ID)
		}
	})

	t.Run("DuplicateSignup", func(t *testing.T) {
		server := newTestServer(t)
		signup(t, server, "Max Muster", "max@example.com")

		resp := doJSON(t, http.MethodPost, server.URL+"/api/auth/signup", "", map[string]string{
			"name":     "Other",
			"email":    "max@example.com",
			"password": "secret",
		}, nil)
		if resp.StatusCode != http.StatusConflict {
			t.Errorf("expected 409, got %d", resp.StatusCode)
		}
	})

	t.Run("BadCredentials", func(t *testing.T) {
		server := newTestServer(t)
		signup(t, server, "Max Muster", "max@example.com")

		for _, body := range []map[string]string{
			{"email": "max@example.com", "password": "wrong"},
			{"email": "nobody@example.com", "password": "secret"},
		} {
			resp := doJSON(t, http.MethodPost, server.URL+"/api/auth/login", "", body, nil)
			if resp.StatusCode != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", resp.StatusCode)
			}
		}
	})

	t.Run("ProtectedRouteRequiresToken", func(t *testing.T) {
		server := newTestServer(t)

		resp := doJSON(t, http.MethodGet, server.URL+"/api/tasks", "", nil, nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected 401 without token, got %d", resp.StatusCode)
		}

		resp = doJSON(t, http.MethodGet, server.URL+"/api/tasks", "garbage", nil, nil)
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("expected 403 with bad token, got %d", resp.StatusCode)
		}
	})
}

func TestContactEndpoints(t *testing.T) {
	server := newTestServer(t)
	token := signup(t, server, "Max Muster", "max@example.com")

	var contact contactDTO
	resp := doJSON(t, http.MethodPost, server.URL+"/api/contacts", token, map[string]string{
		"name":  "Anna Schmidt",
		"email": "anna@example.com",
		"phone": "+49 111 222",
		"color": "#FF7A00",
	}, &contact)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if contact.Initials != "AS" {
		t.Errorf("expected derived initials, got %q", contact.Initials)
	}

	var contacts []contactDTO
	resp = doJSON(t, http.MethodGet, server.URL+"/api/contacts", token, nil, &contacts)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if len(contacts) != 1 {
		t.Fatalf("expected 1 contact, got %d", len(contacts))
	}

	var updated contactDTO
	resp = doJSON(t, http.MethodPut, fmt.Sprintf("%s/api/contacts/%s", server.URL, contact.ID), token, map[string]string{
		"name": "Anna Berger",
	}, &updated)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if updated.Initials != "AB" {
		t.Errorf("expected recomputed initials, got %q", updated.Initials)
	}

	// Another user cannot see or touch this contact.
	otherToken := signup(t, server, "Ada Lovelace", "ada@example.com")
	var otherContacts []contactDTO
	doJSON(t, http.MethodGet, server.URL+"/api/contacts", otherToken, nil, &otherContacts)
	if len(otherContacts) != 0 {
		t.Errorf("expected other user to see 0 contacts, got %d", len(otherContacts))
	}

	resp = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/contacts/%s", server.URL, contact.ID), otherToken, nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for foreign contact, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/contacts/%s", server.URL, contact.ID), token, nil, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("expected 204, got %d", resp.StatusCode)
	}
}

func TestTaskEndpoints(t *testing.T) {
	server := newTestServer(t)
	token := signup(t, server, "Max Muster", "max@example.com")

	var contact contactDTO
	doJSON(t, http.MethodPost, server.URL+"/api/contacts", token, map[string]string{"name": "Anna Schmidt"}, &contact)

	var task taskDTO
	resp := doJSON(t, http.MethodPost, server.URL+"/api/tasks", token, map[string]any{
		"title":    "Ship release",
		"priority": "high",
		"status":   "in_progress",
		"due_date": "2026-10-01",
		"subtasks": []map[string]any{
			{"title": "Write changelog", "is_completed": true},
			{"title": "Tag version"},
		},
		"assigned_contacts": []string{contact.ID},
	}, &task)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if len(task.Subtasks) != 2 {
		t.Errorf("expected 2 subtasks, got %d", len(task.Subtasks))
	}
	if len(task.Assigned) != 1 {
		t.Errorf("expected 1 assigned contact, got %d", len(task.Assigned))
	}

	t.Run("ListAndFilter", func(t *testing.T) {
		var tasks []taskDTO
		resp := doJSON(t, http.MethodGet, server.URL+"/api/tasks?status=in_progress", token, nil, &tasks)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		if len(tasks) != 1 {
			t.Errorf("expected 1 in-progress task, got %d", len(tasks))
		}

		resp = doJSON(t, http.MethodGet, server.URL+"/api/tasks?status=archived", token, nil, nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400 for bad status filter, got %d", resp.StatusCode)
		}
	})

	t.Run("StatusPatch", func(t *testing.T) {
		resp := doJSON(t, http.MethodPatch, fmt.Sprintf("%s/api/tasks/%s/status", server.URL, task.ID), token, map[string]string{
			"status": "done",
		}, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}

		var moved taskDTO
		doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/tasks/%s", server.URL, task.ID), token, nil, &moved)
		if moved.Status != "done" {
			t.Errorf("expected done, got %q", moved.Status)
		}

		resp = doJSON(t, http.MethodPatch, fmt.Sprintf("%s/api/tasks/%s/status", server.URL, task.ID), token, map[string]string{
			"status": "archived",
		}, nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400 for bad status, got %d", resp.StatusCode)
		}
	})

	t.Run("OwnershipIsolation", func(t *testing.T) {
		otherToken := signup(t, server, "Ada Lovelace", "ada@example.com")

		resp := doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/tasks/%s", server.URL, task.ID), otherToken, nil, nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404 for foreign task, got %d", resp.StatusCode)
		}

		var tasks []taskDTO
		doJSON(t, http.MethodGet, server.URL+"/api/tasks", otherToken, nil, &tasks)
		if len(tasks) != 0 {
			t.Errorf("expected other user to see 0 tasks, got %d", len(tasks))
		}
	})

	t.Run("Delete", func(t *testing.T) {
		resp := doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/tasks/%s", server.URL, task.ID), token, nil, nil)
		if resp.StatusCode != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", resp.StatusCode)
		}

		resp = doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/tasks/%s", server.URL, task.ID), token, nil, nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404 after delete, got %d", resp.StatusCode)
		}
	})
}

func TestSummaryEndpoint(t *testing.T) {
	server := newTestServer(t)
	token := signup(t, server, "Max Muster", "max@example.com")

	for _, body := range []map[string]any{
		{"title": "A", "status": "todo", "priority": "high", "due_date": "2026-10-01"},
		{"title": "B", "status": "in_progress"},
		{"title": "C", "status": "done", "priority": "high"},
	} {
		resp := doJSON(t, http.MethodPost, server.URL+"/api/tasks", token, body, nil)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("failed to seed task: status %d", resp.StatusCode)
		}
	}

	var metrics struct {
		TodoCount         int    `json:"todo_count"`
		InProgressCount   int    `json:"in_progress_count"`
		DoneCount         int    `json:"done_count"`
		HighPriorityCount int    `json:"high_priority_count"`
		TotalTasks        int    `json:"total_tasks"`
		UrgentDeadline    string `json:"urgent_deadline"`
	}
	resp := doJSON(t, http.MethodGet, server.URL+"/api/summary/metrics", token, nil, &metrics)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	if metrics.TotalTasks != 3 {
		t.Errorf("expected 3 tasks, got %d", metrics.TotalTasks)
	}
	if metrics.TodoCount != 1 || metrics.InProgressCount != 1 || metrics.DoneCount != 1 {
		t.Errorf("unexpected counts: %+v", metrics)
	}
	if metrics.HighPriorityCount != 2 {
		t.Errorf("expected 2 high-priority tasks, got %d", metrics.HighPriorityCount)
	}
	if metrics.UrgentDeadline != "2026-10-01" {
		t.Errorf("expected urgent deadline, got %q", metrics.UrgentDeadline)
	}
}

func TestCORSPreflight(t *testing.T) {
	server := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, server.URL+"/api/contacts", nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Origin", "http://localhost:8080")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", resp.StatusCode)
	}
	if origin := resp.Header.Get("Access-Control-Allow-Origin"); origin != "*" {
		t.Errorf("expected wildcard allow-origin, got %q", origin)
	}
	if methods := resp.Header.Get("Access-Control-Allow-Methods"); !strings.Contains(methods, http.MethodPost) {
		t.Errorf("expected POST in allowed methods, got %q", methods)
	}
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(t)

	var body map[string]string
	resp := doJSON(t, http.MethodGet, server.URL+"/api/health", "", nil, &body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if body["status"] != "ok" {
		t.Errorf("expected ok, got %q", body["status"])
	}
}
