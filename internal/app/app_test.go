package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinda/internal/config"
	"cinda/internal/domain/course"
	"cinda/internal/domain/opportunity"
	"cinda/internal/infrastructure/persistence/memory"
)

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t     *testing.T
	app   *App
	store *memory.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := config.Config{
		App: config.AppConfig{AppName: "cinda-test", Environment: "test", HTTPPort: "0", CORSOrigin: "http://localhost:3000"},
		JWT: config.JWTConfig{
			AccessSecret:     "access-secret",
			RefreshSecret:    "refresh-secret",
			AccessExpiresIn:  time.Hour,
			RefreshExpiresIn: 24 * time.Hour,
		},
		Session: config.SessionConfig{IdleTimeout: time.Hour},
		Queue:   config.QueueConfig{Shards: 2, Buffer: 8},
	}
	store := memory.NewStore()
	c := NewContainerWithRepos(cfg, Repositories{
		Users:         store.Users,
		Courses:       store.Courses,
		Opportunities: store.Opportunities,
		Mentorships:   store.Mentorships,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { _ = c.Close() })

	return &testServer{t: t, app: New(c), store: store}
}

func (s *testServer) do(method, path string, body any, headers map[string]string) (*http.Response, envelope) {
	s.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(s.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.app.Fiber.Test(req, fiber.TestConfig{Timeout: 10 * time.Second})
	require.NoError(s.t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	_ = resp.Body.Close()

	var env envelope
	if len(raw) > 0 {
		require.NoError(s.t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp, env
}

type authData struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	User         struct {
		ID       string `json:"id"`
		UserType string `json:"userType"`
	} `json:"user"`
}

func (s *testServer) register(name, email, role string) (authData, *http.Response) {
	s.t.Helper()
	resp, env := s.do(http.MethodPost, "/api/auth/register", map[string]string{
		"name": name, "email": email, "password": "secret123", "userType": role,
	}, nil)
	require.Equal(s.t, http.StatusCreated, resp.StatusCode, env.Message)
	var out authData
	require.NoError(s.t, json.Unmarshal(env.Data, &out))
	return out, resp
}

func bearer(token string) map[string]string {
	return map[string]string{fiber.HeaderAuthorization: "Bearer " + token}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	resp, err := s.app.Fiber.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "OK", body["status"])
	assert.Equal(t, "CI-NDA API is running", body["message"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)

	reg, _ := s.register("Ana", "ana@example.com", "filmmaker")
	assert.NotEmpty(t, reg.Token)
	assert.NotEmpty(t, reg.RefreshToken)
	assert.Equal(t, "filmmaker", reg.User.UserType)

	resp, env := s.do(http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Ana 2", "email": "ANA@example.com", "password": "secret123", "userType": "mentor",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "User already exists", env.Message)

	resp, env = s.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email": "ana@example.com", "password": "wrong-password",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid credentials", env.Message)

	resp, env = s.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email": "nobody@example.com", "password": "wrong-password",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid credentials", env.Message)

	resp, env = s.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email": "ana@example.com", "password": "secret123",
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login authData
	require.NoError(t, json.Unmarshal(env.Data, &login))
	assert.Equal(t, reg.User.ID, login.User.ID)
}

func TestRegisterValidation(t *testing.T) {
	s := newTestServer(t)

	resp, env := s.do(http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Ana", "email": "not-an-email", "password": "123", "userType": "producer",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Validation failed", env.Message)

	var fields map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &fields))
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
	assert.Contains(t, fields, "userType")
}

func TestProfileRequiresAuth(t *testing.T) {
	s := newTestServer(t)

	resp, env := s.do(http.MethodGet, "/api/users/profile", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "No token, authorization denied", env.Message)

	resp, env = s.do(http.MethodGet, "/api/users/profile", nil, bearer("bogus"))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Token is not valid", env.Message)

	reg, _ := s.register("Ana", "ana@example.com", "filmmaker")
	resp, env = s.do(http.MethodGet, "/api/users/profile", nil, bearer(reg.RefreshToken))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, env.Message)

	resp, _ = s.do(http.MethodGet, "/api/users/profile", nil, bearer(reg.Token))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Deprecation"))
}

func TestCookieSessionIsDeprecated(t *testing.T) {
	s := newTestServer(t)

	_, resp := s.register("Ana", "ana@example.com", "filmmaker")
	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "session_id" {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	resp, _ = s.do(http.MethodGet, "/api/users/profile", nil, map[string]string{"Cookie": cookie.Name + "=" + cookie.Value})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "true", resp.Header.Get("Deprecation"))
	assert.NotEmpty(t, resp.Header.Get("Warning"))
}

func TestUpdateProfile(t *testing.T) {
	s := newTestServer(t)
	reg, _ := s.register("Ana", "ana@example.com", "filmmaker")

	resp, env := s.do(http.MethodPut, "/api/users/profile", map[string]any{}, bearer(reg.Token))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "No valid fields to update", env.Message)

	resp, env = s.do(http.MethodPut, "/api/users/profile", map[string]any{
		"bio": "Editor", "specialization": []string{"editing", "color"}, "email": "ignored@example.com",
	}, bearer(reg.Token))
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)

	var prof struct {
		Email          string   `json:"email"`
		Bio            string   `json:"bio"`
		Specialization []string `json:"specialization"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &prof))
	assert.Equal(t, "ana@example.com", prof.Email)
	assert.Equal(t, "Editor", prof.Bio)
	assert.Equal(t, []string{"editing", "color"}, prof.Specialization)
}

func TestEnrollFlow(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.store.Courses.Create(context.Background(), &course.Course{
		ID: "c1", Title: "Editing", Category: course.CategoryEditing, Level: course.LevelBeginner, CreatedAt: time.Now(),
	}))
	reg, _ := s.register("Ana", "ana@example.com", "filmmaker")

	resp, env := s.do(http.MethodGet, "/api/courses?category=EDITING", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, 1, list.Total)

	resp, env = s.do(http.MethodGet, "/api/courses/c1", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var detail map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.JSONEq(t, `[]`, string(detail["enrolledStudents"]))
	assert.JSONEq(t, `[]`, string(detail["lessons"]))

	resp, _ = s.do(http.MethodPost, "/api/courses/c1/enroll", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = s.do(http.MethodPost, "/api/courses/c1/enroll", nil, bearer(reg.Token))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, env = s.do(http.MethodPost, "/api/courses/c1/enroll", nil, bearer(reg.Token))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Already enrolled in this course", env.Message)

	resp, env = s.do(http.MethodPost, "/api/courses/missing/enroll", nil, bearer(reg.Token))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Course not found", env.Message)

	resp, env = s.do(http.MethodGet, "/api/users/profile", nil, bearer(reg.Token))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var prof struct {
		EnrolledCourses []string `json:"enrolledCourses"`
		Stats           struct {
			EnrolledCourses int `json:"enrolledCourses"`
		} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &prof))
	assert.Equal(t, []string{"c1"}, prof.EnrolledCourses)
	assert.Equal(t, 1, prof.Stats.EnrolledCourses)
}

func TestApplyAndReviewFlow(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.store.Opportunities.Create(context.Background(), &opportunity.Opportunity{
		ID: "o1", Type: opportunity.TypeGrant, Title: "Grant", Company: "Fund",
		Deadline: time.Now().Add(48 * time.Hour), IsActive: true, CreatedAt: time.Now(),
	}))
	applicant, _ := s.register("Ana", "ana@example.com", "filmmaker")
	sponsor, _ := s.register("Sam", "sam@example.com", "sponsor")

	resp, _ := s.do(http.MethodPost, "/api/opportunities/o1/apply", map[string]string{"coverLetter": "hi"}, bearer(applicant.Token))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, env := s.do(http.MethodPost, "/api/opportunities/o1/apply", map[string]string{"coverLetter": "hi"}, bearer(applicant.Token))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Already applied to this opportunity", env.Message)

	path := "/api/opportunities/o1/applications/" + applicant.User.ID
	resp, _ = s.do(http.MethodPatch, path, map[string]string{"status": "accepted"}, bearer(applicant.Token))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = s.do(http.MethodPatch, path, map[string]string{"status": "accepted"}, bearer(sponsor.Token))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, env = s.do(http.MethodPatch, path, map[string]string{"status": "rejected"}, bearer(sponsor.Token))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	var conflict map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &conflict))
	assert.Equal(t, "accepted", conflict["from"])
	assert.Equal(t, "rejected", conflict["to"])
}

func TestMentorshipFlow(t *testing.T) {
	s := newTestServer(t)
	mentor, _ := s.register("Mia", "mia@example.com", "mentor")
	mentee, _ := s.register("Ana", "ana@example.com", "filmmaker")
	outsider, _ := s.register("Olu", "olu@example.com", "filmmaker")

	resp, env := s.do(http.MethodPost, "/api/mentorships", map[string]any{
		"mentorId": mentor.User.ID, "specialties": []string{"editing"}, "yearsExperience": 7,
	}, bearer(mentee.Token))
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)
	var m struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &m))
	assert.Equal(t, "pending", m.Status)

	base := "/api/mentorships/" + m.ID

	resp, _ = s.do(http.MethodGet, base, nil, bearer(outsider.Token))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, env = s.do(http.MethodPatch, base+"/status", map[string]string{"status": "completed"}, bearer(mentor.Token))
	assert.Equal(t, http.StatusConflict, resp.StatusCode, env.Message)

	resp, _ = s.do(http.MethodPatch, base+"/status", map[string]string{"status": "active"}, bearer(mentee.Token))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = s.do(http.MethodPatch, base+"/status", map[string]string{"status": "active"}, bearer(mentor.Token))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, env = s.do(http.MethodPost, base+"/sessions", map[string]any{
		"title": "First review", "scheduledDate": time.Now().Add(24 * time.Hour).Format(time.RFC3339), "duration": 45,
	}, bearer(mentee.Token))
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)

	resp, _ = s.do(http.MethodPost, base+"/sessions/0/complete", map[string]string{"feedback": "good"}, bearer(mentee.Token))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = s.do(http.MethodPost, base+"/sessions/0/complete", map[string]string{"feedback": "good"}, bearer(mentor.Token))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = s.do(http.MethodPost, base+"/sessions/x/complete", nil, bearer(mentor.Token))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = s.do(http.MethodPost, base+"/messages", map[string]string{"content": "thanks"}, bearer(mentee.Token))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, env = s.do(http.MethodGet, "/api/mentorships", nil, bearer(mentor.Token))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list struct {
		Total       int `json:"total"`
		Mentorships []struct {
			Mentee     string `json:"mentee"`
			MenteeInfo *struct {
				Name  string `json:"name"`
				Email string `json:"email"`
			} `json:"menteeInfo"`
			MentorInfo *struct{} `json:"mentorInfo"`
		} `json:"mentorships"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, 1, list.Total)
	require.Len(t, list.Mentorships, 1)
	assert.Equal(t, mentee.User.ID, list.Mentorships[0].Mentee)
	require.NotNil(t, list.Mentorships[0].MenteeInfo)
	assert.Equal(t, "Ana", list.Mentorships[0].MenteeInfo.Name)
	assert.Equal(t, "ana@example.com", list.Mentorships[0].MenteeInfo.Email)
	assert.Nil(t, list.Mentorships[0].MentorInfo)
}

func TestMentorshipSocketRequiresToken(t *testing.T) {
	s := newTestServer(t)
	resp, _ := s.do(http.MethodGet, "/api/mentorships/m1/ws", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMentorshipSocketReceivesMessages(t *testing.T) {
	s := newTestServer(t)
	mentor, _ := s.register("Mia", "mia@example.com", "mentor")
	mentee, _ := s.register("Ana", "ana@example.com", "filmmaker")

	resp, env := s.do(http.MethodPost, "/api/mentorships", map[string]any{"mentorId": mentor.User.ID}, bearer(mentee.Token))
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)
	var m struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &m))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() {
		_ = s.app.Fiber.Listener(ln, fiber.ListenConfig{DisableStartupMessage: true})
	}()
	t.Cleanup(func() { _ = s.app.Fiber.ShutdownWithTimeout(time.Second) })

	url := "ws://" + ln.Addr().String() + "/api/mentorships/" + m.ID + "/ws?token=" + mentor.Token
	conn, wsResp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, wsResp.StatusCode)

	require.Eventually(t, func() bool {
		return s.app.Container.Hub.ClientCount(m.ID) == 1
	}, 2*time.Second, 10*time.Millisecond)

	resp, _ = s.do(http.MethodPost, "/api/mentorships/"+m.ID+"/messages", map[string]string{"content": "rough cut is up"}, bearer(mentee.Token))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var ev struct {
		Type         string `json:"type"`
		MentorshipID string `json:"mentorshipId"`
		Message      struct {
			Sender  string `json:"sender"`
			Content string `json:"content"`
		} `json:"message"`
	}
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "mentorship_message", ev.Type)
	assert.Equal(t, m.ID, ev.MentorshipID)
	assert.Equal(t, mentee.User.ID, ev.Message.Sender)
	assert.Equal(t, "rough cut is up", ev.Message.Content)
}

func TestSearch(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.store.Courses.Create(context.Background(), &course.Course{
		ID: "c1", Title: "Cinematography Fundamentals", Category: course.CategoryCinematography,
		Level: course.LevelBeginner, CreatedAt: time.Now(),
	}))

	resp, env := s.do(http.MethodGet, "/api/search", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Search query is required", env.Message)

	resp, _ = s.do(http.MethodGet, "/api/search?q=film&limit=abc", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, env = s.do(http.MethodGet, "/api/search?q=dop&category=courses", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(env.Data), "Cinematography Fundamentals")
}

func TestRefreshEndpoint(t *testing.T) {
	s := newTestServer(t)
	reg, _ := s.register("Ana", "ana@example.com", "filmmaker")

	resp, env := s.do(http.MethodPost, "/api/auth/refresh", map[string]string{"refreshToken": reg.RefreshToken}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)
	var tok struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &tok))
	assert.NotEmpty(t, tok.Token)

	resp, _ = s.do(http.MethodPost, "/api/auth/refresh", map[string]string{"refreshToken": reg.Token}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestListenAddr(t *testing.T) {
	addr, err := ListenAddr("5000")
	require.NoError(t, err)
	assert.Equal(t, ":5000", addr)

	addr, err = ListenAddr(":8080")
	require.NoError(t, err)
	assert.Equal(t, ":8080", addr)

	_, err = ListenAddr(" ")
	assert.Error(t, err)
}
