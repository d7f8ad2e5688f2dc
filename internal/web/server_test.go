package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/officeportal/portal/internal/auth"
	"github.com/officeportal/portal/internal/db"
	"github.com/officeportal/portal/internal/visitor"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() {
		if err := database.Close(); err != nil {
			t.Errorf("closing database: %v", err)
		}
	})

	srv, err := NewServer(database, auth.Config{
		DevMode: true,
		BaseURL: "http://localhost:8080",
	})
	if err != nil {
		t.Fatalf("creating server: %v", err)
	}

	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url, token string, body interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req, err := http.NewRequest("POST", url, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	return resp
}

func getJSON(t *testing.T, url, token string, result interface{}) *http.Response {
	t.Helper()
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	if err := resp.Body.Close(); err != nil {
		t.Errorf("closing body: %v", err)
	}
	return resp
}

// signupAndLogin creates an account and returns its session token.
func signupAndLogin(t *testing.T, ts *httptest.Server, email string) string {
	t.Helper()

	resp := postJSON(t, ts.URL+"/api/signup", "", map[string]string{
		"email":           email,
		"password":        "password1",
		"passwordConfirm": "password1",
		"contact":         "010-1234-5678",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup status = %d", resp.StatusCode)
	}
	if err := resp.Body.Close(); err != nil {
		t.Errorf("closing body: %v", err)
	}

	resp = postJSON(t, ts.URL+"/api/login", "", map[string]string{
		"email":    email,
		"password": "password1",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			t.Errorf("closing body: %v", err)
		}
	}()

	for _, ck := range resp.Cookies() {
		if ck.Name == auth.CookieName {
			return ck.Value
		}
	}
	t.Fatal("login did not set a session cookie")
	return ""
}

func testRegistration() visitor.Registration {
	return visitor.Registration{
		Department:     "Elice School",
		Name:           "Kim",
		Email:          "kim@example.com",
		Phone:          "010-1234-5678",
		VisitStartDate: "2099-06-10",
		VisitEndDate:   "2099-06-10",
		VisitTarget:    "Lee",
		VisitPurpose:   "Meeting",
	}
}

func TestHealthIsPublic(t *testing.T) {
	ts := newTestServer(t)

	resp := getJSON(t, ts.URL+"/health", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{
		"/api/mypage/profile",
		"/api/visitor/visitors",
	} {
		resp := getJSON(t, ts.URL+path, "", nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("%s status = %d, want 401", path, resp.StatusCode)
		}
	}
}

func TestSignupRejectsBadInput(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/signup", "", map[string]string{
		"email":           "kim@example.com",
		"password":        "password1",
		"passwordConfirm": "different1",
	})
	defer func() {
		if err := resp.Body.Close(); err != nil {
			t.Errorf("closing body: %v", err)
		}
	}()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] == "" {
		t.Error("expected an error message")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	ts := newTestServer(t)
	signupAndLogin(t, ts, "kim@example.com")

	resp := postJSON(t, ts.URL+"/api/login", "", map[string]string{
		"email":    "kim@example.com",
		"password": "wrongpassword",
	})
	defer func() {
		if err := resp.Body.Close(); err != nil {
			t.Errorf("closing body: %v", err)
		}
	}()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestLogoutEndsSession(t *testing.T) {
	ts := newTestServer(t)
	token := signupAndLogin(t, ts, "kim@example.com")

	resp := postJSON(t, ts.URL+"/api/logout", token, nil)
	if err := resp.Body.Close(); err != nil {
		t.Errorf("closing body: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout status = %d", resp.StatusCode)
	}

	resp = getJSON(t, ts.URL+"/api/mypage/profile", token, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status after logout = %d, want 401", resp.StatusCode)
	}
}

func TestProfileDefaults(t *testing.T) {
	ts := newTestServer(t)
	token := signupAndLogin(t, ts, "kim@example.com")

	var body struct {
		Profile struct {
			UserID       string `json:"userId"`
			ProfileImage string `json:"profileImage"`
		} `json:"profile"`
	}
	resp := getJSON(t, ts.URL+"/api/mypage/profile", token, &body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body.Profile.UserID != "kim@example.com" {
		t.Errorf("userId = %q", body.Profile.UserID)
	}
	if body.Profile.ProfileImage == "" {
		t.Error("expected a default profile image")
	}
}

func TestProfileImageUpdate(t *testing.T) {
	ts := newTestServer(t)
	token := signupAndLogin(t, ts, "kim@example.com")

	resp := postJSON(t, ts.URL+"/api/mypage/profile-image", token, map[string]string{
		"profileImage": "/uploads/me.png",
	})
	if err := resp.Body.Close(); err != nil {
		t.Errorf("closing body: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body struct {
		Profile struct {
			ProfileImage string `json:"profileImage"`
		} `json:"profile"`
	}
	getJSON(t, ts.URL+"/api/mypage/profile", token, &body)
	if body.Profile.ProfileImage != "/uploads/me.png" {
		t.Errorf("profileImage = %q", body.Profile.ProfileImage)
	}
}

func TestPasswordUpdate(t *testing.T) {
	ts := newTestServer(t)
	token := signupAndLogin(t, ts, "kim@example.com")

	resp := postJSON(t, ts.URL+"/api/mypage/password", token, map[string]string{
		"currentPassword": "wrongpassword",
		"newPassword":     "newpassword1",
	})
	if err := resp.Body.Close(); err != nil {
		t.Errorf("closing body: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for wrong current password", resp.StatusCode)
	}

	resp = postJSON(t, ts.URL+"/api/mypage/password", token, map[string]string{
		"currentPassword": "password1",
		"newPassword":     "newpassword1",
	})
	if err := resp.Body.Close(); err != nil {
		t.Errorf("closing body: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	resp = postJSON(t, ts.URL+"/api/login", "", map[string]string{
		"email":    "kim@example.com",
		"password": "newpassword1",
	})
	if err := resp.Body.Close(); err != nil {
		t.Errorf("closing body: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("login with new password status = %d", resp.StatusCode)
	}
}

func TestSelectDepartment(t *testing.T) {
	ts := newTestServer(t)
	token := signupAndLogin(t, ts, "kim@example.com")

	resp := postJSON(t, ts.URL+"/api/visitor/select-department", token, map[string]string{
		"department": "Elice School",
	})
	if err := resp.Body.Close(); err != nil {
		t.Errorf("closing body: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}

	resp = postJSON(t, ts.URL+"/api/visitor/select-department", token, map[string]string{
		"department": "Elice Nowhere",
	})
	if err := resp.Body.Close(); err != nil {
		t.Errorf("closing body: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for unknown department", resp.StatusCode)
	}
}

func TestRegistrationCreate(t *testing.T) {
	ts := newTestServer(t)
	token := signupAndLogin(t, ts, "kim@example.com")

	resp := postJSON(t, ts.URL+"/api/visitor/registration", token, testRegistration())
	defer func() {
		if err := resp.Body.Close(); err != nil {
			t.Errorf("closing body: %v", err)
		}
	}()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body struct {
		Visitor *visitor.Record `json:"visitor"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Visitor.ID == "" {
		t.Error("expected a generated id")
	}
	if body.Visitor.Status != visitor.StatusReceiving {
		t.Errorf("status = %s, want receiving", body.Visitor.Status)
	}
}

func TestRegistrationEdit(t *testing.T) {
	ts := newTestServer(t)
	token := signupAndLogin(t, ts, "kim@example.com")

	resp := postJSON(t, ts.URL+"/api/visitor/registration", token, testRegistration())
	var created struct {
		Visitor *visitor.Record `json:"visitor"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if err := resp.Body.Close(); err != nil {
		t.Errorf("closing body: %v", err)
	}

	edit := testRegistration()
	edit.ID = created.Visitor.ID
	edit.VisitPurpose = "Interview"

	resp = postJSON(t, ts.URL+"/api/visitor/registration", token, edit)
	defer func() {
		if err := resp.Body.Close(); err != nil {
			t.Errorf("closing body: %v", err)
		}
	}()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("edit status = %d", resp.StatusCode)
	}

	var updated struct {
		Visitor *visitor.Record `json:"visitor"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.Visitor.ID != created.Visitor.ID {
		t.Errorf("edit changed the id: %s vs %s", updated.Visitor.ID, created.Visitor.ID)
	}
	if updated.Visitor.VisitPurpose != "Interview" {
		t.Errorf("purpose = %q", updated.Visitor.VisitPurpose)
	}
}

func TestRegistrationEditUnknownID(t *testing.T) {
	ts := newTestServer(t)
	token := signupAndLogin(t, ts, "kim@example.com")

	edit := testRegistration()
	edit.ID = "no-such-record"

	resp := postJSON(t, ts.URL+"/api/visitor/registration", token, edit)
	if err := resp.Body.Close(); err != nil {
		t.Errorf("closing body: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestVisitorsListAndDetail(t *testing.T) {
	ts := newTestServer(t)
	token := signupAndLogin(t, ts, "kim@example.com")

	for i := 0; i < 2; i++ {
		reg := testRegistration()
		reg.VisitStartDate = fmt.Sprintf("2099-06-1%d", i)
		reg.VisitEndDate = reg.VisitStartDate
		resp := postJSON(t, ts.URL+"/api/visitor/registration", token, reg)
		if err := resp.Body.Close(); err != nil {
			t.Errorf("closing body: %v", err)
		}
	}

	var list struct {
		Visitors []*visitor.Record `json:"visitors"`
	}
	resp := getJSON(t, ts.URL+"/api/visitor/visitors", token, &list)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	if len(list.Visitors) != 2 {
		t.Fatalf("got %d visitors, want 2", len(list.Visitors))
	}

	var detail struct {
		Visitor *visitor.Record `json:"visitor"`
	}
	resp = getJSON(t, ts.URL+"/api/visitor/visitors/"+list.Visitors[0].ID, token, &detail)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("detail status = %d", resp.StatusCode)
	}
	if detail.Visitor.ID != list.Visitors[0].ID {
		t.Errorf("detail id = %q", detail.Visitor.ID)
	}
}

func TestVisitorsListEmpty(t *testing.T) {
	ts := newTestServer(t)
	token := signupAndLogin(t, ts, "kim@example.com")

	var list struct {
		Visitors []*visitor.Record `json:"visitors"`
	}
	resp := getJSON(t, ts.URL+"/api/visitor/visitors", token, &list)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if list.Visitors == nil {
		t.Error("expected an empty array, not null")
	}
}

func TestVisitorDetailScopedToOwner(t *testing.T) {
	ts := newTestServer(t)
	ownerToken := signupAndLogin(t, ts, "kim@example.com")
	otherToken := signupAndLogin(t, ts, "park@example.com")

	resp := postJSON(t, ts.URL+"/api/visitor/registration", ownerToken, testRegistration())
	var created struct {
		Visitor *visitor.Record `json:"visitor"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if err := resp.Body.Close(); err != nil {
		t.Errorf("closing body: %v", err)
	}

	resp = getJSON(t, ts.URL+"/api/visitor/visitors/"+created.Visitor.ID, otherToken, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for another user's record", resp.StatusCode)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t)
	token := signupAndLogin(t, ts, "kim@example.com")

	resp := postJSON(t, ts.URL+"/api/visitor/visitors", token, nil)
	if err := resp.Body.Close(); err != nil {
		t.Errorf("closing body: %v", err)
	}
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}
