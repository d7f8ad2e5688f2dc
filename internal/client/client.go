// Package client provides an HTTP client for the portal REST API.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/officeportal/portal/internal/auth"
	"github.com/officeportal/portal/internal/profile"
	"github.com/officeportal/portal/internal/visitor"
)

// Client is an HTTP client for the portal API. Authenticated calls send
// the session token as the server's session cookie.
type Client struct {
	baseURL      string
	sessionToken string
	httpClient   *http.Client
}

// New creates a new API client. The session token may be empty for
// calls that do not require a session (signup, login).
func New(baseURL, sessionToken string) *Client {
	return &Client{
		baseURL:      baseURL,
		sessionToken: sessionToken,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Signup creates a new account.
func (c *Client) Signup(email, password, passwordConfirm, contact string) error {
	body := map[string]string{
		"email":           email,
		"password":        password,
		"passwordConfirm": passwordConfirm,
		"contact":         contact,
	}
	return c.post("/api/signup", body, nil)
}

// Login authenticates with email and password and returns the session
// token issued by the server.
func (c *Client) Login(email, password string) (string, error) {
	data, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequest("POST", c.baseURL+"/api/login", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var token string
	err = c.doWith(req, nil, func(resp *http.Response) {
		for _, ck := range resp.Cookies() {
			if ck.Name == auth.CookieName {
				token = ck.Value
			}
		}
	})
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", fmt.Errorf("server did not issue a session")
	}
	return token, nil
}

// Logout ends the current session.
func (c *Client) Logout() error {
	return c.post("/api/logout", nil, nil)
}

// Profile returns the logged-in user's profile.
func (c *Client) Profile() (*profile.Profile, error) {
	var resp struct {
		Profile *profile.Profile `json:"profile"`
	}
	if err := c.get("/api/mypage/profile", &resp); err != nil {
		return nil, err
	}
	return resp.Profile, nil
}

// SetProfileImage updates the profile image path.
func (c *Client) SetProfileImage(image string) error {
	body := map[string]string{"profileImage": image}
	return c.post("/api/mypage/profile-image", body, nil)
}

// UpdatePassword changes the account password.
func (c *Client) UpdatePassword(current, updated string) error {
	body := map[string]string{"currentPassword": current, "newPassword": updated}
	return c.post("/api/mypage/password", body, nil)
}

// SelectDepartment records the department for the registration in
// progress.
func (c *Client) SelectDepartment(name string) error {
	body := map[string]string{"department": name}
	return c.post("/api/visitor/select-department", body, nil)
}

// SubmitRegistration sends a registration. A payload with an id edits
// that record; without one it creates a new record. It satisfies
// visitor.Submitter so the submission workflow can drive it directly.
func (c *Client) SubmitRegistration(reg visitor.Registration) error {
	return c.post("/api/visitor/registration", reg, nil)
}

// ListVisitors returns the logged-in user's registrations.
func (c *Client) ListVisitors() ([]*visitor.Record, error) {
	var resp struct {
		Visitors []*visitor.Record `json:"visitors"`
	}
	if err := c.get("/api/visitor/visitors", &resp); err != nil {
		return nil, err
	}
	return resp.Visitors, nil
}

// GetVisitor returns a single registration.
func (c *Client) GetVisitor(id string) (*visitor.Record, error) {
	var resp struct {
		Visitor *visitor.Record `json:"visitor"`
	}
	if err := c.get("/api/visitor/visitors/"+id, &resp); err != nil {
		return nil, err
	}
	return resp.Visitor, nil
}

// get performs a GET request and decodes the response.
func (c *Client) get(path string, result interface{}) error {
	req, err := http.NewRequest("GET", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, result)
}

// post performs a POST request with a JSON body and decodes the response.
func (c *Client) post(path string, body interface{}, result interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest("POST", c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, result)
}

// do executes an HTTP request with the session cookie and handles errors.
func (c *Client) do(req *http.Request, result interface{}) error {
	return c.doWith(req, result, nil)
}

func (c *Client) doWith(req *http.Request, result interface{}, inspect func(*http.Response)) error {
	if c.sessionToken != "" {
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: c.sessionToken})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			fmt.Printf("warning: closing response body: %v\n", cerr)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return fmt.Errorf("%s", errResp.Error)
		}
		return fmt.Errorf("server error: %s", http.StatusText(resp.StatusCode))
	}

	if inspect != nil {
		inspect(resp)
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
