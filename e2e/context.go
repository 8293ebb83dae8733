package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	defaultBaseURL = "http://localhost:8080"

	// defaultSigningKey matches the server's development default. Override
	// with ALMONER_E2E_JWT_KEY when testing against a real deployment.
	defaultSigningKey = "dev-secret-key-change-in-production"
)

// TestContext drives the ledger API over HTTP and carries state between
// steps: the last response, the current caller identity, and the centers
// (with their capability tokens) created by earlier steps.
type TestContext struct {
	baseURL    string
	client     *http.Client
	signingKey []byte

	bearer string

	lastStatus int
	lastBody   []byte
	lastJSON   map[string]interface{}

	centers map[string]savedCenter
}

// savedCenter remembers what center creation returned. The capability token
// is only ever disclosed at creation time, so losing it here means the
// scenario cannot move funds.
type savedCenter struct {
	id    string
	token string
}

// NewTestContext creates a fresh context for one scenario.
func NewTestContext() *TestContext {
	baseURL := os.Getenv("ALMONER_E2E_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	signingKey := os.Getenv("ALMONER_E2E_JWT_KEY")
	if signingKey == "" {
		signingKey = defaultSigningKey
	}
	return &TestContext{
		baseURL:    strings.TrimRight(baseURL, "/"),
		client:     &http.Client{Timeout: 10 * time.Second},
		signingKey: []byte(signingKey),
		centers:    make(map[string]savedCenter),
	}
}

// POST sends a JSON request without extra headers.
func (tc *TestContext) POST(path string, body interface{}) error {
	return tc.POSTWithHeaders(path, body, nil)
}

// POSTWithHeaders sends a JSON request with additional headers, e.g. the
// X-Capability-Token header that authorizes transfers and withdrawals.
func (tc *TestContext) POSTWithHeaders(path string, body interface{}, headers map[string]string) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request body: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, tc.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return tc.do(req)
}

// GET sends a GET request with optional headers.
func (tc *TestContext) GET(path string, headers map[string]string) error {
	req, err := http.NewRequest(http.MethodGet, tc.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return tc.do(req)
}

func (tc *TestContext) do(req *http.Request) error {
	if tc.bearer != "" && req.Header.Get("Authorization") == "" {
		req.Header.Set("Authorization", "Bearer "+tc.bearer)
	}

	resp, err := tc.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	tc.lastStatus = resp.StatusCode
	tc.lastBody = body
	tc.lastJSON = nil
	if len(body) > 0 {
		var parsed map[string]interface{}
		if err := json.Unmarshal(body, &parsed); err == nil {
			tc.lastJSON = parsed
		}
	}
	return nil
}

// ActAsDonor signs a short-lived identity token for the named donor and
// attaches it to subsequent requests. The server reads the donor from the
// token subject; it never grants spending authority.
func (tc *TestContext) ActAsDonor(donor string) error {
	claims := jwt.RegisteredClaims{
		Subject:   donor,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tc.signingKey)
	if err != nil {
		return fmt.Errorf("sign donor token: %w", err)
	}
	tc.bearer = token
	return nil
}

// ClearIdentity drops the caller identity; requests go out anonymous.
func (tc *TestContext) ClearIdentity() {
	tc.bearer = ""
}

// SaveCenter records a created center under an alias for later steps.
func (tc *TestContext) SaveCenter(alias, id, token string) {
	tc.centers[alias] = savedCenter{id: id, token: token}
}

// CenterID resolves a center alias to its ID.
func (tc *TestContext) CenterID(alias string) (string, error) {
	c, ok := tc.centers[alias]
	if !ok {
		return "", fmt.Errorf("no center saved under %q", alias)
	}
	return c.id, nil
}

// CapabilityToken resolves a center alias to its capability token.
func (tc *TestContext) CapabilityToken(alias string) (string, error) {
	c, ok := tc.centers[alias]
	if !ok {
		return "", fmt.Errorf("no center saved under %q", alias)
	}
	return c.token, nil
}

// GetLastResponseStatus returns the status code of the last response.
func (tc *TestContext) GetLastResponseStatus() int {
	return tc.lastStatus
}

// GetLastResponseBody returns the raw body of the last response.
func (tc *TestContext) GetLastResponseBody() []byte {
	return tc.lastBody
}

// GetResponseField returns a field from the last JSON response. Dots descend
// into nested objects, e.g. "capability.secret".
func (tc *TestContext) GetResponseField(field string) (interface{}, error) {
	if tc.lastJSON == nil {
		return nil, fmt.Errorf("last response is not a JSON object: %s", tc.lastBody)
	}

	var current interface{} = tc.lastJSON
	for _, part := range strings.Split(field, ".") {
		obj, ok := current.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("field %q: %q is not an object", field, part)
		}
		current, ok = obj[part]
		if !ok {
			return nil, fmt.Errorf("field %q not present in response: %s", field, tc.lastBody)
		}
	}
	return current, nil
}

// ResponseContains reports whether the last JSON response has the field.
func (tc *TestContext) ResponseContains(field string) bool {
	_, err := tc.GetResponseField(field)
	return err == nil
}
