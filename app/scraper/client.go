package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"mime"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

const siteBaseURL = "https://seekingalpha.com"

// Markers in a page that indicate the session is authenticated with premium
// access.
var loggedInMarkers = []string{"Sign Out", "My Portfolio", "My Account", "Premium"}

// Client is an authenticated HTTP session for the site. The operator supplies
// a cookies file captured from a logged-in browser session; the jar is
// reloaded on startup and persisted on shutdown.
type Client struct {
	httpClient  *http.Client
	userAgent   string
	cookiesFile string
}

type storedCookie struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Domain string `json:"domain,omitempty"`
	Path   string `json:"path,omitempty"`
}

func NewClient(userAgent, cookiesFile string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	c := &Client{
		httpClient:  &http.Client{Jar: jar},
		userAgent:   userAgent,
		cookiesFile: cookiesFile,
	}

	return c, nil
}

// LoadCookies restores the persisted session cookies. A missing file is not
// an error; the session simply starts unauthenticated.
func (c *Client) LoadCookies() (int, error) {
	data, err := os.ReadFile(c.cookiesFile)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read cookies file: %w", err)
	}

	var stored []storedCookie
	if err := json.Unmarshal(data, &stored); err != nil {
		return 0, fmt.Errorf("failed to parse cookies file: %w", err)
	}

	siteURL, err := url.Parse(siteBaseURL)
	if err != nil {
		return 0, err
	}

	cookies := make([]*http.Cookie, 0, len(stored))
	for _, sc := range stored {
		cookies = append(cookies, &http.Cookie{
			Name:   sc.Name,
			Value:  sc.Value,
			Domain: sc.Domain,
			Path:   sc.Path,
		})
	}
	c.httpClient.Jar.SetCookies(siteURL, cookies)

	return len(cookies), nil
}

// SaveCookies persists the current session cookies for the next run.
func (c *Client) SaveCookies() error {
	siteURL, err := url.Parse(siteBaseURL)
	if err != nil {
		return err
	}

	cookies := c.httpClient.Jar.Cookies(siteURL)
	stored := make([]storedCookie, 0, len(cookies))
	for _, cookie := range cookies {
		stored = append(stored, storedCookie{Name: cookie.Name, Value: cookie.Value})
	}

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cookies: %w", err)
	}

	if err := os.WriteFile(c.cookiesFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write cookies file: %w", err)
	}

	return nil
}

// FetchHTML downloads a page and returns its body normalized to UTF-8.
func (c *Client) FetchHTML(ctx context.Context, pageURL string, timeout time.Duration) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.Contains(strings.ToLower(contentType), "text/html") {
		return nil, fmt.Errorf("content type is not HTML: %s", contentType)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return normalizeCharset(data, contentType), nil
}

// FetchFeed downloads an RSS/Atom feed body without the HTML content-type
// check.
func (c *Client) FetchFeed(ctx context.Context, feedURL string, timeout time.Duration) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

// Delay sleeps a random interval between min and max seconds, honoring
// cancellation. Keeps request pacing irregular enough to be polite.
func (c *Client) Delay(ctx context.Context, minSeconds, maxSeconds int) error {
	if maxSeconds <= 0 {
		return nil
	}

	spread := maxSeconds - minSeconds
	delay := time.Duration(minSeconds)*time.Second + time.Duration(rand.Int63n(int64(spread)*int64(time.Second)+1))

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

// IsLoggedIn reports whether the page body looks like an authenticated
// premium session.
func IsLoggedIn(html []byte) bool {
	body := string(html)
	for _, marker := range loggedInMarkers {
		if strings.Contains(body, marker) {
			return true
		}
	}
	return false
}

// PageURL formats the author page URL for a given page number, replacing any
// existing query string.
func PageURL(authorURL string, page int) string {
	base := authorURL
	if idx := strings.Index(authorURL, "?"); idx >= 0 {
		base = authorURL[:idx]
	}
	return fmt.Sprintf("%s?page=%d", base, page)
}

// normalizeCharset decodes non-UTF-8 responses using the charset declared in
// the Content-Type header. Undeclared or unknown charsets pass through as-is.
func normalizeCharset(data []byte, contentType string) []byte {
	if contentType == "" {
		return data
	}

	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return data
	}

	name := params["charset"]
	if name == "" || strings.EqualFold(name, "utf-8") {
		return data
	}

	enc, err := htmlindex.Get(name)
	if err != nil || enc == nil {
		return data
	}

	decoded, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return data
	}

	return decoded
}
