package petkit

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// sessionSkew is subtracted from the reported lifetime so a session is
// refreshed shortly before the server expires it.
const sessionSkew = 60 * time.Second

// hashPassword returns the MD5 hex digest the login endpoint expects.
func hashPassword(password string) string {
	sum := md5.Sum([]byte(password))
	return hex.EncodeToString(sum[:])
}

// clientInfo builds the JSON blob describing the "device" logging in. The
// API validates its shape, so the fields mirror the official app.
func (c *Client) clientInfo() string {
	info := map[string]any{
		"locale":     "en-US",
		"source":     clientSource,
		"platform":   clientPlatform,
		"osVersion":  clientOSVer,
		"timezone":   c.timezoneOffset(),
		"timezoneId": c.timezone,
		"version":    apiVersion,
		"token":      "",
		"name":       clientBrand + " " + clientModel,
	}
	raw, _ := json.Marshal(info)
	return string(raw)
}

// resolveBaseURL determines the regional API gateway for the configured
// region. China traffic uses a dedicated host; all other regions come from
// the passport region server list. No-op when WithBaseURL set an override.
func (c *Client) resolveBaseURL(ctx context.Context) error {
	if c.baseURL != "" {
		return nil
	}
	if c.region == "cn" || c.region == "china" {
		c.baseURL = ChinaBaseURL
		return nil
	}

	c.baseURL = c.passportURL
	raw, err := c.doWithRetry(ctx, http.MethodGet, endpointRegionServers, nil, nil, false)
	if err != nil {
		return fmt.Errorf("failed to fetch region servers: %w", err)
	}

	var servers struct {
		List []RegionInfo `json:"list"`
	}
	if err := json.Unmarshal(raw, &servers); err != nil {
		return fmt.Errorf("%w: region servers: %v", ErrInvalidResponseFormat, err)
	}

	for _, region := range servers.List {
		if strings.EqualFold(region.ID, c.region) || strings.EqualFold(region.Name, c.region) {
			c.baseURL = strings.TrimRight(region.Gateway, "/")
			return nil
		}
	}

	return fmt.Errorf("%w: %q", ErrRegionNotFound, c.region)
}

// RequestLoginCode asks the API to email a one-time login code to the
// account address. Pass the received code to Login for accounts with
// two-step verification enabled.
func (c *Client) RequestLoginCode(ctx context.Context) error {
	if err := c.resolveBaseURL(ctx); err != nil {
		return err
	}

	params := url.Values{}
	params.Set("username", c.username)

	_, err := c.doWithRetry(ctx, http.MethodPost, endpointLoginCode, params, nil, false)
	return err
}

// Login authenticates against the regional gateway and stores the resulting
// session. validCode is the emailed one-time code for accounts with
// two-step verification; pass "" otherwise.
func (c *Client) Login(ctx context.Context, validCode string) error {
	if err := c.resolveBaseURL(ctx); err != nil {
		return err
	}

	form := url.Values{}
	form.Set("username", c.username)
	form.Set("password", hashPassword(c.password))
	form.Set("encrypt", "1")
	form.Set("region", c.region)
	form.Set("oldVersion", apiVersion)
	form.Set("client", c.clientInfo())
	if validCode != "" {
		form.Set("validCode", validCode)
	}

	raw, err := c.doWithRetry(ctx, http.MethodPost, endpointLogin, nil, form, false)
	if err != nil {
		return err
	}

	session, err := decodeSession(raw)
	if err != nil {
		return err
	}
	session.Region = c.region

	c.sessionMu.Lock()
	c.session = session
	c.sessionMu.Unlock()

	c.logDebug(ctx, "login_ok", slog.String("user_id", session.UserID))
	return nil
}

// RefreshSession exchanges the current session for a fresh one without
// re-sending credentials. Falls back to a full login when no session is
// held or the refresh is rejected.
func (c *Client) RefreshSession(ctx context.Context) error {
	c.sessionMu.RLock()
	current := c.session
	c.sessionMu.RUnlock()

	if current == nil {
		return c.Login(ctx, "")
	}

	headers := map[string]string{"F-Session": current.ID, "X-Session": current.ID}
	raw, err := c.doRequest(ctx, http.MethodPost, endpointRefreshSession, nil, nil, headers)
	if err != nil {
		if IsSessionExpired(err) || IsAuthenticationError(err) {
			return c.Login(ctx, "")
		}
		return err
	}

	session, err := decodeSession(raw)
	if err != nil {
		return err
	}
	session.Region = current.Region
	session.RefreshedAt = time.Now()

	c.sessionMu.Lock()
	c.session = session
	c.sessionMu.Unlock()
	return nil
}

// Session returns a copy of the current session, or nil when not logged in.
func (c *Client) Session() *SessionInfo {
	c.sessionMu.RLock()
	defer c.sessionMu.RUnlock()
	if c.session == nil {
		return nil
	}
	copied := *c.session
	return &copied
}

// decodeSession extracts the session block from a login or refresh result.
func decodeSession(raw json.RawMessage) (*SessionInfo, error) {
	var payload struct {
		Session *SessionInfo `json:"session"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: session: %v", ErrInvalidResponseFormat, err)
	}
	if payload.Session == nil || payload.Session.ID == "" {
		return nil, fmt.Errorf("%w: missing session", ErrInvalidResponseFormat)
	}
	return payload.Session, nil
}

// sessionValid reports whether the held session is present and unexpired.
func sessionValid(session *SessionInfo, now time.Time) bool {
	if session == nil || session.ID == "" {
		return false
	}
	if session.ExpiresIn <= 0 {
		return true
	}

	issued := session.RefreshedAt
	if issued.IsZero() {
		issued = parseSessionTime(session.CreatedAt)
	}
	if issued.IsZero() {
		return true
	}

	lifetime := time.Duration(session.ExpiresIn)*time.Second - sessionSkew
	return now.Before(issued.Add(lifetime))
}

// parseSessionTime parses the createdAt stamp, which the API emits in a few
// layouts depending on endpoint.
func parseSessionTime(value string) time.Time {
	for _, layout := range []string{
		"2006-01-02T15:04:05.000Z0700",
		time.RFC3339,
		"2006-01-02T15:04:05.000-0700",
	} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

// sessionHeaders returns the auth headers for a request, logging in or
// refreshing first when the held session is missing or stale.
func (c *Client) sessionHeaders(ctx context.Context) (map[string]string, error) {
	c.sessionMu.RLock()
	session := c.session
	c.sessionMu.RUnlock()

	if !sessionValid(session, time.Now()) {
		if session == nil {
			if err := c.Login(ctx, ""); err != nil {
				return nil, err
			}
		} else if err := c.RefreshSession(ctx); err != nil {
			return nil, err
		}

		c.sessionMu.RLock()
		session = c.session
		c.sessionMu.RUnlock()
	}

	if session == nil {
		return nil, ErrNoSession
	}

	return map[string]string{
		"F-Session": session.ID,
		"X-Session": session.ID,
	}, nil
}
