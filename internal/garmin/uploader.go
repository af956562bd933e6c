package garmin

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const (
	ssoURL    = "https://sso.garmin.com/sso/signin"
	uploadURL = "https://connectapi.garmin.com/upload-service/upload/.fit"
)

// ErrDuplicate signals that the destination already holds this activity.
// For synchronization purposes a duplicate is a terminal success.
var ErrDuplicate = errors.New("duplicate activity")

var ticketPattern = regexp.MustCompile(`ticket=([^"']+)`)

// Session is the capability handle returned by Login and required by
// UploadActivity. Consumers never re-derive or mutate it.
type Session struct {
	http      *http.Client
	token     string
	uploadURL string
}

// Login authenticates against the Garmin SSO endpoint and returns a session
// handle for uploads.
func Login(email, password string) (*Session, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	client := &http.Client{Jar: jar, Timeout: 60 * time.Second}

	form := url.Values{
		"username": {email},
		"password": {password},
		"embed":    {"false"},
	}
	resp, err := client.PostForm(ssoURL, form)
	if err != nil {
		return nil, fmt.Errorf("sso request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read sso response: %w", err)
	}
	match := ticketPattern.FindSubmatch(body)
	if match == nil {
		return nil, fmt.Errorf("login failed: no service ticket in response (status %d)", resp.StatusCode)
	}

	return &Session{
		http:      client,
		token:     string(match[1]),
		uploadURL: uploadURL,
	}, nil
}

// UploadActivity sends one FIT file to the upload service. A 409-style
// conflict is reported as ErrDuplicate; everything else non-2xx is an error.
func (s *Session) UploadActivity(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open activity file: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return fmt.Errorf("build upload form: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("read activity file: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finish upload form: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.uploadURL, &buf)
	if err != nil {
		return fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusConflict {
		return ErrDuplicate
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	if strings.Contains(strings.ToLower(string(body)), "duplicate") {
		return ErrDuplicate
	}
	return fmt.Errorf("upload status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
}
