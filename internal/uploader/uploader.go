// Package uploader performs the single-shot HTTP upload of a symbol
// artifact to the crash-reporting backend.
package uploader

import (
	"bytes"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// Content types for the two artifact kinds. The backend distinguishes
// mapping files from symbol archives by endpoint path and content type
// only.
const (
	ContentTypeMapping = "text/plain"
	ContentTypeSymbol  = "application/zip"
)

// Fixed client timeouts. The pipeline exposes no cancellation surface
// beyond these.
const (
	connectTimeout = 10 * time.Second
	requestTimeout = 60 * time.Second
)

// Target carries the per-variant credentials and identifiers required
// for any upload to proceed.
type Target struct {
	AppID       string
	AppKey      string
	PackageName string
	VersionName string
}

// Uploader sends one file to one endpoint. Implementations report
// success or failure only; the caller decides what failure means.
type Uploader interface {
	Upload(endpoint string, target Target, filePath, contentType string) bool
}

// HTTP is the production Uploader: one synchronous POST per file, no
// retries, no backoff.
type HTTP struct {
	client *http.Client
	logger *slog.Logger
}

// NewHTTP creates an uploader with fixed connect and request timeouts.
func NewHTTP(logger *slog.Logger) *HTTP {
	if logger == nil {
		logger = slog.Default()
	}

	return &HTTP{
		client: &http.Client{
			Timeout: requestTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: connectTimeout}).DialContext,
			},
		},
		logger: logger,
	}
}

// Upload POSTs the file's raw bytes to the endpoint. Success is
// strictly HTTP 200; any other status, timeout, or transport error is
// logged as a warning and reported as failure.
func (h *HTTP) Upload(endpoint string, target Target, filePath, contentType string) bool {
	body, err := os.ReadFile(filePath)
	if err != nil {
		h.logger.Warn("failed to read upload candidate", "path", filePath, "error", err)
		return false
	}

	req, err := http.NewRequest(http.MethodPost, requestURL(endpoint, target, filePath), bytes.NewReader(body))
	if err != nil {
		h.logger.Warn("failed to build upload request", "endpoint", endpoint, "error", err)
		return false
	}

	req.Header.Set("Content-Type", contentType)

	resp, err := h.client.Do(req)
	if err != nil {
		h.logger.Warn("upload request failed", "path", filePath, "error", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		h.logger.Warn("upload rejected", "path", filePath, "status", resp.StatusCode)
		return false
	}

	return true
}

// requestURL appends the query parameters in the order the backend
// expects: app, pid, ver, n, key, bid.
func requestURL(endpoint string, target Target, filePath string) string {
	return endpoint + "?" + fmt.Sprintf("app=%s&pid=1&ver=%s&n=%s&key=%s&bid=%s",
		target.AppID,
		url.QueryEscape(target.VersionName),
		url.QueryEscape(filepath.Base(filePath)),
		target.AppKey,
		target.PackageName)
}
