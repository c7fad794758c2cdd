// Package api is the thin HTTP client the CLI uses to talk to a node.
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

type Client struct {
	BaseURL string
}

// NodeHealth mirrors the node's /nodehealth response.
type NodeHealth struct {
	Status  string `json:"status"`
	Metrics struct {
		UptimeSeconds  int64   `json:"uptime_seconds"`
		AssetCount     int     `json:"asset_count"`
		CPULoadPercent float64 `json:"cpu_load_percent"`
		MemoryMB       float64 `json:"memory_mb"`
		DiskFreeMB     float64 `json:"disk_free_mb"`
	} `json:"metrics"`
}

func (h NodeHealth) ToJSON() string {
	b, _ := json.MarshalIndent(h, "", "  ")
	return string(b)
}

// auditRoute builds the form route the node serves for query/ae/hm actions.
func (c Client) auditRoute(userID, action, role, recID string) string {
	if recID == "" {
		recID = "none"
	}
	return fmt.Sprintf("%s/userid/%s/action/%s/role/%s/recid/%s",
		c.BaseURL, url.PathEscape(userID), url.PathEscape(action), url.PathEscape(role), url.PathEscape(recID))
}

func (c Client) getBody(route string) (string, error) {
	resp, err := http.Get(route)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("node returned %s: %s", resp.Status, string(body))
	}
	return string(body), nil
}

// QueryAuditLog runs the read-and-audit flow as userID/role.
func (c Client) QueryAuditLog(userID, role string) (string, error) {
	return c.getBody(c.auditRoute(userID, "query", role, ""))
}

// EnumerateAssets fetches the raw enumeration (encrypted tokens, no audit writes).
func (c Client) EnumerateAssets(userID, role string) (string, error) {
	return c.getBody(c.auditRoute(userID, "ae", role, ""))
}

// VerifyImmutability runs the delete-and-compare history check on recID.
func (c Client) VerifyImmutability(userID, role, recID string) (string, error) {
	return c.getBody(c.auditRoute(userID, "hm", role, recID))
}

// GetNodeHealth fetches node health metrics.
func (c Client) GetNodeHealth() (NodeHealth, error) {
	resp, err := http.Get(c.BaseURL + "/nodehealth")
	if err != nil {
		return NodeHealth{}, err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	var health NodeHealth
	if err := json.Unmarshal(body, &health); err != nil {
		return NodeHealth{}, err
	}
	return health, nil
}
