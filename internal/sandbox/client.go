package sandbox

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrAPI marks responses the sandbox did return but that are unusable
// (non-2xx status, undecodable body, missing run stage). Transport failures
// are returned unwrapped so callers can tell the two apart.
var ErrAPI = errors.New("sandbox api error")

// Client talks to a Piston-compatible execution service.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// RuntimeInfo is one entry of the sandbox's capability list.
type RuntimeInfo struct {
	Language string   `json:"language"`
	Version  string   `json:"version"`
	Aliases  []string `json:"aliases"`
}

func (c *Client) Runtimes(ctx context.Context) ([]RuntimeInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/runtimes", nil)
	if err != nil {
		return nil, fmt.Errorf("sandbox runtimes request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sandbox runtimes call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: runtimes returned status %d", ErrAPI, resp.StatusCode)
	}
	var runtimes []RuntimeInfo
	if err := json.NewDecoder(resp.Body).Decode(&runtimes); err != nil {
		return nil, fmt.Errorf("%w: decoding runtimes: %v", ErrAPI, err)
	}
	return runtimes, nil
}

type File struct {
	Name    string `json:"name,omitempty"`
	Content string `json:"content"`
}

type ExecRequest struct {
	Language string `json:"language"`
	Version  string `json:"version"`
	Files    []File `json:"files"`
	Stdin    string `json:"stdin"`
}

// StageResult is the outcome of one execution stage (compile or run).
type StageResult struct {
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
	Code   int    `json:"code"`
	Output string `json:"output"`
}

type ExecResponse struct {
	Language string       `json:"language"`
	Version  string       `json:"version"`
	Run      *StageResult `json:"run"`
	Compile  *StageResult `json:"compile"`
	Message  string       `json:"message"`
}

// Execute submits one program with one stdin to the sandbox and waits for the
// result. A transport error comes back as-is; an unusable response wraps ErrAPI.
func (c *Client) Execute(ctx context.Context, execReq ExecRequest) (*ExecResponse, error) {
	body, err := json.Marshal(execReq)
	if err != nil {
		return nil, fmt.Errorf("marshal execute request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/execute", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("sandbox execute request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: execute returned status %d", ErrAPI, resp.StatusCode)
	}
	var execResp ExecResponse
	if err := json.NewDecoder(resp.Body).Decode(&execResp); err != nil {
		return nil, fmt.Errorf("%w: decoding execute response: %v", ErrAPI, err)
	}
	return &execResp, nil
}
