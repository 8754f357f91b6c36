package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// EndpointPrefix is the only URL shape the backend is ever deployed under.
const EndpointPrefix = "https://script.google.com/macros/"

// Session is the auth payload the backend returns for login. Field names are
// the backend's wire contract.
type Session struct {
	Username      string `json:"username"`
	MasterSheetID string `json:"masterSheetId"`
	DataSheetID   string `json:"dataSheetId"`
	DARSheetID    string `json:"darSheetId"`
}

// Row is one history record as returned by the backend: column name to
// display value. All rows in one response are assumed to share one shape.
type Row map[string]any

// HistoryResult carries the decoded rows plus the column order of the first
// row, which defines the rendering order for the whole table.
type HistoryResult struct {
	Columns []string
	Rows    []Row
}

type envelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// Each backend action gets its own payload type so a request can never be
// assembled with the wrong field set for its action tag.
type loginPayload struct {
	Action   string `json:"action"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type signupPayload struct {
	Action   string `json:"action"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type saveDataPayload struct {
	Action        string `json:"action"`
	MasterSheetID string `json:"masterSheetId"`
	SheetID       string `json:"sheetId"`
	Data          []any  `json:"data"`
}

type historyPayload struct {
	Action        string `json:"action"`
	MasterSheetID string `json:"masterSheetId"`
	SheetID       string `json:"sheetId"`
}

type Client struct {
	endpoint   string
	httpClient *http.Client
}

func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: strings.TrimSpace(endpoint),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

// ValidEndpoint reports whether url looks like a deployed Apps Script web
// app. The check is deliberately shallow; the backend is the authority.
func ValidEndpoint(url string) bool {
	return strings.HasPrefix(strings.TrimSpace(url), EndpointPrefix)
}

func (c *Client) Login(ctx context.Context, username, password string) (Session, error) {
	var sess Session
	payload := loginPayload{Action: "login", Username: username, Password: password}
	if err := c.call(ctx, payload, &sess); err != nil {
		return Session{}, err
	}
	if strings.TrimSpace(sess.Username) == "" {
		return Session{}, fmt.Errorf("login succeeded but no session data was returned")
	}
	return sess, nil
}

// Signup creates the account but yields no usable session data; callers
// chain a Login with the same credentials.
func (c *Client) Signup(ctx context.Context, username, password string) error {
	payload := signupPayload{Action: "signup", Username: username, Password: password}
	return c.call(ctx, payload, nil)
}

func (c *Client) SaveEntry(ctx context.Context, masterSheetID, sheetID string, row []any) error {
	payload := saveDataPayload{
		Action:        "saveData",
		MasterSheetID: masterSheetID,
		SheetID:       sheetID,
		Data:          row,
	}
	return c.call(ctx, payload, nil)
}

func (c *Client) History(ctx context.Context, masterSheetID, sheetID string) (HistoryResult, error) {
	payload := historyPayload{
		Action:        "getHistory",
		MasterSheetID: masterSheetID,
		SheetID:       sheetID,
	}
	var raw []json.RawMessage
	if err := c.call(ctx, payload, &raw); err != nil {
		return HistoryResult{}, err
	}

	result := HistoryResult{Rows: make([]Row, 0, len(raw))}
	for _, blob := range raw {
		var row Row
		if err := json.Unmarshal(blob, &row); err != nil {
			return HistoryResult{}, fmt.Errorf("decode history row: %w", err)
		}
		result.Rows = append(result.Rows, row)
	}
	if len(raw) > 0 {
		columns, err := objectKeyOrder(raw[0])
		if err != nil {
			return HistoryResult{}, fmt.Errorf("derive history columns: %w", err)
		}
		result.Columns = columns
	}
	return result, nil
}

func (c *Client) call(ctx context.Context, payload any, out any) error {
	if c.endpoint == "" {
		return fmt.Errorf("api endpoint is not configured")
	}

	blob, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(blob))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("decode response envelope: %w", err)
	}
	if env.Status != "success" {
		message := strings.TrimSpace(env.Message)
		if message == "" {
			message = fmt.Sprintf("api call failed with status %q", env.Status)
		}
		return fmt.Errorf("%s", message)
	}

	if out == nil {
		return nil
	}
	if len(env.Data) == 0 {
		return fmt.Errorf("api reported success but returned no data")
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

// objectKeyOrder walks the token stream of one JSON object and returns its
// keys in document order, which Go maps would otherwise discard.
func objectKeyOrder(blob json.RawMessage) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(blob))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("history row is not a JSON object")
	}

	keys := make([]string, 0, 19)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v in history row", keyTok)
		}
		keys = append(keys, key)

		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
	}
	return keys, nil
}
