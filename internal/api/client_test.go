package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLoginDecodesSessionFromEnvelope(t *testing.T) {
	t.Parallel()

	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		blob, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(blob, &gotBody); err != nil {
			t.Errorf("request body is not JSON: %v", err)
		}
		_, _ = w.Write([]byte(`{"status":"success","data":{"username":"ana","masterSheetId":"m1","dataSheetId":"d1","darSheetId":"r1"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	sess, err := client.Login(context.Background(), "ana", "secret")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if sess.Username != "ana" || sess.MasterSheetID != "m1" || sess.DataSheetID != "d1" || sess.DARSheetID != "r1" {
		t.Fatalf("unexpected session: %+v", sess)
	}
	if gotBody["action"] != "login" || gotBody["username"] != "ana" || gotBody["password"] != "secret" {
		t.Fatalf("unexpected request payload: %v", gotBody)
	}
}

func TestLoginSurfacesBackendErrorMessage(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"error","message":"Invalid credentials"}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Login(context.Background(), "ana", "wrong")
	if err == nil {
		t.Fatalf("expected error for error envelope")
	}
	if err.Error() != "Invalid credentials" {
		t.Fatalf("expected backend message, got %q", err.Error())
	}
}

func TestLoginRejectsEmptySessionData(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","data":{}}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Login(context.Background(), "ana", "secret")
	if err == nil {
		t.Fatalf("expected error when success envelope carries no username")
	}
}

func TestCallFailsOnNonJSONResponse(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer server.Close()

	err := NewClient(server.URL).Signup(context.Background(), "ana", "secret")
	if err == nil {
		t.Fatalf("expected decode error for non-JSON body")
	}
}

func TestCallFailsWithoutEndpoint(t *testing.T) {
	t.Parallel()

	err := NewClient("").Signup(context.Background(), "ana", "secret")
	if err == nil {
		t.Fatalf("expected error for missing endpoint")
	}
}

func TestSaveEntrySendsOrderedDataArray(t *testing.T) {
	t.Parallel()

	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		blob, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(blob, &gotBody)
		_, _ = w.Write([]byte(`{"status":"success","data":"ok"}`))
	}))
	defer server.Close()

	row := []any{"2024-01-01", "LinkedIn", 10}
	if err := NewClient(server.URL).SaveEntry(context.Background(), "m1", "d1", row); err != nil {
		t.Fatalf("SaveEntry returned error: %v", err)
	}
	if gotBody["action"] != "saveData" || gotBody["masterSheetId"] != "m1" || gotBody["sheetId"] != "d1" {
		t.Fatalf("unexpected request payload: %v", gotBody)
	}
	data, ok := gotBody["data"].([]any)
	if !ok {
		t.Fatalf("expected data array, got %T", gotBody["data"])
	}
	if len(data) != 3 || data[0] != "2024-01-01" || data[1] != "LinkedIn" {
		t.Fatalf("data array lost order or values: %v", data)
	}
}

func TestHistoryPreservesFirstRowColumnOrder(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","data":[
			{"entry_date":"2024-01-01","platform":"LinkedIn","connections_sent":10},
			{"entry_date":"2024-01-02","platform":"Email","connections_sent":4}
		]}`))
	}))
	defer server.Close()

	result, err := NewClient(server.URL).History(context.Background(), "m1", "d1")
	if err != nil {
		t.Fatalf("History returned error: %v", err)
	}
	wantColumns := []string{"entry_date", "platform", "connections_sent"}
	if len(result.Columns) != len(wantColumns) {
		t.Fatalf("expected %d columns, got %v", len(wantColumns), result.Columns)
	}
	for idx, want := range wantColumns {
		if result.Columns[idx] != want {
			t.Fatalf("column %d: got %q want %q (full: %v)", idx, result.Columns[idx], want, result.Columns)
		}
	}
	if len(result.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(result.Rows))
	}
	if result.Rows[1]["platform"] != "Email" {
		t.Fatalf("unexpected second row: %v", result.Rows[1])
	}
}

func TestHistoryEmptyDataYieldsNoColumns(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","data":[]}`))
	}))
	defer server.Close()

	result, err := NewClient(server.URL).History(context.Background(), "m1", "d1")
	if err != nil {
		t.Fatalf("History returned error: %v", err)
	}
	if len(result.Rows) != 0 || len(result.Columns) != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
}

func TestValidEndpoint(t *testing.T) {
	t.Parallel()

	cases := []struct {
		url  string
		want bool
	}{
		{"https://script.google.com/macros/s/abc/exec", true},
		{"  https://script.google.com/macros/s/abc/exec", true},
		{"https://example.com/macros/s/abc/exec", false},
		{"http://script.google.com/macros/s/abc/exec", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := ValidEndpoint(tc.url); got != tc.want {
			t.Fatalf("ValidEndpoint(%q) = %v, want %v", tc.url, got, tc.want)
		}
	}
}
