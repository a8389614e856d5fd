package s2

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := NewClient(Config{
		AccessToken:     "test-token",
		AccountEndpoint: server.URL,
		BasinEndpoint:   server.URL,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client, server
}

func TestListBasins(t *testing.T) {
	var gotAuth, gotPath, gotQuery string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode(listBasinsResponse{Basins: []BasinInfo{
			{Name: "alpha-basin", State: BasinStateActive},
			{Name: "beta-basin", State: BasinStateCreating},
		}})
	}))
	basins, err := client.ListBasins(context.Background(), ListBasinsRequest{Prefix: "a", Limit: 100})
	if err != nil {
		t.Fatalf("ListBasins: %v", err)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("authorization header = %q", gotAuth)
	}
	if gotPath != "/v1/basins" {
		t.Errorf("path = %q", gotPath)
	}
	if gotQuery != "limit=100&prefix=a" {
		t.Errorf("query = %q", gotQuery)
	}
	if len(basins) != 2 || basins[0].Name != "alpha-basin" {
		t.Fatalf("unexpected basins: %+v", basins)
	}
}

func TestAPIErrorDecoding(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"code":"not_found","message":"basin does not exist"}`))
	}))
	_, err := client.GetBasinConfig(context.Background(), "missing-basin")
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsNotFound(err) {
		t.Errorf("IsNotFound = false for %v", err)
	}
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("error type %T", err)
	}
	if apiErr.Message != "basin does not exist" || apiErr.Code != "not_found" {
		t.Errorf("unexpected api error: %+v", apiErr)
	}
}

func TestBasinScopedRouting(t *testing.T) {
	var gotPath string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		json.NewEncoder(w).Encode(map[string]StreamPosition{"tail": {SeqNum: 42, Timestamp: 1700000000000}})
	}))
	tail, err := client.CheckTail(context.Background(), "alpha-basin", "events/prod")
	if err != nil {
		t.Fatalf("CheckTail: %v", err)
	}
	if gotPath != "/v1/basins/alpha-basin/streams/events%2Fprod/records/tail" {
		t.Errorf("path = %q", gotPath)
	}
	if tail.SeqNum != 42 {
		t.Errorf("tail seq = %d, want 42", tail.SeqNum)
	}
}

func TestFenceBuildsCommandRecord(t *testing.T) {
	var gotInput AppendInput
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotInput)
		json.NewEncoder(w).Encode(AppendAck{End: StreamPosition{SeqNum: 8}})
	}))
	if _, err := client.Fence(context.Background(), "alpha-basin", "events", "my-token"); err != nil {
		t.Fatalf("Fence: %v", err)
	}
	if len(gotInput.Records) != 1 {
		t.Fatalf("records = %d, want 1", len(gotInput.Records))
	}
	rec := gotInput.Records[0]
	if len(rec.Headers) != 1 || len(rec.Headers[0].Name) != 0 || string(rec.Headers[0].Value) != "fence" {
		t.Errorf("unexpected fence headers: %+v", rec.Headers)
	}
	if string(rec.Body) != "my-token" {
		t.Errorf("fence body = %q", rec.Body)
	}
}

func TestTrimBuildsCommandRecord(t *testing.T) {
	var gotInput AppendInput
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotInput)
		json.NewEncoder(w).Encode(AppendAck{})
	}))
	if _, err := client.Trim(context.Background(), "alpha-basin", "events", 12345); err != nil {
		t.Fatalf("Trim: %v", err)
	}
	rec := gotInput.Records[0]
	if string(rec.Headers[0].Value) != "trim" {
		t.Errorf("command = %q, want trim", rec.Headers[0].Value)
	}
	if got := binary.BigEndian.Uint64(rec.Body); got != 12345 {
		t.Errorf("trim point = %d, want 12345", got)
	}
}

func TestFenceTokenTooLong(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the server")
	}))
	long := make([]byte, 37)
	for i := range long {
		long[i] = 'a'
	}
	if _, err := client.Fence(context.Background(), "alpha-basin", "events", string(long)); err == nil {
		t.Fatal("expected error for oversized fencing token")
	}
}

func TestValidateBasinName(t *testing.T) {
	cases := []struct {
		name  string
		valid bool
	}{
		{"alpha-basin", true},
		{"a1b2c3d4", true},
		{"short", false},
		{"-leading-hyphen", false},
		{"trailing-hyphen-", false},
		{"Uppercase-Name", false},
		{"", false},
	}
	for _, tc := range cases {
		err := ValidateBasinName(tc.name)
		if tc.valid && err != nil {
			t.Errorf("ValidateBasinName(%q) = %v, want nil", tc.name, err)
		}
		if !tc.valid && err == nil {
			t.Errorf("ValidateBasinName(%q) = nil, want error", tc.name)
		}
	}
}

func TestParseURI(t *testing.T) {
	uri, err := ParseURI("s2://alpha-basin/events/prod")
	if err != nil {
		t.Fatalf("ParseURI: %v", err)
	}
	if uri.Basin != "alpha-basin" || uri.Stream != "events/prod" {
		t.Errorf("unexpected uri: %+v", uri)
	}
	if uri.String() != "s2://alpha-basin/events/prod" {
		t.Errorf("round trip = %q", uri.String())
	}
	if _, err := ParseURI("alpha-basin/events"); err == nil {
		t.Error("expected error for missing scheme")
	}
	if _, err := ParseURI("s2://bad"); err == nil {
		t.Error("expected error for invalid basin name")
	}
	basinOnly, err := ParseURI("s2://alpha-basin")
	if err != nil {
		t.Fatalf("ParseURI basin only: %v", err)
	}
	if basinOnly.Stream != "" {
		t.Errorf("stream = %q, want empty", basinOnly.Stream)
	}
}

func TestCommandRecordDetection(t *testing.T) {
	rec := SequencedRecord{Headers: []Header{{Name: []byte{}, Value: []byte("fence")}}, Body: []byte("tok")}
	cmd, ok := rec.IsCommand()
	if !ok || cmd != "fence" {
		t.Errorf("IsCommand = %q, %v", cmd, ok)
	}
	plain := SequencedRecord{Headers: []Header{{Name: []byte("kind"), Value: []byte("event")}}}
	if _, ok := plain.IsCommand(); ok {
		t.Error("plain record detected as command")
	}
}
