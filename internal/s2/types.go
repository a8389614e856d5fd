package s2

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

type BasinState string

const (
	BasinStateUnspecified BasinState = "unspecified"
	BasinStateActive      BasinState = "active"
	BasinStateCreating    BasinState = "creating"
	BasinStateDeleting    BasinState = "deleting"
)

type BasinInfo struct {
	Name  string     `json:"name"`
	Scope string     `json:"scope,omitempty"`
	State BasinState `json:"state"`
}

type StreamInfo struct {
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

type StorageClass string

const (
	StorageClassStandard StorageClass = "standard"
	StorageClassExpress  StorageClass = "express"
)

type TimestampingMode string

const (
	TimestampingClientPrefer  TimestampingMode = "client-prefer"
	TimestampingClientRequire TimestampingMode = "client-require"
	TimestampingArrival       TimestampingMode = "arrival"
)

type TimestampingConfig struct {
	Mode      TimestampingMode `json:"mode,omitempty"`
	Uncapped  *bool            `json:"uncapped,omitempty"`
}

// StreamConfig describes a stream. A nil RetentionAgeSeconds means records
// are retained indefinitely.
type StreamConfig struct {
	StorageClass        StorageClass        `json:"storage_class,omitempty"`
	RetentionAgeSeconds *uint64             `json:"retention_age_seconds,omitempty"`
	Timestamping        *TimestampingConfig `json:"timestamping,omitempty"`
	DeleteOnEmptySecs   *uint64             `json:"delete_on_empty_min_age_seconds,omitempty"`
}

type BasinConfig struct {
	DefaultStreamConfig  *StreamConfig `json:"default_stream_config,omitempty"`
	CreateStreamOnAppend bool          `json:"create_stream_on_append,omitempty"`
	CreateStreamOnRead   bool          `json:"create_stream_on_read,omitempty"`
}

type Header struct {
	Name  []byte `json:"name"`
	Value []byte `json:"value"`
}

// AppendRecord is a record to be appended. Timestamp is client-assigned
// milliseconds since epoch; nil lets the service assign one.
type AppendRecord struct {
	Timestamp *uint64  `json:"timestamp,omitempty"`
	Headers   []Header `json:"headers,omitempty"`
	Body      []byte   `json:"body"`
}

type SequencedRecord struct {
	SeqNum    uint64   `json:"seq_num"`
	Timestamp uint64   `json:"timestamp"`
	Headers   []Header `json:"headers,omitempty"`
	Body      []byte   `json:"body"`
}

// IsCommand reports whether the record is a command record (single header
// with an empty name), and returns the command when it is.
func (r SequencedRecord) IsCommand() (string, bool) {
	if len(r.Headers) == 1 && len(r.Headers[0].Name) == 0 {
		return string(r.Headers[0].Value), true
	}
	return "", false
}

// StreamPosition identifies a position in a stream. The tail of a stream is
// the position of the next record to be appended.
type StreamPosition struct {
	SeqNum    uint64 `json:"seq_num"`
	Timestamp uint64 `json:"timestamp"`
}

type AppendAck struct {
	Start StreamPosition `json:"start"`
	End   StreamPosition `json:"end"`
	Tail  StreamPosition `json:"tail"`
}

type AccessTokenScope struct {
	Basins       *ResourceMatcher `json:"basins,omitempty"`
	Streams      *ResourceMatcher `json:"streams,omitempty"`
	AccessTokens *ResourceMatcher `json:"access_tokens,omitempty"`
	Ops          []string         `json:"op_groups,omitempty"`
}

// ResourceMatcher matches resource names within a token scope. At most one
// of Exact or Prefix is set; a non-nil zero value is the empty prefix, which
// matches everything. A nil matcher matches nothing.
type ResourceMatcher struct {
	Exact  string `json:"exact,omitempty"`
	Prefix string `json:"prefix,omitempty"`
}

func (m *ResourceMatcher) String() string {
	switch {
	case m == nil:
		return "none"
	case m.Exact != "":
		return "=" + m.Exact
	case m.Prefix != "":
		return m.Prefix + "*"
	default:
		return "*"
	}
}

type AccessTokenInfo struct {
	ID                string           `json:"id"`
	ExpiresAt         *time.Time       `json:"expires_at,omitempty"`
	AutoPrefixStreams bool             `json:"auto_prefix_streams,omitempty"`
	Scope             AccessTokenScope `json:"scope"`
}

type MetricPoint struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

type MetricSeries struct {
	Name   string        `json:"name"`
	Unit   string        `json:"unit,omitempty"`
	Points []MetricPoint `json:"points"`
}

var basinNameRe = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

// ValidateBasinName mirrors the service-side rules so forms can reject bad
// names before a round trip.
func ValidateBasinName(name string) error {
	if len(name) < 8 || len(name) > 48 {
		return fmt.Errorf("basin name must be 8-48 characters, got %d", len(name))
	}
	if !basinNameRe.MatchString(name) {
		return fmt.Errorf("basin name must be lowercase letters, digits and hyphens, and cannot start or end with a hyphen")
	}
	return nil
}

func ValidateStreamName(name string) error {
	if name == "" || len(name) > 512 {
		return fmt.Errorf("stream name must be 1-512 characters")
	}
	if strings.HasPrefix(name, " ") || strings.HasSuffix(name, " ") {
		return fmt.Errorf("stream name cannot start or end with a space")
	}
	return nil
}

// URI is a parsed s2://basin/stream locator. Stream may be empty.
type URI struct {
	Basin  string
	Stream string
}

func ParseURI(raw string) (URI, error) {
	rest, ok := strings.CutPrefix(raw, "s2://")
	if !ok {
		return URI{}, fmt.Errorf("invalid s2 uri %q: missing s2:// scheme", raw)
	}
	basin, stream, _ := strings.Cut(rest, "/")
	if err := ValidateBasinName(basin); err != nil {
		return URI{}, fmt.Errorf("invalid s2 uri %q: %w", raw, err)
	}
	if stream != "" {
		if err := ValidateStreamName(stream); err != nil {
			return URI{}, fmt.Errorf("invalid s2 uri %q: %w", raw, err)
		}
	}
	return URI{Basin: basin, Stream: stream}, nil
}

func (u URI) String() string {
	if u.Stream == "" {
		return "s2://" + u.Basin
	}
	return "s2://" + u.Basin + "/" + u.Stream
}
