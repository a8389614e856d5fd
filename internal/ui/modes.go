package ui

import (
	"fmt"
	"strconv"
	"time"

	"github.com/s2-streamstore/s2-tui/internal/s2"
)

// inputMode is the active modal, if any. A nil mode means normal key
// handling; a non-nil mode captures every key before the screen handlers.
type inputMode interface {
	modeName() string
}

const (
	optDefault = "default"
	optYes     = "yes"
	optNo      = "no"

	matcherNone   = "none"
	matcherAll    = "all"
	matcherPrefix = "prefix"
	matcherExact  = "exact"

	startHead       = "head"
	startSeqNum     = "seq-num"
	startTimestamp  = "timestamp"
	startTailOffset = "tail-offset"
)

type createBasinMode struct{ form *form }

func (*createBasinMode) modeName() string { return "create-basin" }

type createStreamMode struct {
	basin string
	form  *form
}

func (*createStreamMode) modeName() string { return "create-stream" }

type reconfigureBasinMode struct {
	basin string
	form  *form
}

func (*reconfigureBasinMode) modeName() string { return "reconfigure-basin" }

type reconfigureStreamMode struct {
	basin  string
	stream string
	form   *form
}

func (*reconfigureStreamMode) modeName() string { return "reconfigure-stream" }

type confirmDeleteMode struct {
	isStream bool
	basin    string
	target   string
}

func (*confirmDeleteMode) modeName() string { return "confirm-delete" }

type customReadMode struct {
	basin  string
	stream string
	form   *form
}

func (*customReadMode) modeName() string { return "custom-read" }

type fenceMode struct {
	basin  string
	stream string
	form   *form
}

func (*fenceMode) modeName() string { return "fence" }

type trimMode struct {
	basin  string
	stream string
	form   *form
}

func (*trimMode) modeName() string { return "trim" }

type issueTokenMode struct{ form *form }

func (*issueTokenMode) modeName() string { return "issue-token" }

// tokenRevealMode shows a freshly minted token secret. The secret exists
// only in this modal; once dismissed it is gone.
type tokenRevealMode struct {
	id     string
	secret string
	copied bool
}

func (*tokenRevealMode) modeName() string { return "token-reveal" }

type confirmRevokeMode struct{ id string }

func (*confirmRevokeMode) modeName() string { return "confirm-revoke" }

// activeForm returns the form of the current mode, if it has one.
func (m *Model) activeForm() *form {
	switch mode := m.mode.(type) {
	case *createBasinMode:
		return mode.form
	case *createStreamMode:
		return mode.form
	case *reconfigureBasinMode:
		return mode.form
	case *reconfigureStreamMode:
		return mode.form
	case *customReadMode:
		return mode.form
	case *fenceMode:
		return mode.form
	case *trimMode:
		return mode.form
	case *issueTokenMode:
		return mode.form
	default:
		return nil
	}
}

func newConfirmDeleteMode(isStream bool, basin, target string) *confirmDeleteMode {
	return &confirmDeleteMode{isStream: isStream, basin: basin, target: target}
}

// streamConfigFields is shared by the stream forms and the basin form's
// default-stream section.
func streamConfigFields() []*formField {
	retentionAge := textField("retention-age", "Retention age (seconds)", "86400")
	retentionAge.enabled = func(f *form) bool { return f.selectValue("retention") == "age" }
	return []*formField{
		selectField("storage-class", "Storage class", optDefault, string(s2.StorageClassStandard), string(s2.StorageClassExpress)),
		selectField("retention", "Retention", optDefault, "age"),
		retentionAge,
		selectField("ts-mode", "Timestamping", optDefault,
			string(s2.TimestampingClientPrefer), string(s2.TimestampingClientRequire), string(s2.TimestampingArrival)),
		selectField("ts-uncapped", "Uncapped timestamps", optDefault, optYes, optNo),
		textField("delete-on-empty", "Delete when empty after (seconds)", ""),
	}
}

func prefillStreamConfigFields(f *form, cfg s2.StreamConfig) {
	if cfg.StorageClass != "" {
		f.field("storage-class").selectOption(string(cfg.StorageClass))
	}
	if cfg.RetentionAgeSeconds != nil {
		f.field("retention").selectOption("age")
		f.field("retention-age").value = strconv.FormatUint(*cfg.RetentionAgeSeconds, 10)
	}
	if cfg.Timestamping != nil {
		if cfg.Timestamping.Mode != "" {
			f.field("ts-mode").selectOption(string(cfg.Timestamping.Mode))
		}
		if cfg.Timestamping.Uncapped != nil {
			opt := optNo
			if *cfg.Timestamping.Uncapped {
				opt = optYes
			}
			f.field("ts-uncapped").selectOption(opt)
		}
	}
	if cfg.DeleteOnEmptySecs != nil {
		f.field("delete-on-empty").value = strconv.FormatUint(*cfg.DeleteOnEmptySecs, 10)
	}
}

// streamConfigFromForm converts the shared fields back into a config. It
// returns nil when every field is still at its default.
func streamConfigFromForm(f *form) (*s2.StreamConfig, error) {
	cfg := &s2.StreamConfig{}
	touched := false
	if class := f.selectValue("storage-class"); class != optDefault {
		cfg.StorageClass = s2.StorageClass(class)
		touched = true
	}
	if f.selectValue("retention") == "age" {
		age, ok := f.uintValue("retention-age")
		if !ok || age == nil {
			return nil, fmt.Errorf("retention age must be a number of seconds")
		}
		cfg.RetentionAgeSeconds = age
		touched = true
	}
	var ts s2.TimestampingConfig
	tsTouched := false
	if mode := f.selectValue("ts-mode"); mode != optDefault {
		ts.Mode = s2.TimestampingMode(mode)
		tsTouched = true
	}
	if uncapped := f.selectValue("ts-uncapped"); uncapped != optDefault {
		v := uncapped == optYes
		ts.Uncapped = &v
		tsTouched = true
	}
	if tsTouched {
		cfg.Timestamping = &ts
		touched = true
	}
	deleteOnEmpty, ok := f.uintValue("delete-on-empty")
	if !ok {
		return nil, fmt.Errorf("delete-on-empty must be a number of seconds")
	}
	if deleteOnEmpty != nil {
		cfg.DeleteOnEmptySecs = deleteOnEmpty
		touched = true
	}
	if !touched {
		return nil, nil
	}
	return cfg, nil
}

func newCreateBasinMode() *createBasinMode {
	fields := append(
		[]*formField{textField("name", "Basin name", "my-basin-name")},
		streamConfigFields()...,
	)
	fields = append(fields,
		toggleField("create-on-append", "Create stream on append", false),
		toggleField("create-on-read", "Create stream on read", false),
	)
	return &createBasinMode{form: newForm("Create basin", fields...)}
}

func (m *createBasinMode) request() (s2.CreateBasinRequest, error) {
	name := m.form.textValue("name")
	if err := s2.ValidateBasinName(name); err != nil {
		return s2.CreateBasinRequest{}, err
	}
	cfg, err := basinConfigFromForm(m.form)
	if err != nil {
		return s2.CreateBasinRequest{}, err
	}
	return s2.CreateBasinRequest{Basin: name, Config: cfg}, nil
}

func basinConfigFromForm(f *form) (*s2.BasinConfig, error) {
	streamCfg, err := streamConfigFromForm(f)
	if err != nil {
		return nil, err
	}
	onAppend := f.boolValue("create-on-append")
	onRead := f.boolValue("create-on-read")
	if streamCfg == nil && !onAppend && !onRead {
		return nil, nil
	}
	return &s2.BasinConfig{
		DefaultStreamConfig:  streamCfg,
		CreateStreamOnAppend: onAppend,
		CreateStreamOnRead:   onRead,
	}, nil
}

func newCreateStreamMode(basin string) *createStreamMode {
	fields := append(
		[]*formField{textField("name", "Stream name", "events/prod")},
		streamConfigFields()...,
	)
	return &createStreamMode{basin: basin, form: newForm("Create stream", fields...)}
}

func (m *createStreamMode) request() (s2.CreateStreamRequest, error) {
	name := m.form.textValue("name")
	if err := s2.ValidateStreamName(name); err != nil {
		return s2.CreateStreamRequest{}, err
	}
	cfg, err := streamConfigFromForm(m.form)
	if err != nil {
		return s2.CreateStreamRequest{}, err
	}
	return s2.CreateStreamRequest{Stream: name, Config: cfg}, nil
}

func newReconfigureBasinMode(basin string, cfg s2.BasinConfig) *reconfigureBasinMode {
	fields := append(streamConfigFields(),
		toggleField("create-on-append", "Create stream on append", cfg.CreateStreamOnAppend),
		toggleField("create-on-read", "Create stream on read", cfg.CreateStreamOnRead),
	)
	f := newForm("Reconfigure "+basin, fields...)
	if cfg.DefaultStreamConfig != nil {
		prefillStreamConfigFields(f, *cfg.DefaultStreamConfig)
	}
	return &reconfigureBasinMode{basin: basin, form: f}
}

func (m *reconfigureBasinMode) config() (s2.BasinConfig, error) {
	streamCfg, err := streamConfigFromForm(m.form)
	if err != nil {
		return s2.BasinConfig{}, err
	}
	return s2.BasinConfig{
		DefaultStreamConfig:  streamCfg,
		CreateStreamOnAppend: m.form.boolValue("create-on-append"),
		CreateStreamOnRead:   m.form.boolValue("create-on-read"),
	}, nil
}

func newReconfigureStreamMode(basin, stream string, cfg s2.StreamConfig) *reconfigureStreamMode {
	f := newForm("Reconfigure "+stream, streamConfigFields()...)
	prefillStreamConfigFields(f, cfg)
	return &reconfigureStreamMode{basin: basin, stream: stream, form: f}
}

func (m *reconfigureStreamMode) config() (s2.StreamConfig, error) {
	cfg, err := streamConfigFromForm(m.form)
	if err != nil {
		return s2.StreamConfig{}, err
	}
	if cfg == nil {
		return s2.StreamConfig{}, nil
	}
	return *cfg, nil
}

func newCustomReadMode(basin, stream string) *customReadMode {
	startValue := textField("start-value", "Start value", "")
	startValue.enabled = func(f *form) bool { return f.selectValue("start") != startHead }
	fields := []*formField{
		selectField("start", "Start from", startHead, startSeqNum, startTimestamp, startTailOffset),
		startValue,
		textField("count", "Record limit", "unbounded"),
		textField("bytes", "Byte limit", "unbounded"),
		toggleField("clamp", "Clamp start position", false),
		toggleField("follow", "Follow the tail", false),
	}
	return &customReadMode{basin: basin, stream: stream, form: newForm("Read "+stream, fields...)}
}

func (m *customReadMode) request() (s2.ReadRequest, error) {
	var req s2.ReadRequest
	start := m.form.selectValue("start")
	if start != startHead {
		value, ok := m.form.uintValue("start-value")
		if !ok || value == nil {
			return req, fmt.Errorf("start value must be a number")
		}
		switch start {
		case startSeqNum:
			req.Start.SeqNum = value
		case startTimestamp:
			req.Start.Timestamp = value
		case startTailOffset:
			req.Start.TailOffset = value
		}
	}
	count, ok := m.form.uintValue("count")
	if !ok {
		return req, fmt.Errorf("record limit must be a number")
	}
	req.Count = count
	bytes, ok := m.form.uintValue("bytes")
	if !ok {
		return req, fmt.Errorf("byte limit must be a number")
	}
	req.Bytes = bytes
	req.Clamp = m.form.boolValue("clamp")
	req.Tail = m.form.boolValue("follow")
	return req, nil
}

func newFenceMode(basin, stream string) *fenceMode {
	fields := []*formField{
		textField("token", "Fencing token (empty clears)", ""),
	}
	return &fenceMode{basin: basin, stream: stream, form: newForm("Fence "+stream, fields...)}
}

func newTrimMode(basin, stream string) *trimMode {
	fields := []*formField{
		textField("point", "Trim before sequence number", ""),
	}
	return &trimMode{basin: basin, stream: stream, form: newForm("Trim "+stream, fields...)}
}

func (m *trimMode) point() (uint64, error) {
	point, ok := m.form.uintValue("point")
	if !ok || point == nil {
		return 0, fmt.Errorf("trim point must be a sequence number")
	}
	return *point, nil
}

func newIssueTokenMode() *issueTokenMode {
	basinValue := textField("basins-value", "Basins match value", "")
	basinValue.enabled = func(f *form) bool { return matcherNeedsValue(f.selectValue("basins")) }
	streamValue := textField("streams-value", "Streams match value", "")
	streamValue.enabled = func(f *form) bool { return matcherNeedsValue(f.selectValue("streams")) }
	tokenValue := textField("tokens-value", "Tokens match value", "")
	tokenValue.enabled = func(f *form) bool { return matcherNeedsValue(f.selectValue("tokens")) }
	fields := []*formField{
		textField("id", "Token id", "ci-reader"),
		textField("expiry", "Expires in (days)", "never"),
		toggleField("auto-prefix", "Auto-prefix stream names", false),
		selectField("basins", "Basins scope", matcherNone, matcherAll, matcherPrefix, matcherExact),
		basinValue,
		selectField("streams", "Streams scope", matcherNone, matcherAll, matcherPrefix, matcherExact),
		streamValue,
		selectField("tokens", "Tokens scope", matcherNone, matcherAll, matcherPrefix, matcherExact),
		tokenValue,
		toggleField("op-read", "Allow read ops", false),
		toggleField("op-write", "Allow write ops", false),
		toggleField("op-admin", "Allow admin ops", false),
	}
	return &issueTokenMode{form: newForm("Issue access token", fields...)}
}

func matcherNeedsValue(kind string) bool {
	return kind == matcherPrefix || kind == matcherExact
}

func matcherFromForm(f *form, kindKey, valueKey string) (*s2.ResourceMatcher, error) {
	switch f.selectValue(kindKey) {
	case matcherNone:
		return nil, nil
	case matcherAll:
		return &s2.ResourceMatcher{Prefix: ""}, nil
	case matcherPrefix:
		value := f.textValue(valueKey)
		if value == "" {
			return nil, fmt.Errorf("%s prefix must not be empty", kindKey)
		}
		return &s2.ResourceMatcher{Prefix: value}, nil
	case matcherExact:
		value := f.textValue(valueKey)
		if value == "" {
			return nil, fmt.Errorf("%s exact match must not be empty", kindKey)
		}
		return &s2.ResourceMatcher{Exact: value}, nil
	}
	return nil, nil
}

func (m *issueTokenMode) request(now time.Time) (s2.IssueAccessTokenRequest, error) {
	var req s2.IssueAccessTokenRequest
	req.ID = m.form.textValue("id")
	if req.ID == "" {
		return req, fmt.Errorf("token id must not be empty")
	}
	if days, ok := m.form.uintValue("expiry"); !ok {
		return req, fmt.Errorf("expiry must be a number of days")
	} else if days != nil {
		expires := now.Add(time.Duration(*days) * 24 * time.Hour)
		req.ExpiresAt = &expires
	}
	req.AutoPrefixStreams = m.form.boolValue("auto-prefix")
	var err error
	if req.Scope.Basins, err = matcherFromForm(m.form, "basins", "basins-value"); err != nil {
		return req, err
	}
	if req.Scope.Streams, err = matcherFromForm(m.form, "streams", "streams-value"); err != nil {
		return req, err
	}
	if req.Scope.AccessTokens, err = matcherFromForm(m.form, "tokens", "tokens-value"); err != nil {
		return req, err
	}
	for _, group := range []struct {
		key  string
		name string
	}{
		{"op-read", "read"},
		{"op-write", "write"},
		{"op-admin", "admin"},
	} {
		if m.form.boolValue(group.key) {
			req.Scope.Ops = append(req.Scope.Ops, group.name)
		}
	}
	if len(req.Scope.Ops) == 0 {
		return req, fmt.Errorf("select at least one op group")
	}
	return req, nil
}

func newAppendForm() *form {
	return newForm("Append record",
		textField("body", "Body", ""),
		textField("headers", "Headers (name=value, comma separated)", ""),
		textField("timestamp", "Timestamp (ms, empty for service clock)", ""),
		textField("fencing-token", "Fencing token", ""),
		textField("match-seq", "Match sequence number", ""),
	)
}

func appendInputFromForm(f *form) (s2.AppendInput, error) {
	var input s2.AppendInput
	record := s2.AppendRecord{Body: []byte(f.field("body").value)}
	headers, err := parseHeaders(f.textValue("headers"))
	if err != nil {
		return input, err
	}
	record.Headers = headers
	ts, ok := f.uintValue("timestamp")
	if !ok {
		return input, fmt.Errorf("timestamp must be milliseconds since epoch")
	}
	record.Timestamp = ts
	input.Records = []s2.AppendRecord{record}
	input.FencingToken = f.textValue("fencing-token")
	match, ok := f.uintValue("match-seq")
	if !ok {
		return input, fmt.Errorf("match sequence number must be a number")
	}
	input.MatchSeqNum = match
	return input, nil
}
