package s2

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// ReadStart selects where a read begins. At most one field is set; all nil
// means the head of the stream. TailOffset counts back from the tail.
type ReadStart struct {
	SeqNum     *uint64
	Timestamp  *uint64
	TailOffset *uint64
}

type ReadRequest struct {
	Start ReadStart
	// Count and Bytes bound the read; nil means unbounded.
	Count *uint64
	Bytes *uint64
	// Clamp snaps an out-of-range start position to the nearest valid one
	// instead of failing.
	Clamp bool
	// Tail keeps the session open at the end of the stream, delivering
	// records as they are appended.
	Tail bool
}

// ReadEvent is one item from a read session. Exactly one of Record, Err or
// End is meaningful; Err and End are terminal.
type ReadEvent struct {
	Record *SequencedRecord
	Tail   *StreamPosition
	Err    error
	End    bool
}

// ReadSession is a single-attempt streaming read. Events arrive on C until a
// terminal event, after which C is closed. Close abandons the session.
type ReadSession struct {
	C      <-chan ReadEvent
	cancel context.CancelFunc
}

func (s *ReadSession) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}

type readBatch struct {
	Records []SequencedRecord `json:"records"`
	Tail    *StreamPosition   `json:"tail,omitempty"`
}

// Read opens a streaming read over SSE. The returned session must be closed
// when abandoned; a session that ends on its own still tolerates Close.
func (c *Client) Read(ctx context.Context, basin, stream string, req ReadRequest) (*ReadSession, error) {
	q := url.Values{}
	switch {
	case req.Start.SeqNum != nil:
		q.Set("seq_num", strconv.FormatUint(*req.Start.SeqNum, 10))
	case req.Start.Timestamp != nil:
		q.Set("timestamp", strconv.FormatUint(*req.Start.Timestamp, 10))
	case req.Start.TailOffset != nil:
		q.Set("tail_offset", strconv.FormatUint(*req.Start.TailOffset, 10))
	}
	if req.Count != nil {
		q.Set("count", strconv.FormatUint(*req.Count, 10))
	}
	if req.Bytes != nil {
		q.Set("bytes", strconv.FormatUint(*req.Bytes, 10))
	}
	if req.Clamp {
		q.Set("clamp", "true")
	}
	if req.Tail {
		q.Set("tail", "true")
	}
	target := c.basinPath(basin, "/v1/streams/"+url.PathEscape(stream)+"/records")
	if len(q) > 0 {
		target += "?" + q.Encode()
	}

	ctx, cancel := context.WithCancel(ctx)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		cancel()
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.token)
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("Accept", "text/event-stream")

	// Streaming reads must not inherit the client-wide request timeout.
	streamClient := &http.Client{Transport: c.http.Transport}
	resp, err := streamClient.Do(httpReq)
	if err != nil {
		cancel()
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := decodeAPIError(resp)
		resp.Body.Close()
		cancel()
		return nil, err
	}

	events := make(chan ReadEvent)
	session := &ReadSession{C: events, cancel: cancel}
	go func() {
		defer close(events)
		defer resp.Body.Close()
		err := consumeSSE(ctx, resp.Body, events)
		switch {
		case err == nil:
			send(ctx, events, ReadEvent{End: true})
		case errors.Is(err, context.Canceled):
			// Abandoned by the caller; nothing to report.
		default:
			send(ctx, events, ReadEvent{Err: err})
		}
	}()
	return session, nil
}

func consumeSSE(ctx context.Context, body io.Reader, events chan<- ReadEvent) error {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 64<<10), 4<<20)
	var eventName string
	var data strings.Builder
	dispatch := func() error {
		defer func() {
			eventName = ""
			data.Reset()
		}()
		switch eventName {
		case "batch", "":
			if data.Len() == 0 {
				return nil
			}
			var batch readBatch
			if err := json.Unmarshal([]byte(data.String()), &batch); err != nil {
				return fmt.Errorf("s2: decode read batch: %w", err)
			}
			for i := range batch.Records {
				if !send(ctx, events, ReadEvent{Record: &batch.Records[i], Tail: batch.Tail}) {
					return ctx.Err()
				}
			}
			return nil
		case "error":
			return &APIError{Status: http.StatusInternalServerError, Message: data.String()}
		default:
			// Unknown event types (pings, heartbeats) are skipped.
			return nil
		}
	}
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if err := dispatch(); err != nil {
				return err
			}
		case strings.HasPrefix(line, "event:"):
			eventName = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimSpace(strings.TrimPrefix(line, "data:")))
		}
	}
	if err := scanner.Err(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return dispatch()
}

func send(ctx context.Context, events chan<- ReadEvent, ev ReadEvent) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
