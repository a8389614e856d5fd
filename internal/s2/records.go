package s2

import (
	"context"
	"encoding/binary"
	"fmt"
	"net/http"
	"net/url"
)

type AppendInput struct {
	Records []AppendRecord `json:"records"`
	// MatchSeqNum enforces that the first record lands at this sequence
	// number; the append fails otherwise.
	MatchSeqNum *uint64 `json:"match_seq_num,omitempty"`
	// FencingToken must match the stream's current fencing token when one
	// has been set.
	FencingToken string `json:"fencing_token,omitempty"`
}

func (c *Client) Append(ctx context.Context, basin, stream string, input AppendInput) (AppendAck, error) {
	if len(input.Records) == 0 {
		return AppendAck{}, fmt.Errorf("s2: append requires at least one record")
	}
	var ack AppendAck
	err := c.do(ctx, http.MethodPost, c.basinPath(basin, "/v1/streams/"+url.PathEscape(stream)+"/records"), input, &ack)
	return ack, err
}

// FenceCommand builds the command record that sets (or clears, with an empty
// token) the stream's fencing token.
func FenceCommand(token string) AppendRecord {
	return AppendRecord{
		Headers: []Header{{Name: []byte{}, Value: []byte("fence")}},
		Body:    []byte(token),
	}
}

// TrimCommand builds the command record that requests deletion of all
// records with sequence numbers below the trim point.
func TrimCommand(trimPoint uint64) AppendRecord {
	body := make([]byte, 8)
	binary.BigEndian.PutUint64(body, trimPoint)
	return AppendRecord{
		Headers: []Header{{Name: []byte{}, Value: []byte("trim")}},
		Body:    body,
	}
}

func (c *Client) Fence(ctx context.Context, basin, stream, token string) (AppendAck, error) {
	if len(token) > 36 {
		return AppendAck{}, fmt.Errorf("s2: fencing token must be at most 36 characters")
	}
	return c.Append(ctx, basin, stream, AppendInput{Records: []AppendRecord{FenceCommand(token)}})
}

func (c *Client) Trim(ctx context.Context, basin, stream string, trimPoint uint64) (AppendAck, error) {
	return c.Append(ctx, basin, stream, AppendInput{Records: []AppendRecord{TrimCommand(trimPoint)}})
}
