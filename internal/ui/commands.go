package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/s2-streamstore/s2-tui/internal/logging/events"
	"github.com/s2-streamstore/s2-tui/internal/s2"
	"github.com/s2-streamstore/s2-tui/internal/updates"
)

const requestTimeout = 30 * time.Second

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

func (m *Model) loadBasinsCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		done := events.Request.Dispatch("list-basins", "", "")
		ctx, cancel := requestContext()
		defer cancel()
		basins, err := client.ListBasins(ctx, s2.ListBasinsRequest{Limit: maxListItems})
		done(err)
		return basinsLoadedMsg{basins: basins, err: err}
	}
}

func (m *Model) loadStreamsCmd(basin string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		done := events.Request.Dispatch("list-streams", basin, "")
		ctx, cancel := requestContext()
		defer cancel()
		streams, err := client.ListStreams(ctx, basin, s2.ListStreamsRequest{Limit: maxListItems})
		done(err)
		return streamsLoadedMsg{basin: basin, streams: streams, err: err}
	}
}

func (m *Model) loadStreamConfigCmd(basin, stream string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		done := events.Request.Dispatch("get-stream-config", basin, stream)
		ctx, cancel := requestContext()
		defer cancel()
		config, err := client.GetStreamConfig(ctx, basin, stream)
		done(err)
		return streamConfigLoadedMsg{basin: basin, stream: stream, config: config, err: err}
	}
}

func (m *Model) loadTailCmd(basin, stream string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		done := events.Request.Dispatch("check-tail", basin, stream)
		ctx, cancel := requestContext()
		defer cancel()
		tail, err := client.CheckTail(ctx, basin, stream)
		done(err)
		return tailLoadedMsg{basin: basin, stream: stream, tail: tail, err: err}
	}
}

func (m *Model) createBasinCmd(req s2.CreateBasinRequest) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		done := events.Request.Dispatch("create-basin", req.Basin, "")
		ctx, cancel := requestContext()
		defer cancel()
		_, err := client.CreateBasin(ctx, req)
		done(err)
		return basinCreatedMsg{name: req.Basin, err: err}
	}
}

func (m *Model) deleteBasinCmd(name string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		done := events.Request.Dispatch("delete-basin", name, "")
		ctx, cancel := requestContext()
		defer cancel()
		err := client.DeleteBasin(ctx, name)
		done(err)
		return basinDeletedMsg{name: name, err: err}
	}
}

func (m *Model) createStreamCmd(basin string, req s2.CreateStreamRequest) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		done := events.Request.Dispatch("create-stream", basin, req.Stream)
		ctx, cancel := requestContext()
		defer cancel()
		_, err := client.CreateStream(ctx, basin, req)
		done(err)
		return streamCreatedMsg{basin: basin, name: req.Stream, err: err}
	}
}

func (m *Model) deleteStreamCmd(basin, name string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		done := events.Request.Dispatch("delete-stream", basin, name)
		ctx, cancel := requestContext()
		defer cancel()
		err := client.DeleteStream(ctx, basin, name)
		done(err)
		return streamDeletedMsg{basin: basin, name: name, err: err}
	}
}

func (m *Model) loadBasinConfigCmd(basin string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		done := events.Request.Dispatch("get-basin-config", basin, "")
		ctx, cancel := requestContext()
		defer cancel()
		config, err := client.GetBasinConfig(ctx, basin)
		done(err)
		return basinConfigLoadedMsg{basin: basin, config: config, err: err}
	}
}

func (m *Model) loadStreamConfigForEditCmd(basin, stream string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		done := events.Request.Dispatch("get-stream-config", basin, stream)
		ctx, cancel := requestContext()
		defer cancel()
		config, err := client.GetStreamConfig(ctx, basin, stream)
		done(err)
		return streamConfigForEditMsg{basin: basin, stream: stream, config: config, err: err}
	}
}

func (m *Model) reconfigureBasinCmd(basin string, config s2.BasinConfig) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		done := events.Request.Dispatch("reconfigure-basin", basin, "")
		ctx, cancel := requestContext()
		defer cancel()
		_, err := client.ReconfigureBasin(ctx, basin, config)
		done(err)
		return basinReconfiguredMsg{basin: basin, err: err}
	}
}

func (m *Model) reconfigureStreamCmd(basin, stream string, config s2.StreamConfig) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		done := events.Request.Dispatch("reconfigure-stream", basin, stream)
		ctx, cancel := requestContext()
		defer cancel()
		_, err := client.ReconfigureStream(ctx, basin, stream, config)
		done(err)
		return streamReconfiguredMsg{basin: basin, stream: stream, err: err}
	}
}

func (m *Model) appendCmd(basin, stream string, input s2.AppendInput) tea.Cmd {
	client := m.client
	count := len(input.Records)
	return func() tea.Msg {
		done := events.Request.Dispatch("append", basin, stream)
		ctx, cancel := requestContext()
		defer cancel()
		ack, err := client.Append(ctx, basin, stream, input)
		done(err)
		return recordAppendedMsg{basin: basin, stream: stream, count: count, ack: ack, err: err}
	}
}

func (m *Model) fenceCmd(basin, stream, token string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		done := events.Request.Dispatch("fence", basin, stream)
		ctx, cancel := requestContext()
		defer cancel()
		_, err := client.Fence(ctx, basin, stream, token)
		done(err)
		return streamFencedMsg{basin: basin, stream: stream, token: token, err: err}
	}
}

func (m *Model) trimCmd(basin, stream string, point uint64) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		done := events.Request.Dispatch("trim", basin, stream)
		ctx, cancel := requestContext()
		defer cancel()
		_, err := client.Trim(ctx, basin, stream, point)
		done(err)
		return streamTrimmedMsg{basin: basin, stream: stream, point: point, err: err}
	}
}

func (m *Model) loadTokensCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		done := events.Request.Dispatch("list-access-tokens", "", "")
		ctx, cancel := requestContext()
		defer cancel()
		tokens, err := client.ListAccessTokens(ctx, s2.ListAccessTokensRequest{Limit: maxListItems})
		done(err)
		return tokensLoadedMsg{tokens: tokens, err: err}
	}
}

func (m *Model) issueTokenCmd(req s2.IssueAccessTokenRequest) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		done := events.Request.Dispatch("issue-access-token", "", "")
		ctx, cancel := requestContext()
		defer cancel()
		secret, err := client.IssueAccessToken(ctx, req)
		done(err)
		return tokenIssuedMsg{id: req.ID, secret: secret, err: err}
	}
}

func (m *Model) revokeTokenCmd(id string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		done := events.Request.Dispatch("revoke-access-token", "", "")
		ctx, cancel := requestContext()
		defer cancel()
		_, err := client.RevokeAccessToken(ctx, id)
		done(err)
		return tokenRevokedMsg{id: id, err: err}
	}
}

func (m *Model) loadMetricsCmd(basin, stream string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		done := events.Request.Dispatch("metrics", basin, stream)
		ctx, cancel := requestContext()
		defer cancel()
		series, err := client.Metrics(ctx, s2.MetricsRequest{Basin: basin, Stream: stream})
		done(err)
		return metricsLoadedMsg{basin: basin, stream: stream, series: series, err: err}
	}
}

func (m *Model) checkUpdatesCmd() tea.Cmd {
	current := m.version
	return func() tea.Msg {
		latest, err := updates.LatestVersion(context.Background())
		if err == nil && !updates.Newer(current, latest) {
			latest = ""
		}
		if latest == "" && err == nil {
			return updateCheckMsg{}
		}
		return updateCheckMsg{latest: latest, err: err}
	}
}
