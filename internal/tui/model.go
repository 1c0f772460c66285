package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/s21platform/chat-client/internal/conversation"
	"github.com/s21platform/chat-client/internal/model"
)

type screen int

const (
	screenPicker screen = iota
	screenChat
)

const (
	headerHeight = 2
	footerHeight = 5
)

type peersMsg struct {
	query string
	peers model.IdentityList
	err   error
}

type openedMsg struct {
	conv *conversation.Conversation
	err  error
}

type changedMsg struct {
	conv *conversation.Conversation
}

type noticeMsg struct {
	notice model.Notification
}

type reloadedMsg struct {
	conv *conversation.Conversation
	err  error
}

type Options struct {
	PeerLimit uint64
}

// Model is the terminal view: a peer picker and the open conversation.
type Model struct {
	ctx      context.Context
	identity model.Identity
	opener   Opener
	peers    PeerSearcher
	notices  <-chan model.Notification
	opts     Options

	screen     screen
	filter     textinput.Model
	input      textinput.Model
	timeline   viewport.Model
	styles     styles
	candidates model.IdentityList
	cursor     int
	conv       *conversation.Conversation
	notice     *model.Notification
	width      int
}

func New(
	ctx context.Context,
	identity model.Identity,
	opener Opener,
	peers PeerSearcher,
	notices <-chan model.Notification,
	opts Options,
) Model {
	filter := textinput.New()
	filter.Prompt = "search: "
	filter.Placeholder = "email"
	filter.Focus()

	input := textinput.New()
	input.Prompt = "❯ "
	input.Placeholder = "Type a message"

	return Model{
		ctx:      ctx,
		identity: identity,
		opener:   opener,
		peers:    peers,
		notices:  notices,
		opts:     opts,
		screen:   screenPicker,
		filter:   filter,
		input:    input,
		timeline: viewport.New(0, 0),
		styles:   newStyles(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.searchCmd(""),
		waitNotice(m.notices),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.timeline.Width = msg.Width
		m.timeline.Height = max(msg.Height-headerHeight-footerHeight, 1)
		m.filter.Width = max(msg.Width-len(m.filter.Prompt)-2, 1)
		m.input.Width = max(msg.Width-len(m.input.Prompt)-2, 1)
		m.refreshTimeline()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.screen == screenChat {
			return m.updateChat(msg)
		}
		return m.updatePicker(msg)

	case peersMsg:
		if msg.query != m.filter.Value() {
			return m, nil
		}
		if msg.err != nil {
			m.notice = &model.Notification{Level: model.NotificationError, Title: "Error", Description: "Failed to search users."}
			return m, nil
		}
		m.candidates = msg.peers
		m.cursor = min(m.cursor, max(len(m.candidates)-1, 0))
		return m, nil

	case openedMsg:
		if msg.err != nil {
			m.notice = &model.Notification{Level: model.NotificationError, Title: "Error", Description: msg.err.Error()}
			return m, nil
		}
		m.conv = msg.conv
		m.screen = screenChat
		m.filter.Blur()
		m.refreshTimeline()
		focus := m.input.Focus()
		return m, tea.Batch(focus, waitChange(msg.conv), waitLoaded(msg.conv))

	case changedMsg:
		if msg.conv != m.conv {
			return m, nil
		}
		m.refreshTimeline()
		return m, waitChange(msg.conv)

	case reloadedMsg:
		if msg.conv == m.conv {
			m.refreshTimeline()
		}
		return m, nil

	case noticeMsg:
		notice := msg.notice
		m.notice = &notice
		m.refreshTimeline()
		return m, waitNotice(m.notices)
	}

	return m, nil
}

func (m Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down":
		if m.cursor < len(m.candidates)-1 {
			m.cursor++
		}
		return m, nil
	case "enter":
		if len(m.candidates) == 0 {
			return m, nil
		}
		return m, m.openCmd(m.candidates[m.cursor])
	case "esc":
		if m.conv != nil {
			m.screen = screenChat
			m.filter.Blur()
			focus := m.input.Focus()
			return m, focus
		}
		return m, nil
	}

	before := m.filter.Value()
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	if m.filter.Value() == before {
		return m, cmd
	}

	m.cursor = 0
	return m, tea.Batch(cmd, m.searchCmd(m.filter.Value()))
}

func (m Model) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.screen = screenPicker
		m.input.Blur()
		focus := m.filter.Focus()
		return m, focus
	case "enter":
		if _, ok := m.conv.Send(m.input.Value()); ok {
			m.input.Reset()
		}
		m.refreshTimeline()
		return m, nil
	case "ctrl+r":
		if failed, ok := m.conv.LastFailed(); ok {
			m.conv.Retry(failed.ID)
		}
		m.refreshTimeline()
		return m, nil
	case "ctrl+l":
		return m, m.reloadCmd(m.conv)
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.timeline, cmd = m.timeline.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m *Model) refreshTimeline() {
	if m.conv == nil {
		return
	}

	m.timeline.SetContent(renderMessages(m.styles, m.identity, m.conv.Peer(), m.conv.Messages()))
	m.timeline.GotoBottom()
}

func (m Model) View() string {
	var b strings.Builder

	if m.screen == screenChat && m.conv != nil {
		title := fmt.Sprintf("%s ↔ %s", m.identity.Email, m.conv.Peer().Email)
		if m.conv.Loading() {
			title += " (loading…)"
		}
		b.WriteString(m.styles.header.Render(title))
		b.WriteString("\n")
		b.WriteString(m.timeline.View())
		b.WriteString("\n")
		b.WriteString(m.styles.panel.Render(m.input.View()))
		b.WriteString("\n")
		b.WriteString(m.styles.muted.Render("enter send · ctrl+r retry failed · ctrl+l reload · esc peers · ctrl+c quit"))
	} else {
		b.WriteString(m.styles.header.Render("Chat as " + m.identity.Email))
		b.WriteString("\n")
		b.WriteString(m.styles.panel.Render(m.filter.View()))
		b.WriteString("\n")
		b.WriteString(renderPeers(m.styles, m.candidates, m.cursor))
		b.WriteString("\n")
		b.WriteString(m.styles.muted.Render("↑/↓ choose · enter open · ctrl+c quit"))
	}

	if m.notice != nil {
		b.WriteString("\n")
		b.WriteString(renderNotice(m.styles, *m.notice))
	}

	return b.String()
}

func (m Model) searchCmd(query string) tea.Cmd {
	ctx, searcher, excludeID, limit := m.ctx, m.peers, m.identity.ID, m.opts.PeerLimit
	return func() tea.Msg {
		peers, err := searcher.SearchPeers(ctx, query, excludeID, limit)
		return peersMsg{query: query, peers: peers, err: err}
	}
}

func (m Model) openCmd(peer model.Identity) tea.Cmd {
	ctx, opener := m.ctx, m.opener
	return func() tea.Msg {
		conv, err := opener.Open(ctx, peer)
		return openedMsg{conv: conv, err: err}
	}
}

func (m Model) reloadCmd(conv *conversation.Conversation) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return reloadedMsg{conv: conv, err: conv.Reload(ctx)}
	}
}

func waitChange(conv *conversation.Conversation) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-conv.Changes():
			return changedMsg{conv: conv}
		case <-conv.Done():
			return nil
		}
	}
}

func waitLoaded(conv *conversation.Conversation) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-conv.Loaded():
			return reloadedMsg{conv: conv}
		case <-conv.Done():
			return nil
		}
	}
}

func waitNotice(ch <-chan model.Notification) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		notice, ok := <-ch
		if !ok {
			return nil
		}
		return noticeMsg{notice: notice}
	}
}
