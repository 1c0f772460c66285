package tui

import (
	"strings"

	"github.com/s21platform/chat-client/internal/model"
)

const timeLayout = "15:04"

func renderMessages(st styles, self, peer model.Identity, messages []model.Message) string {
	if len(messages) == 0 {
		return st.muted.Render("No messages yet.")
	}

	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		lines = append(lines, renderMessage(st, self, peer, msg))
	}

	return strings.Join(lines, "\n")
}

func renderMessage(st styles, self, peer model.Identity, msg model.Message) string {
	author := st.peer.Render(peer.Email)
	if msg.SenderID == self.ID {
		author = st.self.Render("you")
	}

	line := st.muted.Render(msg.Timestamp.Local().Format(timeLayout)) + " " + author + ": " + msg.Content

	switch msg.Status {
	case model.StatusSending:
		line += " " + st.muted.Render("…")
	case model.StatusSent:
		line += " " + st.muted.Render("✓")
	case model.StatusFailed:
		line += " " + st.failed.Render("✗ failed, ctrl+r to retry")
	}

	return line
}

func renderPeers(st styles, peers model.IdentityList, cursor int) string {
	if len(peers) == 0 {
		return st.muted.Render("No users found.")
	}

	lines := make([]string, 0, len(peers))
	for i, peer := range peers {
		if i == cursor {
			lines = append(lines, st.selected.Render("› "+peer.Email))
			continue
		}
		lines = append(lines, "  "+peer.Email)
	}

	return strings.Join(lines, "\n")
}

func renderNotice(st styles, notice model.Notification) string {
	text := notice.Title + ": " + notice.Description
	if notice.Level == model.NotificationError {
		return st.error.Render(text)
	}

	return st.info.Render(text)
}
