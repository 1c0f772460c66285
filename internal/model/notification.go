package model

type NotificationLevel string

const (
	NotificationInfo  NotificationLevel = "info"
	NotificationError NotificationLevel = "error"
)

// Notification is a transient, non-blocking message for the user.
type Notification struct {
	Level       NotificationLevel
	Title       string
	Description string
}
