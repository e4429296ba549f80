package models

// Entity kinds map 1:1 to document-store collection names.
const (
	KindSignal       = "signals"
	KindAnnouncement = "announcements"
	KindAuthUser     = "users"
	KindNotification = "notifications"
)

// StreamableKinds are the kinds the live collection store keeps open
// subscriptions for. Notifications are write-only and never streamed.
func StreamableKinds() []string {
	return []string{KindSignal, KindAnnouncement, KindAuthUser}
}
