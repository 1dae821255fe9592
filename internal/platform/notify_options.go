// Package platform sends desktop notifications through the host's
// notification service.
package platform

import "time"

// AppName identifies the sender to the notification service.
const AppName = "Sketchbar"

// DefaultTimeout is how long a notification stays visible when the
// platform lets the sender choose.
const DefaultTimeout = 5 * time.Second

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath, when non-empty, points to an image file the notification center
	// should display with the notification if supported by the platform.
	IconPath string
	// Timeout overrides DefaultTimeout where supported.
	Timeout time.Duration
}

func (o Options) expireMillis() int32 {
	if o.Timeout <= 0 {
		return int32(DefaultTimeout / time.Millisecond)
	}
	return int32(o.Timeout / time.Millisecond)
}
