package platform

import "time"

// DefaultAppName identifies trendlines to the notification daemon.
const DefaultAppName = "trendlines"

// DefaultTimeout is how long a notice stays on screen when Options leaves it unset.
const DefaultTimeout = 5 * time.Second

// Options configures how a notification is displayed on the host platform.
type Options struct {
	AppName string
	// IconPath, when non-empty, points to an image file shown with the notice
	// where the platform supports it.
	IconPath string
	Timeout  time.Duration
}

func (o Options) appName() string {
	if o.AppName == "" {
		return DefaultAppName
	}
	return o.AppName
}

// expireMillis is the timeout in the freedesktop convention: -1 lets the
// server decide.
func (o Options) expireMillis() int32 {
	switch {
	case o.Timeout < 0:
		return -1
	case o.Timeout == 0:
		return int32(DefaultTimeout / time.Millisecond)
	default:
		return int32(o.Timeout / time.Millisecond)
	}
}
