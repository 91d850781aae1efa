package app

import "sync"

// Screen is which of the three mutually exclusive views is active.
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenDashboard
	ScreenDetail
)

func (s Screen) String() string {
	switch s {
	case ScreenLogin:
		return "login"
	case ScreenDashboard:
		return "dashboard"
	case ScreenDetail:
		return "detail"
	}
	return "unknown"
}

// Navigator tracks the active screen. Exactly one screen is active at a
// time; Detail additionally carries the selected student code.
type Navigator struct {
	mu         sync.Mutex
	screen     Screen
	detailCode string
	subs       []func(Screen)
}

func NewNavigator() *Navigator {
	return &Navigator{screen: ScreenLogin}
}

// Current returns the active screen and, for Detail, the selected code.
func (n *Navigator) Current() (Screen, string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.screen, n.detailCode
}

// Subscribe registers a callback fired after every transition.
func (n *Navigator) Subscribe(fn func(Screen)) {
	n.mu.Lock()
	n.subs = append(n.subs, fn)
	n.mu.Unlock()
}

func (n *Navigator) ShowLogin() {
	n.show(ScreenLogin, "")
}

func (n *Navigator) ShowDashboard() {
	n.show(ScreenDashboard, "")
}

func (n *Navigator) ShowDetail(code string) {
	n.show(ScreenDetail, code)
}

// Back leaves the detail view; on any other screen it is a no-op.
func (n *Navigator) Back() {
	n.mu.Lock()
	if n.screen != ScreenDetail {
		n.mu.Unlock()
		return
	}
	n.mu.Unlock()
	n.show(ScreenDashboard, "")
}

func (n *Navigator) show(screen Screen, code string) {
	n.mu.Lock()
	n.screen = screen
	n.detailCode = code
	subs := n.subs
	n.mu.Unlock()

	for _, fn := range subs {
		fn(screen)
	}
}
