package navtree

// Panel is the state of one navigation panel: whether it follows the
// content frame, which node it shows as active, and the last page seen.
// A Panel belongs to a single owner; it does no locking.
type Panel struct {
	enabled bool
	msgs    Messages
	active  Resolution
	lastURL string
}

// NewPanel returns a panel with synchronisation enabled. Empty messages
// fall back to DefaultMessages.
func NewPanel(msgs Messages) *Panel {
	p := &Panel{enabled: true, active: Resolution{IndexPos: -1}}
	p.SetMessages(msgs)
	return p
}

// SetMessages replaces the control labels, for instance after the tree was
// reloaded with new ones. Empty messages fall back to DefaultMessages.
func (p *Panel) SetMessages(msgs Messages) {
	if msgs.SyncOn == "" {
		msgs.SyncOn = DefaultMessages.SyncOn
	}
	if msgs.SyncOff == "" {
		msgs.SyncOff = DefaultMessages.SyncOff
	}
	p.msgs = msgs
}

// Enabled reports whether the panel follows navigation.
func (p *Panel) Enabled() bool { return p.enabled }

// Label is the text of the synchronisation control: SYNCONMSG ("click to
// disable ...") while enabled, SYNCOFFMSG while disabled.
func (p *Panel) Label() string {
	if p.enabled {
		return p.msgs.SyncOn
	}
	return p.msgs.SyncOff
}

// Toggle flips synchronisation and returns the new state.
func (p *Panel) Toggle() bool {
	p.enabled = !p.enabled
	return p.enabled
}

// Active returns the resolution the panel currently shows.
func (p *Panel) Active() Resolution { return p.active }

// LastURL returns the most recent page passed to Navigate.
func (p *Panel) LastURL() string { return p.lastURL }

// Navigate records a content-frame navigation. While enabled the page is
// resolved and becomes the active selection; while disabled the panel stays
// frozen. The returned flag tells whether the selection was updated.
func (p *Panel) Navigate(r *Resolver, url string) (Resolution, bool) {
	p.lastURL = url
	if !p.enabled || r == nil {
		return p.active, false
	}
	p.active = r.Resolve(url)
	return p.active, true
}

// Resync re-resolves the last page seen, used after synchronisation is
// switched back on.
func (p *Panel) Resync(r *Resolver) Resolution {
	if p.enabled && r != nil && p.lastURL != "" {
		p.active = r.Resolve(p.lastURL)
	}
	return p.active
}
