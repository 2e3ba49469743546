// Package notify shows toast notifications and mirrors them to the other
// open tabs of the same session.
//
// Every tab owns a Broadcaster. Notify displays a toast locally exactly once
// and publishes it on the tab's Channel; Receive, used for toasts arriving
// from the channel, only displays. Received toasts are never published
// again, so a toast cannot bounce between tabs.
package notify

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// Kind is the toast style.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
)

var ErrUnknownKind = errors.New("notify: unknown toast kind")

// ParseKind converts a kind name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("%w %q", ErrUnknownKind, s)
	}
	return k, nil
}

// Valid reports whether k is one of the four kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindSuccess, KindError, KindInfo, KindWarning:
		return true
	}
	return false
}

func (k Kind) String() string { return string(k) }

// Defaults applied to every toast.
const (
	DefaultPosition = "top-right"
	DefaultDuration = 6000 // milliseconds
)

// Options tune how a toast is shown. Zero fields take the defaults.
type Options struct {
	Position string `json:"position,omitempty"`
	Duration int    `json:"duration,omitempty"` // milliseconds
}

// WithDefaults fills unset fields.
func (o Options) WithDefaults() Options {
	if o.Position == "" {
		o.Position = DefaultPosition
	}
	if o.Duration <= 0 {
		o.Duration = DefaultDuration
	}
	return o
}

// Message is one toast. On the wire it is {"kind", "message", "options"}
// plus the id and the tab it came from.
type Message struct {
	ID      string  `json:"id"`
	Kind    Kind    `json:"kind"`
	Text    string  `json:"message"`
	Options Options `json:"options"`
	Origin  string  `json:"origin,omitempty"`
}

// NewMessage builds a toast with a fresh id and default options applied.
func NewMessage(kind Kind, text string, opts Options) Message {
	return Message{
		ID:      uuid.NewString(),
		Kind:    kind,
		Text:    text,
		Options: opts.WithDefaults(),
	}
}

// Validate checks a toast received from a tab.
func (m Message) Validate() error {
	if !m.Kind.Valid() {
		return fmt.Errorf("%w %q", ErrUnknownKind, m.Kind)
	}
	if strings.TrimSpace(m.Text) == "" {
		return errors.New("notify: empty toast message")
	}
	return nil
}

// Displayer renders a toast in one tab.
type Displayer interface {
	Display(Message)
}

// DisplayFunc adapts a function to Displayer.
type DisplayFunc func(Message)

func (f DisplayFunc) Display(m Message) { f(m) }

// Channel carries toasts to the other tabs.
type Channel interface {
	Publish(Message) error
}

// Broadcaster is the toast entry point of one tab.
type Broadcaster struct {
	tab     string
	display Displayer
	channel Channel
}

// NewBroadcaster returns the broadcaster of tab. A nil channel is allowed
// and limits the broadcaster to local display.
func NewBroadcaster(tab string, display Displayer, channel Channel) *Broadcaster {
	return &Broadcaster{tab: tab, display: display, channel: channel}
}

// Tab returns the tab id.
func (b *Broadcaster) Tab() string { return b.tab }

// Notify displays a toast in this tab and publishes it to the others. A
// missing or failing channel is logged and otherwise ignored.
func (b *Broadcaster) Notify(kind Kind, text string, opts Options) Message {
	msg := NewMessage(kind, text, opts)
	msg.Origin = b.tab
	b.show(msg)

	if b.channel == nil {
		return msg
	}
	if err := b.channel.Publish(msg); err != nil {
		slog.Debug("publish toast", "tab", b.tab, "err", err)
	}
	return msg
}

// Receive displays a toast that arrived from another tab.
func (b *Broadcaster) Receive(msg Message) {
	if msg.Origin == b.tab {
		return
	}
	b.show(msg)
}

func (b *Broadcaster) show(msg Message) {
	if b.display != nil {
		b.display.Display(msg)
	}
}

func (b *Broadcaster) Success(text string) Message { return b.Notify(KindSuccess, text, Options{}) }
func (b *Broadcaster) Error(text string) Message   { return b.Notify(KindError, text, Options{}) }
func (b *Broadcaster) Info(text string) Message    { return b.Notify(KindInfo, text, Options{}) }
func (b *Broadcaster) Warning(text string) Message { return b.Notify(KindWarning, text, Options{}) }
