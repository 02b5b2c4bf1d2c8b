package flash

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"
)

// Canonical levels.
const (
	Success = "success"
	Warning = "warning"
	Error   = "error"
	Info    = "info"
)

// Session keys the messenger writes by default.
const (
	SessionMessageKey = "flash_message"
	SessionLevelKey   = "flash_level"
)

// ErrUnknownLevel is returned by DefaultMessage for a level key that no
// canonical level is currently mapped to.
var ErrUnknownLevel = errors.New("flash: unknown level")

// canonicalLevels are the levels with dedicated setters.
var canonicalLevels = []string{Success, Warning, Error, Info}

// defaultLevel is the level Default routes to.
const defaultLevel = Success

// Store is the slice of a session the messenger needs. *sessions.Session
// satisfies it.
type Store interface {
	Get(key string) (string, bool)
	Put(key, value string)
	Flash(key, value string)
}

// Message is a pending message together with its level key.
type Message struct {
	Text  string `json:"message"`
	Level string `json:"level"`
}

// Option configures a Flash.
type Option func(*config)

type config struct {
	messageKey string
	levelKey   string
	locale     language.Tag
}

// WithSessionKeys overrides the session keys used for the message and the
// level. Empty arguments keep the defaults.
func WithSessionKeys(message, level string) Option {
	return func(c *config) {
		if message != "" {
			c.messageKey = message
		}
		if level != "" {
			c.levelKey = level
		}
	}
}

// WithLocale selects the language of the built-in default messages. Tags
// without a bundled translation fall back to the closest match, then English.
func WithLocale(tag language.Tag) Option {
	return func(c *config) { c.locale = tag }
}

// Flash is the flash messenger for one request. Setters return the receiver
// so calls can be chained.
type Flash struct {
	store      Store
	messageKey string
	levelKey   string

	// levelKeys maps canonical level -> key written to the session.
	levelKeys map[string]string
	// defaults maps level key -> fallback text. Seeded under the canonical
	// keys; SetDefault*Message writes under the level's current key.
	defaults map[string]string
}

// New returns a Flash backed by store.
func New(store Store, opts ...Option) *Flash {
	cfg := &config{
		messageKey: SessionMessageKey,
		levelKey:   SessionLevelKey,
		locale:     language.English,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	f := &Flash{
		store:      store,
		messageKey: cfg.messageKey,
		levelKey:   cfg.levelKey,
		levelKeys:  make(map[string]string, len(canonicalLevels)),
		defaults:   defaultMessages(cfg.locale),
	}
	for _, l := range canonicalLevels {
		f.levelKeys[l] = l
	}
	return f
}

// Message returns the pending message, or "" when none is pending.
func (f *Flash) Message() string {
	v, _ := f.store.Get(f.messageKey)
	return v
}

// HasMessage reports whether a non-empty message is pending.
func (f *Flash) HasMessage() bool { return f.Message() != "" }

// Level returns the level key most recently set, or "" if none ever was.
func (f *Flash) Level() string {
	v, _ := f.store.Get(f.levelKey)
	return v
}

// Pending returns the pending message and its level.
func (f *Flash) Pending() (Message, bool) {
	text := f.Message()
	if text == "" {
		return Message{}, false
	}
	return Message{Text: text, Level: f.Level()}, true
}

// DefaultMessage returns the default text registered under levelKey. Renaming
// a level does not move its default: the old key keeps resolving and the new
// one is unknown until a default is set for it.
func (f *Flash) DefaultMessage(levelKey string) (string, error) {
	text, ok := f.defaults[levelKey]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownLevel, levelKey)
	}
	return text, nil
}

// SetDefault*Message registers the fallback text under the level's current key.
func (f *Flash) SetDefaultSuccessMessage(text string) *Flash { return f.setDefault(Success, text) }
func (f *Flash) SetDefaultWarningMessage(text string) *Flash { return f.setDefault(Warning, text) }
func (f *Flash) SetDefaultErrorMessage(text string) *Flash   { return f.setDefault(Error, text) }
func (f *Flash) SetDefaultInfoMessage(text string) *Flash    { return f.setDefault(Info, text) }

// SuccessKey and its siblings return the key each level currently writes.
func (f *Flash) SuccessKey() string { return f.levelKeys[Success] }
func (f *Flash) WarningKey() string { return f.levelKeys[Warning] }
func (f *Flash) ErrorKey() string   { return f.levelKeys[Error] }
func (f *Flash) InfoKey() string    { return f.levelKeys[Info] }

// CustomizeSuccessKey changes the level key written by Success, e.g. to match
// a CSS framework's class names. An empty key restores "success".
func (f *Flash) CustomizeSuccessKey(key string) *Flash { return f.customize(Success, key) }
func (f *Flash) CustomizeWarningKey(key string) *Flash { return f.customize(Warning, key) }
func (f *Flash) CustomizeErrorKey(key string) *Flash   { return f.customize(Error, key) }
func (f *Flash) CustomizeInfoKey(key string) *Flash    { return f.customize(Info, key) }

// Success sets message at the success level. With an empty message the
// pending message is reused, or else the level's default text.
func (f *Flash) Success(message string) *Flash { return f.set(Success, message) }
func (f *Flash) Warning(message string) *Flash { return f.set(Warning, message) }
func (f *Flash) Error(message string) *Flash   { return f.set(Error, message) }
func (f *Flash) Info(message string) *Flash    { return f.set(Info, message) }

// Default sets message at the default level (success).
func (f *Flash) Default(message string) *Flash { return f.set(defaultLevel, message) }

// Show sets message under an arbitrary level key, written verbatim. There is
// no default text for such levels: with an empty message and nothing
// pending, the pending message is cleared while the level is still recorded.
func (f *Flash) Show(level, message string) *Flash {
	f.write(level, f.resolve(message))
	return f
}

func (f *Flash) set(level, message string) *Flash {
	text := f.resolve(message)
	if text == "" {
		text = f.defaults[f.levelKeys[level]]
	}
	f.write(f.levelKeys[level], text)
	return f
}

func (f *Flash) resolve(message string) string {
	if message != "" {
		return message
	}
	return f.Message()
}

func (f *Flash) write(levelKey, text string) {
	f.store.Flash(f.messageKey, text)
	f.store.Put(f.levelKey, levelKey)
}

func (f *Flash) setDefault(level, text string) *Flash {
	f.defaults[f.levelKeys[level]] = text
	return f
}

func (f *Flash) customize(level, key string) *Flash {
	if key == "" {
		key = level
	}
	f.levelKeys[level] = key
	return f
}
