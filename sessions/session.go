package sessions

import (
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// Session is the per-request view of a user's session: a string key/value bag
// plus the bookkeeping needed for flash data. Values written with Flash stay
// readable for the remainder of the current request and the whole of the next
// one; the Manager ages them between requests.
//
// A Session is safe for concurrent use, but it is only persisted when the
// request that loaded it completes.
type Session struct {
	mu         sync.RWMutex
	id         string
	attributes map[string]string
	flashNew   []string
	flashOld   []string
	fresh      bool
	// retired is the id this session held before Invalidate, pending
	// destruction by the Manager.
	retired string
}

// New returns an empty session with the given id. Sessions created this way
// report IsNew until they have been loaded from a Host.
func New(id string) *Session {
	return &Session{
		id:         id,
		attributes: make(map[string]string),
		fresh:      true,
	}
}

func (s *Session) ID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id
}

// IsNew reports whether the session was started during this request rather
// than loaded from a Host.
func (s *Session) IsNew() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fresh
}

func (s *Session) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.attributes[key]
	return v, ok
}

func (s *Session) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// All returns a copy of every attribute in the session.
func (s *Session) All() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.attributes)
}

// Put stores value under key until it is overwritten or forgotten.
func (s *Session) Put(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attributes[key] = value
}

// Forget removes keys from the session along with any flash marks on them.
func (s *Session) Forget(keys ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.attributes, k)
	}
	s.flashNew = without(s.flashNew, keys...)
	s.flashOld = without(s.flashOld, keys...)
}

// Flash stores value under key for this request and the next one.
func (s *Session) Flash(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attributes[key] = value
	s.flashNew = with(s.flashNew, key)
	s.flashOld = without(s.flashOld, key)
}

// FlashNow stores value under key for the current request only.
func (s *Session) FlashNow(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attributes[key] = value
	s.flashOld = with(s.flashOld, key)
}

// Reflash keeps every flashed value for one more request.
func (s *Session) Reflash() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range s.flashOld {
		s.flashNew = with(s.flashNew, k)
	}
	s.flashOld = nil
}

// Keep keeps the named flashed values for one more request.
func (s *Session) Keep(keys ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		if !slices.Contains(s.flashOld, k) && !slices.Contains(s.flashNew, k) {
			continue
		}
		s.flashNew = with(s.flashNew, k)
	}
	s.flashOld = without(s.flashOld, keys...)
}

// AgeFlashData expires values flashed before the current request and marks
// values flashed during it for removal at the end of the next one.
func (s *Session) AgeFlashData() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range s.flashOld {
		delete(s.attributes, k)
	}
	s.flashOld = s.flashNew
	s.flashNew = nil
}

// Invalidate discards every value in the session and moves it to a fresh id.
// The Manager destroys the record under the old id and saves the session under
// the new one, so values written after Invalidate, such as a "Logged out."
// flash, reach the next request.
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.retired == "" && !s.fresh {
		s.retired = s.id
	}
	s.id = uuid.NewString()
	s.fresh = true
	s.attributes = make(map[string]string)
	s.flashNew = nil
	s.flashOld = nil
}

// takeRetiredID returns the id abandoned by Invalidate, if any, and clears it.
func (s *Session) takeRetiredID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.retired
	s.retired = ""
	return id
}

func with(list []string, key string) []string {
	if slices.Contains(list, key) {
		return list
	}
	return append(list, key)
}

func without(list []string, keys ...string) []string {
	return slices.DeleteFunc(list, func(k string) bool { return slices.Contains(keys, k) })
}
