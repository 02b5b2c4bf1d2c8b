package sessions

import (
	"encoding/json"
	"fmt"
)

// record is the persisted layout of a Session. Hosts treat it as opaque bytes.
type record struct {
	Attributes map[string]string `json:"attributes"`
	FlashNew   []string          `json:"flash_new,omitempty"`
	FlashOld   []string          `json:"flash_old,omitempty"`
}

func (s *Session) marshal() ([]byte, error) {
	s.mu.RLock()
	id := s.id
	rec := record{
		Attributes: s.attributes,
		FlashNew:   s.flashNew,
		FlashOld:   s.flashOld,
	}
	b, err := json.Marshal(rec)
	s.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("encode session %s: %w", id, err)
	}
	return b, nil
}

func unmarshal(id string, data []byte) (*Session, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptRecord, id, err)
	}
	s := New(id)
	if rec.Attributes != nil {
		s.attributes = rec.Attributes
	}
	s.flashNew = rec.FlashNew
	s.flashOld = rec.FlashOld
	s.fresh = false
	return s, nil
}
