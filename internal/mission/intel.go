package mission

// IntelMessage is one entry of the in-game narrative feed.
type IntelMessage struct {
	ID        int     `json:"id"`
	Tone      Tone    `json:"tone"`
	Text      string  `json:"text"`
	CreatedAt float64 `json:"createdAt"`
}

// pushIntel prepends a message and drops the oldest beyond IntelCapacity.
// It always allocates a fresh slice.
func (s *State) pushIntel(tone Tone, text string, now float64) {
	s.NextIntelID++
	feed := make([]IntelMessage, 0, IntelCapacity)
	feed = append(feed, IntelMessage{ID: s.NextIntelID, Tone: tone, Text: text, CreatedAt: now})
	for _, m := range s.Intel {
		if len(feed) == IntelCapacity {
			break
		}
		feed = append(feed, m)
	}
	s.Intel = feed
}
