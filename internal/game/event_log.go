package game

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	EventBufferSize      = 1024                   // Circular buffer size
	MaxEventsPerSec      = 2000                   // Global rate limit
	MaxEventsPerSource   = 120                    // Per-source rate limit per second
	BatchFlushSize       = 64                     // Events per batch write
	BatchFlushInterval   = 100 * time.Millisecond // How often to flush
	SourceLimiterCleanup = 5 * time.Minute        // Cleanup interval for source limiters
)

// EventStats is a point-in-time view of the log counters.
type EventStats struct {
	Total   uint64 `json:"total"`
	Dropped uint64 `json:"dropped"`
	Pending uint64 `json:"pending"`
	Written uint64 `json:"written"`
	Running bool   `json:"running"`
}

// EventLog is a bounded, rate-limited mission event journal. Producers never
// block: when the ring is full the oldest unread event is dropped.
type EventLog struct {
	mu        sync.Mutex // guards the ring; the tick loop is the only hot producer
	buffer    [EventBufferSize]Event
	writeHead uint64
	readHead  uint64

	globalLimiter  *rate.Limiter
	sourceLimiters sync.Map // map[string]*sourceLimiterEntry

	writerWg sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
	running  atomic.Bool

	filePath string
	file     *os.File
	out      *bufio.Writer

	log zerolog.Logger

	droppedCount atomic.Uint64
	totalCount   atomic.Uint64
	writtenCount atomic.Uint64
}

type sourceLimiterEntry struct {
	limiter  *rate.Limiter
	lastUsed atomic.Int64 // unix nano
}

// NewEventLog creates a new bounded event log
func NewEventLog(log zerolog.Logger) *EventLog {
	return &EventLog{
		globalLimiter: rate.NewLimiter(MaxEventsPerSec, MaxEventsPerSec/10),
		stopChan:      make(chan struct{}),
		log:           log.With().Str("component", "eventlog").Logger(),
	}
}

// Start opens filePath for append and begins the async writer. An empty
// path keeps the ring and counters without touching disk.
func (el *EventLog) Start(filePath string) error {
	if el.running.Load() {
		return nil
	}

	el.filePath = filePath
	if filePath != "" {
		if dir := filepath.Dir(filePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create event log dir: %w", err)
			}
		}
		file, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open event log: %w", err)
		}
		el.file = file
		el.out = bufio.NewWriter(file)
	}

	el.running.Store(true)
	el.writerWg.Add(2)
	go el.writerLoop()
	go el.cleanupLoop()

	el.log.Info().Str("path", filePath).Msg("📝 Event log started")
	return nil
}

// Stop flushes what is buffered and closes the file.
func (el *EventLog) Stop() {
	el.stopOnce.Do(func() {
		el.running.Store(false)
		close(el.stopChan)
		el.writerWg.Wait()

		if el.file != nil {
			if err := el.file.Close(); err != nil {
				el.log.Warn().Err(err).Msg("⚠️ Event log close failed")
			}
		}
		stats := el.Stats()
		el.log.Info().Uint64("written", stats.Written).Uint64("dropped", stats.Dropped).Msg("📝 Event log stopped")
	})
}

// Emit adds an event. It returns false when the event was rate limited or
// the log is not running.
func (el *EventLog) Emit(event Event) bool {
	if !el.running.Load() {
		return false
	}
	if !el.globalLimiter.Allow() {
		el.droppedCount.Add(1)
		return false
	}
	if event.Source != "" && !el.sourceLimiter(event.Source).Allow() {
		el.droppedCount.Add(1)
		return false
	}

	el.mu.Lock()
	el.writeHead++
	if el.writeHead-el.readHead > EventBufferSize {
		// Overwrite the oldest unread slot
		el.readHead++
		el.droppedCount.Add(1)
	}
	event.Sequence = el.writeHead
	el.buffer[el.writeHead%EventBufferSize] = event
	el.mu.Unlock()

	el.totalCount.Add(1)
	return true
}

// EmitSimple is a convenience method to emit an event with automatic creation
func (el *EventLog) EmitSimple(eventType EventType, tickNum uint64, source string, payload any) bool {
	return el.Emit(NewEvent(eventType, tickNum, source, payload))
}

func (el *EventLog) sourceLimiter(source string) *rate.Limiter {
	now := time.Now().UnixNano()
	if v, ok := el.sourceLimiters.Load(source); ok {
		e := v.(*sourceLimiterEntry)
		e.lastUsed.Store(now)
		return e.limiter
	}

	entry := &sourceLimiterEntry{limiter: rate.NewLimiter(MaxEventsPerSource, MaxEventsPerSource/4)}
	entry.lastUsed.Store(now)
	actual, _ := el.sourceLimiters.LoadOrStore(source, entry)
	return actual.(*sourceLimiterEntry).limiter
}

// writerLoop batches and writes events to disk asynchronously
func (el *EventLog) writerLoop() {
	defer el.writerWg.Done()

	ticker := time.NewTicker(BatchFlushInterval)
	defer ticker.Stop()

	batch := make([]Event, 0, BatchFlushSize)
	for {
		select {
		case <-el.stopChan:
			// Drain everything before exit
			for {
				batch = el.collectBatch(batch[:0])
				if len(batch) == 0 {
					break
				}
				el.flushBatch(batch)
			}
			el.sync()
			return

		case <-ticker.C:
			batch = el.collectBatch(batch[:0])
			if len(batch) > 0 {
				el.flushBatch(batch)
				el.sync()
			}
		}
	}
}

func (el *EventLog) cleanupLoop() {
	defer el.writerWg.Done()

	ticker := time.NewTicker(SourceLimiterCleanup)
	defer ticker.Stop()

	for {
		select {
		case <-el.stopChan:
			return
		case <-ticker.C:
			el.cleanupSourceLimiters(time.Now().Add(-SourceLimiterCleanup))
		}
	}
}

func (el *EventLog) cleanupSourceLimiters(cutoff time.Time) {
	el.sourceLimiters.Range(func(key, value any) bool {
		if value.(*sourceLimiterEntry).lastUsed.Load() < cutoff.UnixNano() {
			el.sourceLimiters.Delete(key)
		}
		return true
	})
}

// collectBatch moves up to BatchFlushSize unread events into batch.
func (el *EventLog) collectBatch(batch []Event) []Event {
	el.mu.Lock()
	defer el.mu.Unlock()

	for el.readHead < el.writeHead && len(batch) < BatchFlushSize {
		el.readHead++
		batch = append(batch, el.buffer[el.readHead%EventBufferSize])
	}
	return batch
}

// flushBatch writes events as newline-delimited JSON.
func (el *EventLog) flushBatch(batch []Event) {
	if el.out == nil {
		el.writtenCount.Add(uint64(len(batch)))
		return
	}
	for _, event := range batch {
		data, err := json.Marshal(event)
		if err != nil {
			el.log.Warn().Err(err).Stringer("type", event.Type).Msg("⚠️ Event encode failed")
			continue
		}
		data = append(data, '\n')
		if _, err := el.out.Write(data); err != nil {
			el.log.Warn().Err(err).Msg("⚠️ Event write failed")
			return
		}
		el.writtenCount.Add(1)
	}
}

func (el *EventLog) sync() {
	if el.out == nil {
		return
	}
	if err := el.out.Flush(); err != nil {
		el.log.Warn().Err(err).Msg("⚠️ Event flush failed")
	}
}

// Stats returns counters for monitoring.
func (el *EventLog) Stats() EventStats {
	el.mu.Lock()
	pending := el.writeHead - el.readHead
	el.mu.Unlock()

	return EventStats{
		Total:   el.totalCount.Load(),
		Dropped: el.droppedCount.Load(),
		Pending: pending,
		Written: el.writtenCount.Load(),
		Running: el.running.Load(),
	}
}
