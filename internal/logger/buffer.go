package logger

import (
	"encoding/json"
	"sync"
	"time"
)

// LogEntry represents a single log entry in the buffer
type LogEntry struct {
	Timestamp time.Time              `json:"time"`
	Level     string                 `json:"level"`
	Message   string                 `json:"msg"`
	Fields    map[string]interface{} `json:"-"`
}

// LogBuffer is a thread-safe ring buffer of log entries. It implements
// io.Writer for JSON-encoded zap output, one entry per Write.
type LogBuffer struct {
	mu           sync.Mutex
	ringBuffer   []LogEntry
	maxSize      int
	currentIndex int
	wrapped      bool

	totalEntries   uint64
	droppedEntries uint64
}

// NewLogBuffer creates a new log buffer holding at most maxSize entries
func NewLogBuffer(maxSize int) *LogBuffer {
	if maxSize <= 0 {
		maxSize = 1
	}
	return &LogBuffer{
		ringBuffer: make([]LogEntry, maxSize),
		maxSize:    maxSize,
	}
}

// Write decodes one JSON log line. Lines that are not JSON are kept verbatim
// as the message.
func (lb *LogBuffer) Write(p []byte) (int, error) {
	var raw map[string]interface{}
	entry := LogEntry{Timestamp: time.Now()}

	if err := json.Unmarshal(p, &raw); err != nil {
		entry.Level = "INFO"
		entry.Message = string(p)
	} else {
		if lvl, ok := raw["level"].(string); ok {
			entry.Level = lvl
		}
		if msg, ok := raw["msg"].(string); ok {
			entry.Message = msg
		}
		if ts, ok := raw["time"].(string); ok {
			if parsed, err := time.Parse("2006-01-02T15:04:05.000Z0700", ts); err == nil {
				entry.Timestamp = parsed
			}
		}
		delete(raw, "level")
		delete(raw, "msg")
		delete(raw, "time")
		if len(raw) > 0 {
			entry.Fields = raw
		}
	}

	lb.Add(entry)
	return len(p), nil
}

// Sync satisfies zapcore.WriteSyncer; entries are already in memory.
func (lb *LogBuffer) Sync() error {
	return nil
}

// Add adds a new log entry to the buffer, overwriting the oldest when full
func (lb *LogBuffer) Add(entry LogEntry) {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	if lb.wrapped {
		lb.droppedEntries++
	}

	lb.ringBuffer[lb.currentIndex] = entry
	lb.currentIndex = (lb.currentIndex + 1) % lb.maxSize
	if lb.currentIndex == 0 {
		lb.wrapped = true
	}

	lb.totalEntries++
}

// GetRecentLogs returns up to limit of the most recent entries, oldest first.
// A limit <= 0 returns everything held.
func (lb *LogBuffer) GetRecentLogs(limit int) []LogEntry {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	count := lb.currentIndex
	startIndex := 0
	if lb.wrapped {
		count = lb.maxSize
		startIndex = lb.currentIndex
	}

	if limit > 0 && limit < count {
		startIndex += count - limit
		count = limit
	}

	logs := make([]LogEntry, 0, count)
	for i := 0; i < count; i++ {
		logs = append(logs, lb.ringBuffer[(startIndex+i)%lb.maxSize])
	}

	return logs
}

// GetStats returns buffer statistics
func (lb *LogBuffer) GetStats() (total, dropped uint64) {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return lb.totalEntries, lb.droppedEntries
}
