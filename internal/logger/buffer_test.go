package logger

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLogBufferConcurrentAccess(t *testing.T) {
	buffer := NewLogBuffer(100)

	var wg sync.WaitGroup
	numGoroutines := 10
	logsPerGoroutine := 100

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < logsPerGoroutine; j++ {
				buffer.Add(LogEntry{
					Level:   "INFO",
					Message: fmt.Sprintf("Log from goroutine %d, iteration %d", id, j),
				})
			}
		}(i)
	}

	// Concurrent reads
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			_ = buffer.GetRecentLogs(10)
		}
	}()

	wg.Wait()

	total, dropped := buffer.GetStats()
	t.Logf("Total entries: %d, Dropped entries: %d", total, dropped)

	assert.Equal(t, uint64(numGoroutines*logsPerGoroutine), total)
	assert.Equal(t, total-100, dropped)
	assert.Len(t, buffer.GetRecentLogs(0), 100)
}

func TestLogBufferRingBufferBehavior(t *testing.T) {
	bufferSize := 5
	buffer := NewLogBuffer(bufferSize)

	for i := 0; i < 10; i++ {
		buffer.Add(LogEntry{Level: "INFO", Message: fmt.Sprintf("Log %d", i)})
	}

	logs := buffer.GetRecentLogs(10)
	require.Len(t, logs, bufferSize)
	assert.Equal(t, "Log 5", logs[0].Message)
	assert.Equal(t, "Log 9", logs[len(logs)-1].Message)

	logs = buffer.GetRecentLogs(2)
	require.Len(t, logs, 2)
	assert.Equal(t, "Log 8", logs[0].Message)
	assert.Equal(t, "Log 9", logs[1].Message)
}

func TestLogBufferBeforeWrap(t *testing.T) {
	buffer := NewLogBuffer(5)
	buffer.Add(LogEntry{Message: "a"})
	buffer.Add(LogEntry{Message: "b"})
	buffer.Add(LogEntry{Message: "c"})

	logs := buffer.GetRecentLogs(2)
	require.Len(t, logs, 2)
	assert.Equal(t, "b", logs[0].Message)
	assert.Equal(t, "c", logs[1].Message)
}

func TestNewBuffered(t *testing.T) {
	buffer := NewLogBuffer(10)
	log := NewBuffered(buffer, false)

	log.Info("Run finished", zap.Int("steps", 200))
	log.Debug("hidden at info level")

	logs := buffer.GetRecentLogs(0)
	require.Len(t, logs, 1)
	assert.Equal(t, "INFO", logs[0].Level)
	assert.Equal(t, "Run finished", logs[0].Message)
	assert.EqualValues(t, 200, logs[0].Fields["steps"])
}

func TestLogBufferWriteNonJSON(t *testing.T) {
	buffer := NewLogBuffer(2)

	n, err := buffer.Write([]byte("plain line"))
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	logs := buffer.GetRecentLogs(0)
	require.Len(t, logs, 1)
	assert.Equal(t, "plain line", logs[0].Message)
}
