package storage

import (
	"encoding/json"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/qepting91/memebot/internal/domain"
)

// Delivery is one meme sent to a chat channel.
type Delivery struct {
	domain.Meme
	Command   string    `json:"command"`
	ChannelID string    `json:"channel_id"`
	SentAt    time.Time `json:"sent_at"`
}

// WriterService implements the Monitor Pattern for thread safety: only the
// Start goroutine touches the file.
type WriterService struct {
	FilePath string
	Logger   *slog.Logger
}

func (w *WriterService) Start(wg *sync.WaitGroup, input <-chan Delivery) {
	defer wg.Done()

	logger := w.Logger
	if logger == nil {
		logger = slog.Default()
	}

	f, err := os.OpenFile(w.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		logger.Error("history file unavailable", "path", w.FilePath, "err", err)
		// keep draining so senders never block
		for range input {
		}
		return
	}
	defer f.Close()

	enc := json.NewEncoder(f)

	for d := range input {
		// Write as NDJSON
		if err := enc.Encode(d); err != nil {
			logger.Warn("history write failed", "err", err)
		}
	}
}

// Recorder hands deliveries to a WriterService without blocking the caller.
type Recorder struct {
	mu     sync.Mutex
	ch     chan Delivery
	closed bool
	wg     sync.WaitGroup
	logger *slog.Logger
}

// NewRecorder starts a WriterService appending to path.
func NewRecorder(path string, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Recorder{ch: make(chan Delivery, 100), logger: logger}
	writer := &WriterService{FilePath: path, Logger: logger}
	r.wg.Add(1)
	go writer.Start(&r.wg, r.ch)
	return r
}

// Record queues d, dropping it when the buffer is full or the recorder is
// closed. Handlers still running at shutdown may call it late.
func (r *Recorder) Record(d Delivery) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		r.logger.Debug("history closed, dropping delivery", "title", d.Title)
		return
	}
	select {
	case r.ch <- d:
	default:
		r.logger.Warn("history buffer full, dropping delivery", "title", d.Title)
	}
}

// Close flushes pending deliveries and stops the writer.
func (r *Recorder) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.ch)
	r.mu.Unlock()

	r.wg.Wait()
}
