package export

import (
	"encoding/json"
	"fmt"
	"github.com/matheusmosca/distributed-transactions-benchmark/internal/otlp/model"
	"go.uber.org/zap"
	"os"
	"path/filepath"
	"sync"
)

const DefaultWriteQueueSize = 30

// ExportBuffer queues export batches and appends them to the run's trace
// file, one JSON document per line.
type ExportBuffer interface {
	WriteToBuffer(batches []model.ExportBatch)
	Flush() error
}

type FileExportBufferImpl struct {
	writeQueue []model.ExportBatch
	path       string
	queueSize  int
	logger     *zap.Logger
	mu         sync.Mutex
}

func NewFileExportBufferImpl(path string, queueSize int, logger *zap.Logger) *FileExportBufferImpl {
	if queueSize <= 0 {
		queueSize = DefaultWriteQueueSize
	}
	return &FileExportBufferImpl{
		writeQueue: []model.ExportBatch{},
		path:       path,
		queueSize:  queueSize,
		logger:     logger,
	}
}

func (feb *FileExportBufferImpl) WriteToBuffer(batches []model.ExportBatch) {
	feb.mu.Lock()
	feb.writeQueue = append(feb.writeQueue, batches...)
	queued := len(feb.writeQueue)
	feb.mu.Unlock()
	if queued > feb.queueSize {
		go func() {
			if err := feb.Flush(); err != nil {
				feb.logger.Error("Failed to flush trace exports to file", zap.Error(err))
			}
		}()
	}
}

// Flush appends every queued batch to the export file. The queue is cleared
// regardless of the outcome so a stuck disk cannot grow it without bound.
func (feb *FileExportBufferImpl) Flush() error {
	feb.mu.Lock()
	defer feb.mu.Unlock()
	if len(feb.writeQueue) == 0 {
		return nil
	}

	lines := make([]byte, 0, len(feb.writeQueue)*256)
	for _, batch := range feb.writeQueue {
		data, err := json.Marshal(batch)
		if err != nil {
			feb.logger.Error("Failed to marshal export batch, dropping it", zap.Error(err))
			continue
		}
		lines = append(lines, data...)
		lines = append(lines, '\n')
	}
	feb.writeQueue = []model.ExportBatch{}

	if err := os.MkdirAll(filepath.Dir(feb.path), 0o755); err != nil {
		return fmt.Errorf("error creating trace export directory: %w", err)
	}
	file, err := os.OpenFile(feb.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("error opening trace export file: %w", err)
	}
	defer file.Close()
	if _, err := file.Write(lines); err != nil {
		return fmt.Errorf("error appending to trace export file: %w", err)
	}
	return nil
}
