package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hotelbooking/reservation-client/internal/core/domain"
	"github.com/hotelbooking/reservation-client/internal/core/ports"
	"github.com/hotelbooking/reservation-client/internal/pkg/metrics"
	"github.com/hotelbooking/reservation-client/pkg/logger"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	saveTimeout    = 10 * time.Second
)

// Dispatcher routes booking receipts to a fixed set of workers using
// consistent hashing on the user id, so one user's receipts are written in
// the order their bookings were confirmed.
type Dispatcher struct {
	workers []chan domain.BookingReceipt
	repo    ports.ReceiptRepository
	log     zerolog.Logger
	wg      sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

var _ ports.ReceiptJournal = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, repo ports.ReceiptRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.BookingReceipt, numWorkers),
		repo:    repo,
		log:     logger.Component(log, "receipt_journal"),
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.BookingReceipt, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Close stops accepting receipts, lets every worker drain its buffer and
// waits for them to return. Safe to call more than once.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// Record hands the receipt to its user's worker. It never blocks: when that
// worker's buffer is full the receipt is dropped and logged.
func (d *Dispatcher) Record(receipt domain.BookingReceipt) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	idx := d.shardIndex(receipt.UserID)
	if d.closed {
		d.log.Warn().Int64("booking_id", receipt.BookingID).Msg("receipt journal closed, receipt dropped")
		return
	}
	select {
	case d.workers[idx] <- receipt:
		metrics.ReceiptsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		d.log.Warn().
			Int64("booking_id", receipt.BookingID).
			Int("worker_id", idx).
			Msg("receipt journal full, receipt dropped")
	}
}

// shardIndex maps a user id deterministically to a worker index.
func (d *Dispatcher) shardIndex(userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.BookingReceipt) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case receipt, ok := <-ch:
			if !ok {
				return
			}
			metrics.ReceiptsQueueDepth.WithLabelValues(label).Set(float64(len(ch)))

			saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
			err := d.repo.Save(saveCtx, receipt)
			cancel()
			if err != nil {
				d.log.Error().Err(err).
					Int64("booking_id", receipt.BookingID).
					Str("user_id", receipt.UserID).
					Int("worker_id", id).
					Msg("receipt write failed")
			}
		}
	}
}
