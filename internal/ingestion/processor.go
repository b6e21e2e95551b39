package ingestion

import (
	"context"
	"errors"
	"sync"
	"time"

	domainShipment "freight-operations/internal/domain/shipment"
	"freight-operations/internal/logger"
	"freight-operations/internal/shipment/status"

	"go.uber.org/zap"
)

// Processor applies carrier tracking events to shipments with a pool of
// concurrent workers. Applied events are buffered and flushed to the audit
// table in batches.
type Processor struct {
	shipmentRepo domainShipment.Repository
	eventRepo    *Repository

	eventBuffer []EventRecord

	batchSize    int
	batchTimeout time.Duration
	workerCount  int
	bufferSize   int

	eventChan chan *TrackingEventMessage

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex

	metrics *MetricsTracker
}

// NewProcessor creates a new tracking-event processor
func NewProcessor(shipmentRepo domainShipment.Repository, eventRepo *Repository, batchSize, workerCount, bufferSize int, batchTimeout time.Duration) *Processor {
	ctx, cancel := context.WithCancel(context.Background())

	return &Processor{
		shipmentRepo: shipmentRepo,
		eventRepo:    eventRepo,
		batchSize:    batchSize,
		batchTimeout: batchTimeout,
		workerCount:  workerCount,
		bufferSize:   bufferSize,
		eventBuffer:  make([]EventRecord, 0, batchSize),
		eventChan:    make(chan *TrackingEventMessage, bufferSize),
		ctx:          ctx,
		cancel:       cancel,
		metrics:      NewMetricsTracker(),
	}
}

// Start starts the worker pool and the batch flusher
func (p *Processor) Start() {
	logger.Info("Starting tracking-event processor",
		zap.Int("workers", p.workerCount),
		zap.Int("batch_size", p.batchSize),
		zap.Duration("batch_timeout", p.batchTimeout),
	)

	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	p.wg.Add(1)
	go p.batchFlusher()
}

// Stop drains the workers and flushes the remaining audit rows
func (p *Processor) Stop() {
	p.cancel()
	close(p.eventChan)
	p.wg.Wait()
	p.flushBatch()

	logger.Info("Tracking-event processor stopped")
}

// Enqueue queues an event for processing. A full buffer drops the event
// rather than blocking the MQTT callback.
func (p *Processor) Enqueue(msg *TrackingEventMessage) {
	select {
	case p.eventChan <- msg:
		p.metrics.Update(func(m *IngestMetrics) {
			m.EventsReceived++
			m.BufferSize = len(p.eventChan)
		})
	case <-p.ctx.Done():
		return
	default:
		logger.Warn("Tracking event buffer full, dropping event",
			zap.String("reference_no", msg.ReferenceNo),
			zap.String("event_type", msg.EventType),
		)
		p.metrics.Update(func(m *IngestMetrics) {
			m.EventsFailed++
		})
	}
}

func (p *Processor) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case msg, ok := <-p.eventChan:
			if !ok {
				return
			}

			start := time.Now()

			if err := p.processEvent(msg); err != nil {
				if errors.Is(err, domainShipment.ErrShipmentNotFound) {
					logger.Warn("Tracking event for unknown shipment",
						zap.Int("worker", id),
						zap.String("reference_no", msg.ReferenceNo),
						zap.String("event_type", msg.EventType),
					)
					p.metrics.Update(func(m *IngestMetrics) {
						m.EventsUnmatched++
					})
					continue
				}

				logger.Error("Failed to apply tracking event",
					zap.Int("worker", id),
					zap.String("reference_no", msg.ReferenceNo),
					zap.String("event_type", msg.EventType),
					zap.Error(err),
				)
				p.metrics.Update(func(m *IngestMetrics) {
					m.EventsFailed++
				})
				continue
			}

			p.metrics.Update(func(m *IngestMetrics) {
				m.EventsApplied++
				m.LastProcessedAt = time.Now()

				processingTime := time.Since(start)
				if m.AverageProcessingTime == 0 {
					m.AverageProcessingTime = processingTime
				} else {
					m.AverageProcessingTime = (m.AverageProcessingTime + processingTime) / 2
				}
			})

		case <-p.ctx.Done():
			return
		}
	}
}

// processEvent validates one event, applies its facts to the shipment and
// queues an audit row
func (p *Processor) processEvent(msg *TrackingEventMessage) error {
	if err := ValidateTrackingEvent(msg); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(p.ctx, 10*time.Second)
	defer cancel()

	sh, err := p.shipmentRepo.GetByReference(ctx, msg.ReferenceNo)
	if err != nil {
		return err
	}

	applyFacts(sh, msg)
	refreshDisplayStatus(sh)
	sh.UpdatedAt = time.Now()

	if err := p.shipmentRepo.Update(ctx, sh); err != nil {
		return err
	}

	record := EventRecord{
		Time:          msg.OccurredAt,
		ShipmentID:    sh.ID,
		ReferenceNo:   sh.ReferenceNo,
		EventType:     msg.EventType,
		BookingNumber: msg.BookingNumber,
		BLNumber:      msg.BLNumber,
		ETA:           msg.ETA,
		Source:        msg.Source,
		StatusAfter:   sh.Status,
	}

	p.mu.Lock()
	p.eventBuffer = append(p.eventBuffer, record)
	shouldFlush := len(p.eventBuffer) >= p.batchSize
	p.mu.Unlock()

	if shouldFlush {
		p.flushBatch()
	}

	return nil
}

// applyFacts writes the event's facts onto the shipment. Validation has
// already guaranteed the fields each event type needs.
func applyFacts(sh *domainShipment.Shipment, msg *TrackingEventMessage) {
	switch msg.EventType {
	case EventBookingConfirmed:
		sh.BookingNumber = msg.BookingNumber
	case EventBLIssued:
		sh.BLNumber = msg.BLNumber
	case EventETAUpdated:
		eta, _ := time.Parse(etaLayout, msg.ETA)
		sh.ETA = &eta
	case EventCustomsCleared:
		occurred := msg.OccurredAt
		sh.CustomsClearanceDate = &occurred
	case EventDelivered:
		occurred := msg.OccurredAt
		sh.DeliveryConfirmedAt = &occurred
	}
}

// refreshDisplayStatus recomputes the stored display status after new facts
// arrive. Shipments pinned by a human keep their override.
func refreshDisplayStatus(sh *domainShipment.Shipment) {
	derivation := status.Derive(domainShipment.SnapshotOf(sh), time.Now(), status.Signals{
		QualityIssue:      sh.QualityIssueOpen,
		TransportAssigned: sh.TransportAssigned,
	})
	if derivation.Overridden {
		return
	}
	sh.Status = string(derivation.Status)
	sh.StatusReason = derivation.Reason
}

func (p *Processor) batchFlusher() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.batchTimeout)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.flushBatch()
		case <-p.ctx.Done():
			return
		}
	}
}

// flushBatch writes buffered audit rows to the database
func (p *Processor) flushBatch() {
	p.mu.Lock()
	if len(p.eventBuffer) == 0 {
		p.mu.Unlock()
		return
	}

	batch := make([]EventRecord, len(p.eventBuffer))
	copy(batch, p.eventBuffer)
	p.eventBuffer = p.eventBuffer[:0]
	p.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := p.eventRepo.BatchInsertEvents(ctx, batch); err != nil {
		logger.Error("Failed to insert tracking event batch",
			zap.Int("batch_size", len(batch)),
			zap.Error(err),
		)
		return
	}

	p.metrics.Update(func(m *IngestMetrics) {
		m.RecordsInserted += int64(len(batch))
	})
}

// GetMetrics returns current metrics
func (p *Processor) GetMetrics() IngestMetrics {
	return p.metrics.Snapshot()
}
