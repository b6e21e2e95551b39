package ingestion

import (
	"errors"
	"fmt"
	"sync"

	"freight-operations/internal/logger"
	pkgmqtt "freight-operations/pkg/mqtt"

	"go.uber.org/zap"
)

// MQTTIngestionConfig describes the event topic and connection parameters
type MQTTIngestionConfig struct {
	ClientConfig *pkgmqtt.Config
	EventTopic   string
	QoS          byte
}

// MQTTIngestionClient wires the carrier tracking feed into the processor
type MQTTIngestionClient struct {
	cfg       *MQTTIngestionConfig
	client    *pkgmqtt.Client
	processor *Processor

	mu      sync.Mutex
	started bool
}

func NewMQTTIngestionClient(cfg *MQTTIngestionConfig, processor *Processor) (*MQTTIngestionClient, error) {
	if cfg == nil || cfg.ClientConfig == nil {
		return nil, errors.New("mqtt ingestion config is not configured")
	}
	if cfg.EventTopic == "" {
		return nil, errors.New("tracking event topic is required")
	}
	if processor == nil {
		return nil, errors.New("processor is required")
	}

	return &MQTTIngestionClient{
		cfg:       cfg,
		client:    pkgmqtt.NewClient(cfg.ClientConfig),
		processor: processor,
	}, nil
}

// Start connects to the broker and subscribes to the tracking feed
func (c *MQTTIngestionClient) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started {
		return nil
	}

	if err := c.client.Connect(); err != nil {
		return fmt.Errorf("failed to connect to MQTT broker: %w", err)
	}

	if err := c.client.Subscribe(c.cfg.EventTopic, c.cfg.QoS, c.handleEventMessage); err != nil {
		c.client.Disconnect()
		return fmt.Errorf("subscribe failed for topic %s: %w", c.cfg.EventTopic, err)
	}

	logger.Info("Listening for carrier tracking events",
		zap.String("topic", c.cfg.EventTopic),
	)

	c.started = true
	return nil
}

// Stop unsubscribes and disconnects from the broker
func (c *MQTTIngestionClient) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.started {
		return
	}

	if err := c.client.Unsubscribe(c.cfg.EventTopic); err != nil {
		logger.Warn("Failed to unsubscribe from tracking feed", zap.Error(err))
	}

	c.client.Disconnect()
	c.started = false
}

func (c *MQTTIngestionClient) handleEventMessage(_ string, payload []byte) {
	msg, err := ParseTrackingEvent(payload)
	if err != nil {
		logger.Warn("Invalid tracking event payload", zap.Error(err))
		return
	}

	c.processor.Enqueue(msg)
}
