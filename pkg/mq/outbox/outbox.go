// Package outbox 提供基于数据库的事务性消息发件箱，由后台处理器转发到 Kafka
package outbox

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wyfcoding/storefront/pkg/logger"
	"gorm.io/gorm"
)

const (
	statusPending = "pending"
	statusSent    = "sent"
)

// Message 发件箱消息
type Message struct {
	ID        string    `gorm:"type:varchar(36);primary_key"`
	Topic     string    `gorm:"type:varchar(100);index;not null"`
	Key       string    `gorm:"column:message_key;type:varchar(128)"`
	Payload   string    `gorm:"type:text"`
	Status    string    `gorm:"type:varchar(20);index;default:'pending'"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

// TableName 指定表名
func (Message) TableName() string {
	return "outbox_messages"
}

// PushFunc 将消息推送到消息队列
type PushFunc func(ctx context.Context, topic, key string, payload []byte) error

// Manager 写入发件箱，实现各领域的 EventPublisher 接口
type Manager struct {
	db *gorm.DB
}

// NewManager 创建发件箱管理器
func NewManager(db *gorm.DB) *Manager {
	return &Manager{db: db}
}

// Publish 将事件作为待发送消息写入发件箱
func (m *Manager) Publish(ctx context.Context, topic, key string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	message := Message{
		ID:      uuid.New().String(),
		Topic:   topic,
		Key:     key,
		Payload: string(payload),
		Status:  statusPending,
	}

	return m.db.WithContext(ctx).Create(&message).Error
}

// Processor 周期性地将待发送消息推送到消息队列
type Processor struct {
	mgr       *Manager
	push      PushFunc
	batchSize int
	interval  time.Duration

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewProcessor 创建发件箱处理器
func NewProcessor(mgr *Manager, push PushFunc, batchSize int, interval time.Duration) *Processor {
	return &Processor{
		mgr:       mgr,
		push:      push,
		batchSize: batchSize,
		interval:  interval,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start 启动后台处理循环
func (p *Processor) Start() {
	go func() {
		defer close(p.doneCh)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-p.stopCh:
				return
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), p.interval)
				if err := p.processBatch(ctx); err != nil {
					logger.Error(ctx, "Outbox batch processing failed", "error", err)
				}
				cancel()
			}
		}
	}()
}

// Stop 停止处理循环并等待退出
func (p *Processor) Stop() {
	p.stopOnce.Do(func() { close(p.stopCh) })
	<-p.doneCh
}

func (p *Processor) processBatch(ctx context.Context) error {
	var messages []Message
	if err := p.mgr.db.WithContext(ctx).
		Where("status = ?", statusPending).
		Order("created_at").
		Limit(p.batchSize).
		Find(&messages).Error; err != nil {
		return err
	}

	for _, message := range messages {
		if err := p.push(ctx, message.Topic, message.Key, []byte(message.Payload)); err != nil {
			logger.Error(ctx, "Failed to push outbox message",
				"id", message.ID,
				"topic", message.Topic,
				"error", err,
			)
			continue
		}
		if err := p.mgr.db.WithContext(ctx).
			Model(&Message{}).
			Where("id = ?", message.ID).
			Update("status", statusSent).Error; err != nil {
			return err
		}
	}

	return nil
}

// CleanupProcessed 清理已发送且早于给定时间的消息
func (m *Manager) CleanupProcessed(ctx context.Context, before time.Time) error {
	return m.db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", statusSent, before).
		Delete(&Message{}).Error
}
