package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"telemedicine-core/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// incrIfExistsScript bumps a counter only when it is already cached. A missing
// key is rebuilt from the database on the next read.
var incrIfExistsScript = redis.NewScript(`
	if redis.call('EXISTS', KEYS[1]) == 0 then
		return -1
	end
	return redis.call('INCR', KEYS[1])
`)

// decrFloorScript decrements a cached counter without going below zero.
var decrFloorScript = redis.NewScript(`
	if redis.call('EXISTS', KEYS[1]) == 0 then
		return -1
	end
	local current = tonumber(redis.call('GET', KEYS[1]))
	if current <= 0 then
		return 0
	end
	return redis.call('DECR', KEYS[1])
`)

const (
	RedisUnreadKeyPrefix = "notification:unread:"

	// Cached counters expire so any drift heals on its own.
	unreadCounterTTL = 30 * time.Minute

	syncBatchSize = 500

	mutexCleanupInterval = 10 * time.Minute
	mutexStaleThreshold  = 10 * time.Minute
)

// NotificationCounterService caches per-user unread notification counts in
// Redis. The database stays the source of truth.
//
// Lock ordering: the per-user mutex is taken before any DB or Redis call on
// the rebuild path.
type NotificationCounterService struct {
	db               *gorm.DB
	redisClient      *redis.Client
	log              *logrus.Logger
	notificationRepo repository.NotificationRepository

	userMu sync.Map // map[uuid.UUID]*mutexWithTimestamp

	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

type mutexWithTimestamp struct {
	mu       sync.Mutex
	lastUsed atomic.Int64 // Unix timestamp
}

// NewNotificationCounterService starts a background goroutine for mutex
// cleanup. Call Stop() during graceful shutdown.
func NewNotificationCounterService(db *gorm.DB, redisClient *redis.Client, log *logrus.Logger, notificationRepo repository.NotificationRepository) *NotificationCounterService {
	svc := &NotificationCounterService{
		db:               db,
		redisClient:      redisClient,
		log:              log,
		notificationRepo: notificationRepo,
		stopChan:         make(chan struct{}),
	}

	svc.wg.Add(1)
	go svc.cleanupMutexMapLoop()

	return svc
}

// Stop is safe to call multiple times.
func (s *NotificationCounterService) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.stopChan)
		s.wg.Wait()
		s.log.Info("NotificationCounterService stopped")
	}
}

// SyncOnStartup overwrites every cached counter with the database tally.
// Users with no unread notifications get their key removed.
func (s *NotificationCounterService) SyncOnStartup(ctx context.Context) error {
	s.log.Info("Starting unread counter re-sync from database...")
	startTime := time.Now()

	if err := s.redisClient.Ping(ctx).Err(); err != nil {
		s.log.Warnf("Redis is not available, skipping sync: %+v", err)
		return fmt.Errorf("redis ping failed: %w", err)
	}

	if err := s.clearCachedCounters(ctx); err != nil {
		return err
	}

	counts, err := s.notificationRepo.CountUnreadGrouped(s.db.WithContext(ctx))
	if err != nil {
		s.log.Errorf("Failed to count unread notifications: %+v", err)
		return fmt.Errorf("count unread notifications: %w", err)
	}

	for start := 0; start < len(counts); start += syncBatchSize {
		end := start + syncBatchSize
		if end > len(counts) {
			end = len(counts)
		}

		pipe := s.redisClient.TxPipeline()
		for _, c := range counts[start:end] {
			pipe.Set(ctx, unreadKey(c.UserID), c.Count, unreadCounterTTL)
		}
		if _, err := pipe.Exec(ctx); err != nil {
			s.log.Errorf("Failed to execute pipeline for batch at offset %d: %+v", start, err)
			return fmt.Errorf("pipeline exec at offset %d: %w", start, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	s.log.Infof("Unread counter re-sync completed: %d users synced in %v", len(counts), time.Since(startTime))
	return nil
}

// UnreadCount returns the cached count, rebuilding it from the database on a miss.
func (s *NotificationCounterService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := s.redisClient.Get(ctx, unreadKey(userID)).Int64()
	if err == nil {
		return count, nil
	}
	if !errors.Is(err, redis.Nil) {
		s.log.Warnf("Failed to read unread counter for user %s, falling back to database: %+v", userID, err)
		return s.notificationRepo.CountUnread(s.db.WithContext(ctx), userID)
	}

	return s.rebuild(ctx, userID)
}

// Increment is called after a notification for userID has been committed.
func (s *NotificationCounterService) Increment(ctx context.Context, userID uuid.UUID) error {
	if err := incrIfExistsScript.Run(ctx, s.redisClient, []string{unreadKey(userID)}).Err(); err != nil {
		return fmt.Errorf("lua incr unread for user %s: %w", userID, err)
	}
	return nil
}

// Decrement is called after one of userID's notifications has been marked read.
func (s *NotificationCounterService) Decrement(ctx context.Context, userID uuid.UUID) error {
	if err := decrFloorScript.Run(ctx, s.redisClient, []string{unreadKey(userID)}).Err(); err != nil {
		return fmt.Errorf("lua decr unread for user %s: %w", userID, err)
	}
	return nil
}

func (s *NotificationCounterService) rebuild(ctx context.Context, userID uuid.UUID) (int64, error) {
	mt := s.getUserMutex(userID)
	mt.mu.Lock()
	defer mt.mu.Unlock()

	// Another caller may have rebuilt it while we waited.
	if count, err := s.redisClient.Get(ctx, unreadKey(userID)).Int64(); err == nil {
		return count, nil
	}

	count, err := s.notificationRepo.CountUnread(s.db.WithContext(ctx), userID)
	if err != nil {
		s.log.Warnf("Failed to count unread notifications for user %s: %+v", userID, err)
		return 0, err
	}

	if err := s.redisClient.Set(ctx, unreadKey(userID), count, unreadCounterTTL).Err(); err != nil {
		s.log.Warnf("Failed to cache unread counter for user %s: %+v", userID, err)
	}

	return count, nil
}

func (s *NotificationCounterService) clearCachedCounters(ctx context.Context) error {
	iter := s.redisClient.Scan(ctx, 0, RedisUnreadKeyPrefix+"*", syncBatchSize).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan unread counters: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := s.redisClient.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete unread counters: %w", err)
	}
	return nil
}

func (s *NotificationCounterService) getUserMutex(userID uuid.UUID) *mutexWithTimestamp {
	mt, _ := s.userMu.LoadOrStore(userID, &mutexWithTimestamp{})
	result := mt.(*mutexWithTimestamp)
	result.lastUsed.Store(time.Now().Unix())
	return result
}

func (s *NotificationCounterService) cleanupMutexMapLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(mutexCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			s.log.Debug("Mutex cleanup goroutine stopping")
			return
		case <-ticker.C:
			s.cleanupStaleMutexes()
		}
	}
}

// cleanupStaleMutexes checks lastUsed while holding the lock so a concurrent
// getUserMutex cannot be dropped.
func (s *NotificationCounterService) cleanupStaleMutexes() {
	cutoffTime := time.Now().Add(-mutexStaleThreshold).Unix()
	var cleaned int

	s.userMu.Range(func(key, value any) bool {
		mt, ok := value.(*mutexWithTimestamp)
		if !ok {
			return true
		}

		if mt.mu.TryLock() {
			if mt.lastUsed.Load() < cutoffTime {
				s.userMu.Delete(key)
				cleaned++
			}
			mt.mu.Unlock()
		}
		return true
	})

	if cleaned > 0 {
		s.log.Debugf("Cleaned up %d stale mutexes", cleaned)
	}
}

func unreadKey(userID uuid.UUID) string {
	return RedisUnreadKeyPrefix + userID.String()
}
