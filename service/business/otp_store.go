package business

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/go-redis/redis"
	"github.com/unipay/unipay-api/service/models"
)

// OtpStore keeps at most one pending code per mobile number. Put overwrites
// any prior record for the same number.
type OtpStore interface {
	Put(ctx context.Context, mobile string, record *models.OtpRecord) error
	Get(ctx context.Context, mobile string) (*models.OtpRecord, error)
	Delete(ctx context.Context, mobile string) error
}

const otpKeyPrefix = "otp:"

type redisOtpStore struct {
	client *redis.Client
	// Keys outlive the OTP window so an expired code still answers
	// OTP_EXPIRED instead of NO_PENDING_OTP. The TTL is only a sweep.
	sweepAfter time.Duration
}

func NewRedisOtpStore(client *redis.Client) OtpStore {
	return &redisOtpStore{client: client, sweepAfter: 2 * otpWindow}
}

func (s *redisOtpStore) Put(_ context.Context, mobile string, record *models.OtpRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return s.client.Set(otpKeyPrefix+mobile, payload, s.sweepAfter).Err()
}

func (s *redisOtpStore) Get(_ context.Context, mobile string) (*models.OtpRecord, error) {
	payload, err := s.client.Get(otpKeyPrefix + mobile).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	record := models.OtpRecord{}
	if err = json.Unmarshal([]byte(payload), &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *redisOtpStore) Delete(_ context.Context, mobile string) error {
	return s.client.Del(otpKeyPrefix + mobile).Err()
}

type memoryOtpStore struct {
	mu      sync.Mutex
	records map[string]*models.OtpRecord
}

// NewMemoryOtpStore is the fallback when redis is unreachable, and the store
// used by tests. Expiry is enforced by the caller reading ExpiresAt.
func NewMemoryOtpStore() OtpStore {
	return &memoryOtpStore{records: make(map[string]*models.OtpRecord)}
}

func (s *memoryOtpStore) Put(_ context.Context, mobile string, record *models.OtpRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[mobile] = record
	return nil
}

func (s *memoryOtpStore) Get(_ context.Context, mobile string) (*models.OtpRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[mobile]
	if !ok {
		return nil, nil
	}
	copied := *record
	return &copied, nil
}

func (s *memoryOtpStore) Delete(_ context.Context, mobile string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, mobile)
	return nil
}
