package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// AttemptActiveSessionKey returns the cache key holding the ACTIVE session ID
// for an attempt. PostgreSQL is authoritative; this is a read-through cache.
func (r *CacheKeyStruct) AttemptActiveSessionKey(attemptID string) string {
	return fmt.Sprintf("attempt:%s:active_session", attemptID)
}

// ExamVersionPayloadKey returns the cache key for a published exam version's
// full definition (modules, questions, options, answer key).
func (r *CacheKeyStruct) ExamVersionPayloadKey(examVersionID string) string {
	return fmt.Sprintf("examversion:%s:payload", examVersionID)
}

// AttemptMonitorChannel returns the Redis PubSub channel name on which
// attempt activity is published for proctor monitoring.
func (r *CacheKeyStruct) AttemptMonitorChannel(attemptID string) string {
	return fmt.Sprintf("attempt:%s:monitor", attemptID)
}

var CacheKey = NewCacheKeyStruct()
