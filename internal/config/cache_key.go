package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// SessionKey returns the Redis key for a quiz session's state.
func (r *CacheKeyStruct) SessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

// ArchiveQueue is the Redis list holding scored answers awaiting persistence.
func (r *CacheKeyStruct) ArchiveQueue() string {
	return "archive:answers"
}

// MonitorChannel is the Redis PubSub channel carrying scored-answer events.
func (r *CacheKeyStruct) MonitorChannel() string {
	return "monitor:answers"
}

var CacheKey = NewCacheKeyStruct()
