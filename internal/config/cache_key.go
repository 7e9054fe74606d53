package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// InterviewSessionKey returns the cache key under which a candidate's full
// interview session state is serialized. This is the durable root key the
// session store rehydrates from after a restart or page reload.
func (r *CacheKeyStruct) InterviewSessionKey(candidateID string) string {
	return fmt.Sprintf("candidate:%s:interview_session", candidateID)
}

// InterviewerSessionKey returns the cache key for an interviewer's login session.
func (r *CacheKeyStruct) InterviewerSessionKey(interviewerID int) string {
	return fmt.Sprintf("interviewer_login:%d", interviewerID)
}

// InterviewEventChannel returns the Redis PubSub channel carrying live
// session events (questions, feedback, completion) for a candidate.
func (r *CacheKeyStruct) InterviewEventChannel(candidateID string) string {
	return fmt.Sprintf("candidate:%s:interview_events", candidateID)
}

var CacheKey = NewCacheKeyStruct()
