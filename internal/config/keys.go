package config

import "fmt"

// CacheKeyStruct centralizes every Redis key and channel name.
type CacheKeyStruct struct{}

// SurveySessionKey returns the key holding a respondent's session state.
func (r *CacheKeyStruct) SurveySessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

// OperatorSessionKey returns the key registering an operator's login jti.
func (r *CacheKeyStruct) OperatorSessionKey(operatorID int) string {
	return fmt.Sprintf("operator:%d:login", operatorID)
}

// DashboardEventsChannel returns the pub/sub channel carrying dashboard
// refresh events (submission started / finalized).
func (r *CacheKeyStruct) DashboardEventsChannel() string {
	return "dashboard:events"
}

var CacheKey = &CacheKeyStruct{}

// WorkerKeyStruct names the Redis queues consumed by background workers.
type WorkerKeyStruct struct {
	PersistAnswersQueue string
}

var WorkerKey = &WorkerKeyStruct{
	PersistAnswersQueue: "persist_answers_queue",
}
