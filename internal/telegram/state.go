package telegram

import (
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type stage int

const (
	stageIdle stage = iota
	stageAskName
	stageAskAge
	stageAskGender
	stageAskSymptoms
	stageConsulting
	stageDone
)

// chatState tracks one chat's progress through the intake conversation and
// the id of the consultation it opened.
type chatState struct {
	Stage     stage
	Name      string
	Age       int
	Gender    string
	SessionID string
}

type stateStore struct {
	cache *gocache.Cache
}

func newStateStore(ttl time.Duration) *stateStore {
	return &stateStore{cache: gocache.New(ttl, ttl)}
}

func (s *stateStore) get(chatID int64) *chatState {
	if v, ok := s.cache.Get(strconv.FormatInt(chatID, 10)); ok {
		return v.(*chatState)
	}
	return &chatState{Stage: stageIdle}
}

func (s *stateStore) put(chatID int64, st *chatState) {
	s.cache.SetDefault(strconv.FormatInt(chatID, 10), st)
}

func (s *stateStore) reset(chatID int64) {
	s.cache.Delete(strconv.FormatInt(chatID, 10))
}
