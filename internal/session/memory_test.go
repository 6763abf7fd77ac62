package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/ctfe/ctfe/internal/dependencies/mocks"
	"github.com/ctfe/ctfe/internal/model"
)

type MemoryStoreSuite struct {
	suite.Suite
	clock *mocks.MockClock
	store *MemoryStore
	ctx   context.Context
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.store = NewMemoryStore(s.clock)
	s.ctx = context.Background()
}

func (s *MemoryStoreSuite) TestPutAndGet() {
	err := s.store.Put(s.ctx, "u_1", []byte("payload"), time.Hour)
	s.Require().NoError(err)

	payload, err := s.store.Get(s.ctx, "u_1")
	s.Require().NoError(err)
	s.Equal([]byte("payload"), payload)
}

func (s *MemoryStoreSuite) TestGetMissing() {
	_, err := s.store.Get(s.ctx, "u_nope")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *MemoryStoreSuite) TestGetAfterExpiry() {
	_ = s.store.Put(s.ctx, "u_1", []byte("payload"), time.Hour)

	s.clock.Advance(time.Hour + time.Second)

	_, err := s.store.Get(s.ctx, "u_1")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *MemoryStoreSuite) TestPutOverwrites() {
	_ = s.store.Put(s.ctx, "u_1", []byte("old"), time.Hour)
	_ = s.store.Put(s.ctx, "u_1", []byte("new"), time.Hour)

	payload, err := s.store.Get(s.ctx, "u_1")
	s.Require().NoError(err)
	s.Equal([]byte("new"), payload)
}

func (s *MemoryStoreSuite) TestPutRefreshesExpiry() {
	_ = s.store.Put(s.ctx, "u_1", []byte("payload"), time.Hour)

	s.clock.Advance(50 * time.Minute)
	_ = s.store.Put(s.ctx, "u_1", []byte("payload"), time.Hour)

	s.clock.Advance(50 * time.Minute)
	_, err := s.store.Get(s.ctx, "u_1")
	s.NoError(err)
}

func (s *MemoryStoreSuite) TestDelete() {
	_ = s.store.Put(s.ctx, "u_1", []byte("payload"), time.Hour)

	err := s.store.Delete(s.ctx, "u_1")
	s.Require().NoError(err)

	_, err = s.store.Get(s.ctx, "u_1")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *MemoryStoreSuite) TestDeleteMissingIsNoop() {
	s.NoError(s.store.Delete(s.ctx, "u_nope"))
}
