package utils

import (
	"sync"

	"github.com/coschain/trxguard/common/constants"
	"github.com/coschain/trxguard/db/storage"
	"github.com/coschain/trxguard/prototype"
)

type IConsumer interface {
	// Consume takes num stamina from name at time now, returns false if there's not enough left.
	Consume(name string, num uint64, now uint64, relay bool) (bool, error)
}

type IGetter interface {
	Get(name string, relay bool) (uint64, error)
	GetCapacity(relay bool) uint64
	GetLeft(name string, now uint64, relay bool) (uint64, error)
}

// stake resource interface
type IResourceLimiter interface {
	IConsumer
	IGetter
}

// ResourceLimiter keeps per-sender stamina. Used stamina decays linearly to zero over a window of seconds,
// so a sender may spend at most its capacity within any window.
// Broadcast (relayed) transactions draw from a separate allowance if relayCapacity is non-zero.
type ResourceLimiter struct {
	db            storage.Database
	window        uint64
	capacity      uint64
	relayCapacity uint64
	lock          sync.Mutex
}

func NewResourceLimiter(db storage.Database, window, capacity, relayCapacity uint64) *ResourceLimiter {
	if window == 0 {
		window = constants.WindowSize
	}
	return &ResourceLimiter{
		db:            db,
		window:        window,
		capacity:      capacity,
		relayCapacity: relayCapacity,
	}
}

func (s *ResourceLimiter) load(name string) (*prototype.Stamina, error) {
	data, err := s.db.Get([]byte(name))
	if err == storage.ErrNotFound {
		return &prototype.Stamina{}, nil
	}
	if err != nil {
		return nil, err
	}
	return prototype.DecodeStamina(data)
}

func (s *ResourceLimiter) save(name string, st *prototype.Stamina) error {
	data, err := st.Encode()
	if err != nil {
		return err
	}
	return s.db.Put([]byte(name), data)
}

// separate tells whether relayed transactions have their own allowance.
func (s *ResourceLimiter) separate(relay bool) bool {
	return relay && s.relayCapacity > 0
}

func (s *ResourceLimiter) GetCapacity(relay bool) uint64 {
	if s.separate(relay) {
		return s.relayCapacity
	}
	return s.capacity
}

func (s *ResourceLimiter) Get(name string, relay bool) (uint64, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	st, err := s.load(name)
	if err != nil {
		return 0, err
	}
	if s.separate(relay) {
		return st.RelayUsed, nil
	}
	return st.Used, nil
}

func (s *ResourceLimiter) GetLeft(name string, now uint64, relay bool) (uint64, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	st, err := s.load(name)
	if err != nil {
		return 0, err
	}
	used, useTime := st.Used, st.UseTime
	if s.separate(relay) {
		used, useTime = st.RelayUsed, st.RelayUseTime
	}
	newStamina := calculateNewStaminaEMA(s.window, used, 0, useTime, now)
	maxStamina := s.GetCapacity(relay)
	if maxStamina < newStamina {
		return 0, nil
	}
	return maxStamina - newStamina, nil
}

func (s *ResourceLimiter) Consume(name string, num uint64, now uint64, relay bool) (bool, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	st, err := s.load(name)
	if err != nil {
		return false, err
	}
	used, useTime := &st.Used, &st.UseTime
	if s.separate(relay) {
		used, useTime = &st.RelayUsed, &st.RelayUseTime
	}
	newStamina := calculateNewStaminaEMA(s.window, *used, 0, *useTime, now)
	maxStamina := s.GetCapacity(relay)
	if maxStamina < newStamina {
		return false, nil
	}
	if maxStamina-newStamina < num {
		return false, nil
	}
	*used = calculateNewStaminaEMA(s.window, newStamina, num, now, now)
	*useTime = now
	return true, s.save(name, st)
}

func divideCeil(num, den uint64) uint64 {
	v := num / den
	if num%den > 0 {
		v += 1
	}
	return v
}

func calculateNewStaminaEMA(window, oldStamina, useStamina uint64, lastTime uint64, now uint64) uint64 {
	avgOld := divideCeil(oldStamina*constants.LimitPrecision, window)
	avgUse := divideCeil(useStamina*constants.LimitPrecision, window)
	if now > lastTime {
		if now < lastTime+window {
			delta := now - lastTime
			decay := float64(window-delta) / float64(window)
			newStamina := float64(avgOld) * decay
			avgOld = uint64(newStamina)
		} else {
			avgOld = 0
		}
	}
	avgOld += avgUse
	return avgOld * window / constants.LimitPrecision
}
