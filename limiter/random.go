package limiter

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RandomDelay 每次 Wait 休眠 Base + [0, Jitter) 的随机时长
type RandomDelay struct {
	Base   time.Duration
	Jitter time.Duration

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewRandomDelay(base, jitter time.Duration) *RandomDelay {
	return &RandomDelay{
		Base:   base,
		Jitter: jitter,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Next 返回下一次需要等待的时长
func (d *RandomDelay) Next() time.Duration {
	if d.Jitter <= 0 {
		return d.Base
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.rnd == nil {
		d.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return d.Base + time.Duration(d.rnd.Int63n(int64(d.Jitter)))
}

func (d *RandomDelay) Wait(ctx context.Context) error {
	wait := d.Next()
	if wait <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Limit 按平均等待时长折算的速率
func (d *RandomDelay) Limit() rate.Limit {
	avg := d.Base + d.Jitter/2
	if avg <= 0 {
		return rate.Inf
	}
	return rate.Every(avg)
}
