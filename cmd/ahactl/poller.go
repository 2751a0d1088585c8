package main

import (
	"context"
	"github.com/shimmeringbee/logwrap"
	"math/rand"
	"sync"
	"time"
)

const pollerBacklog = 8
const pollerWorkers = 2
const workerMaximumJobDuration = 30 * time.Second

// poller periodically refreshes lists from the gateway, each job starts after a random fraction of its interval
// so jobs sharing an interval do not fire together.
type poller struct {
	logger logwrap.Logger

	pollerWork chan pollerWork
	pollerStop chan bool

	m       *sync.Mutex
	stopped bool

	randLock *sync.Mutex
	rand     *rand.Rand
}

type pollerWork struct {
	name     string
	interval time.Duration
	fn       func(context.Context) error
}

func newPoller(logger logwrap.Logger) *poller {
	return &poller{
		logger:   logger,
		m:        &sync.Mutex{},
		randLock: &sync.Mutex{},
	}
}

func (p *poller) Start() {
	p.pollerStop = make(chan bool, pollerWorkers)
	p.pollerWork = make(chan pollerWork, pollerBacklog)

	for i := 0; i < pollerWorkers; i++ {
		go p.worker()
	}

	p.rand = rand.New(rand.NewSource(time.Now().UnixNano()))
}

func (p *poller) Stop() {
	p.m.Lock()
	p.stopped = true
	p.m.Unlock()

	for i := 0; i < pollerWorkers; i++ {
		p.pollerStop <- true
	}
}

func (p *poller) Add(name string, interval time.Duration, fn func(context.Context) error) {
	p.randLock.Lock()
	initialWait := time.Duration(float64(interval) * p.rand.Float64())
	p.randLock.Unlock()

	p.schedule(initialWait, pollerWork{name: name, interval: interval, fn: fn})
}

func (p *poller) schedule(wait time.Duration, work pollerWork) {
	time.AfterFunc(wait, func() {
		p.m.Lock()
		defer p.m.Unlock()

		if p.stopped {
			return
		}

		select {
		case p.pollerWork <- work:
		default:
			p.logger.LogWarn(context.Background(), "Poller backlog full, rescheduling job.", logwrap.Datum("job", work.name))
			p.schedule(work.interval, work)
		}
	})
}

func (p *poller) worker() {
	for {
		select {
		case work := <-p.pollerWork:
			ctx, cancel := context.WithTimeout(context.Background(), workerMaximumJobDuration)

			if err := work.fn(ctx); err != nil {
				p.logger.LogError(ctx, "Polling job failed.", logwrap.Datum("job", work.name), logwrap.Err(err))
			}

			cancel()
			p.schedule(work.interval, work)
		case <-p.pollerStop:
			return
		}
	}
}
