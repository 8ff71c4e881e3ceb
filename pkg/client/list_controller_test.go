package client

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTimer struct {
	fn      func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	wasActive := !t.stopped
	t.stopped = true
	return wasActive
}

type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
	delays []time.Duration
}

func (s *fakeScheduler) afterFunc(d time.Duration, fn func()) stopper {
	s.mu.Lock()
	defer s.mu.Unlock()
	timer := &fakeTimer{fn: fn}
	s.timers = append(s.timers, timer)
	s.delays = append(s.delays, d)
	return timer
}

// fireActive runs every timer that was not stopped.
func (s *fakeScheduler) fireActive() {
	s.mu.Lock()
	var active []*fakeTimer
	for _, timer := range s.timers {
		if !timer.stopped {
			timer.stopped = true
			active = append(active, timer)
		}
	}
	s.mu.Unlock()

	for _, timer := range active {
		timer.fn()
	}
}

type fetchCall struct {
	params ListParams
	reply  chan fetchReply
}

type fetchReply struct {
	page *ContainerPage
	err  error
}

type scriptedFetcher struct {
	calls chan fetchCall
}

func newScriptedFetcher() *scriptedFetcher {
	return &scriptedFetcher{calls: make(chan fetchCall, 10)}
}

func (f *scriptedFetcher) ListContainers(_ context.Context, params ListParams) (*ContainerPage, error) {
	call := fetchCall{params: params, reply: make(chan fetchReply, 1)}
	f.calls <- call
	reply := <-call.reply
	return reply.page, reply.err
}

type countingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *countingNotifier) Notify(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
}

func newTestController(fetcher ListFetcher, notifier Notifier) (*ListController, *fakeScheduler) {
	scheduler := &fakeScheduler{}
	controller := NewListController(context.Background(), fetcher, notifier)
	controller.afterFunc = scheduler.afterFunc
	return controller, scheduler
}

func pageWith(info string) *ContainerPage {
	return &ContainerPage{PageInfo: info}
}

func TestListControllerDebouncesSearch(t *testing.T) {
	fetcher := newScriptedFetcher()
	controller, scheduler := newTestController(fetcher, nil)

	controller.SetSearch("M")
	controller.SetSearch("MS")
	controller.SetSearch("MSCU")
	controller.SetFilter("active", "")

	require.Len(t, scheduler.timers, 4)
	assert.Equal(t, DefaultDebounce, scheduler.delays[0])
	for _, timer := range scheduler.timers[:3] {
		assert.True(t, timer.stopped)
	}
	assert.Empty(t, fetcher.calls)

	done := make(chan struct{})
	go func() {
		scheduler.fireActive()
		close(done)
	}()

	call := <-fetcher.calls
	assert.Equal(t, "MSCU", call.params.Search)
	assert.Equal(t, "active", call.params.Status)
	assert.Equal(t, 1, call.params.Page)
	call.reply <- fetchReply{page: pageWith("Showing 1-1 of 1")}
	<-done

	assert.Empty(t, fetcher.calls)
	assert.Equal(t, "Showing 1-1 of 1", controller.State().Page.PageInfo)
	assert.Equal(t, "MSCU", controller.State().Params.Search)
}

func TestListControllerDropsStaleResponses(t *testing.T) {
	fetcher := newScriptedFetcher()
	controller, _ := newTestController(fetcher, nil)

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- controller.Refresh()
	}()
	first := <-fetcher.calls

	controller.mu.Lock()
	controller.pending.Search = "newer"
	controller.mu.Unlock()

	secondDone := make(chan error, 1)
	go func() {
		secondDone <- controller.Refresh()
	}()
	second := <-fetcher.calls

	second.reply <- fetchReply{page: pageWith("newer")}
	require.NoError(t, <-secondDone)

	first.reply <- fetchReply{page: pageWith("older")}
	require.NoError(t, <-firstDone)

	state := controller.State()
	assert.Equal(t, "newer", state.Page.PageInfo)
	assert.Equal(t, "newer", state.Params.Search)
}

func TestListControllerKeepsStateOnFailure(t *testing.T) {
	fetcher := newScriptedFetcher()
	notifier := &countingNotifier{}
	var changes []ListState
	controller, scheduler := newTestController(fetcher, notifier)
	controller.onChange = func(state ListState) { changes = append(changes, state) }

	go func() {
		call := <-fetcher.calls
		call.reply <- fetchReply{page: pageWith("Showing 1-10 of 42")}
	}()
	require.NoError(t, controller.Refresh())

	controller.SetFilter("closed", "")
	failure := errors.New("network down")
	go func() {
		call := <-fetcher.calls
		call.reply <- fetchReply{err: failure}
	}()
	scheduler.fireActive()

	state := controller.State()
	assert.Equal(t, "Showing 1-10 of 42", state.Page.PageInfo)
	assert.Empty(t, state.Params.Status)
	assert.Equal(t, []string{"Unable to retrieve containers"}, notifier.messages)
	assert.Len(t, changes, 1)

	go func() {
		call := <-fetcher.calls
		assert.Empty(t, call.params.Status)
		call.reply <- fetchReply{page: pageWith("Showing 1-10 of 42")}
	}()
	require.NoError(t, controller.Refresh())
}

func TestListControllerPagingIsImmediate(t *testing.T) {
	fetcher := newScriptedFetcher()
	controller, scheduler := newTestController(fetcher, nil)

	go func() {
		call := <-fetcher.calls
		assert.Equal(t, 3, call.params.Page)
		assert.Equal(t, 50, call.params.PageSize)
		call.reply <- fetchReply{page: pageWith("Showing 101-150 of 200")}
	}()
	controller.SetPage(3, 50)

	assert.Empty(t, scheduler.timers)
	assert.Equal(t, 3, controller.State().Params.Page)
}

func TestListControllerKeepsNewerInputWhenFetchFails(t *testing.T) {
	fetcher := newScriptedFetcher()
	notifier := &countingNotifier{}
	controller, scheduler := newTestController(fetcher, notifier)

	controller.SetSearch("a")
	firstDone := make(chan struct{})
	go func() {
		scheduler.fireActive()
		close(firstDone)
	}()
	first := <-fetcher.calls
	assert.Equal(t, "a", first.params.Search)

	controller.SetSearch("ab")
	first.reply <- fetchReply{err: errors.New("network down")}
	<-firstDone

	assert.Equal(t, []string{"Unable to retrieve containers"}, notifier.messages)
	assert.Empty(t, controller.State().Params.Search)

	secondDone := make(chan struct{})
	go func() {
		scheduler.fireActive()
		close(secondDone)
	}()
	second := <-fetcher.calls
	assert.Equal(t, "ab", second.params.Search)
	second.reply <- fetchReply{page: pageWith("Showing 1-1 of 1")}
	<-secondDone

	assert.Equal(t, "ab", controller.State().Params.Search)
}
