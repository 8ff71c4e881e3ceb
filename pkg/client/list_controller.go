package client

import (
	"context"
	"sync"
	"time"
)

const DefaultDebounce = 300 * time.Millisecond

type ListFetcher interface {
	ListContainers(ctx context.Context, params ListParams) (*ContainerPage, error)
}

type Notifier interface {
	Notify(message string)
}

// ListState is what a list screen renders. Params are the filters the rows
// were fetched with.
type ListState struct {
	Params ListParams
	Page   *ContainerPage
}

type stopper interface {
	Stop() bool
}

// ListController keeps the filter state of the container list. Filter and
// search changes are debounced; every fetch takes a sequence number and only
// the latest one may update the state. A failed fetch keeps the previous
// rows and filters and emits one notification.
type ListController struct {
	ctx      context.Context
	fetcher  ListFetcher
	notifier Notifier
	debounce time.Duration
	onChange func(ListState)

	afterFunc func(d time.Duration, f func()) stopper

	mu      sync.Mutex
	pending ListParams

	// rev counts edits to pending so a failed fetch only rolls back the
	// filters it was started with.
	rev   uint64
	state ListState
	seq   uint64
	timer stopper
}

type ListOption func(*ListController)

func WithDebounce(d time.Duration) ListOption {
	return func(c *ListController) {
		c.debounce = d
	}
}

// OnChange registers a callback run after each applied fetch.
func OnChange(fn func(ListState)) ListOption {
	return func(c *ListController) {
		c.onChange = fn
	}
}

func NewListController(ctx context.Context, fetcher ListFetcher, notifier Notifier, opts ...ListOption) *ListController {
	c := &ListController{
		ctx:      ctx,
		fetcher:  fetcher,
		notifier: notifier,
		debounce: DefaultDebounce,
		afterFunc: func(d time.Duration, f func()) stopper {
			return time.AfterFunc(d, f)
		},
		pending: ListParams{Page: 1},
		state:   ListState{Params: ListParams{Page: 1}},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *ListController) State() ListState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *ListController) SetSearch(search string) {
	c.schedule(func(p *ListParams) {
		p.Search = search
	})
}

// SetFilter changes status and client filters; "all" or empty clears one.
func (c *ListController) SetFilter(status, clientID string) {
	c.schedule(func(p *ListParams) {
		p.Status = status
		p.ClientID = clientID
	})
}

func (c *ListController) SetSort(sort, direction string) {
	c.mu.Lock()
	c.pending.Sort = sort
	c.pending.Direction = direction
	c.rev++
	c.mu.Unlock()

	// Failures reach the user through the Notifier.
	_ = c.Refresh()
}

// SetPage fetches immediately; paging is an explicit action.
func (c *ListController) SetPage(page, pageSize int) {
	c.mu.Lock()
	c.pending.Page = page
	c.pending.PageSize = pageSize
	c.rev++
	c.mu.Unlock()

	// Failures reach the user through the Notifier.
	_ = c.Refresh()
}

// Refresh cancels any scheduled fetch and fetches the pending filters now.
func (c *ListController) Refresh() error {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()

	return c.fetch()
}

func (c *ListController) schedule(change func(p *ListParams)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	change(&c.pending)
	c.pending.Page = 1
	c.rev++

	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = c.afterFunc(c.debounce, func() {
		_ = c.fetch()
	})
}

func (c *ListController) fetch() error {
	c.mu.Lock()
	c.seq++
	token := c.seq
	params := c.pending
	rev := c.rev
	c.mu.Unlock()

	page, err := c.fetcher.ListContainers(c.ctx, params)

	c.mu.Lock()
	if token != c.seq {
		c.mu.Unlock()
		return nil
	}

	if err != nil {
		// Input given while the request was in flight is kept for the next fetch.
		if c.rev == rev {
			c.pending = c.state.Params
		}
		c.mu.Unlock()
		if c.notifier != nil {
			c.notifier.Notify("Unable to retrieve containers")
		}
		return err
	}

	c.state = ListState{Params: params, Page: page}
	state := c.state
	onChange := c.onChange
	c.mu.Unlock()

	if onChange != nil {
		onChange(state)
	}
	return nil
}
