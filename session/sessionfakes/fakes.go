package sessionfakes

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-spa-session/session"
)

var _ session.Provider = (*FakeProvider)(nil)

// FakeProvider returns canned results and counts calls.
type FakeProvider struct {
	lock sync.Mutex

	AuthorizeErr error
	Result       session.CallbackResult
	Profile      *session.Profile
	ProfileErr   error

	AuthorizeCalls int
	ParseCalls     int
	FetchCalls     int
	LastCallback   string
	LastToken      string
}

func NewFakeProvider() *FakeProvider {
	return &FakeProvider{}
}

func (p *FakeProvider) Authorize(_ context.Context) error {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.AuthorizeCalls++
	return p.AuthorizeErr
}

func (p *FakeProvider) ParseCallback(_ context.Context, callback string) session.CallbackResult {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.ParseCalls++
	p.LastCallback = callback
	return p.Result
}

func (p *FakeProvider) FetchProfile(_ context.Context, accessToken string) (*session.Profile, error) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.FetchCalls++
	p.LastToken = accessToken
	if p.ProfileErr != nil {
		return nil, p.ProfileErr
	}
	return p.Profile, nil
}

var _ session.Navigator = (*FakeNavigator)(nil)

// FakeNavigator records every route it is asked to show.
type FakeNavigator struct {
	lock   sync.Mutex
	routes []string
}

func NewFakeNavigator() *FakeNavigator {
	return &FakeNavigator{}
}

func (n *FakeNavigator) NavigateTo(route string) {
	n.lock.Lock()
	defer n.lock.Unlock()
	n.routes = append(n.routes, route)
}

func (n *FakeNavigator) Routes() []string {
	n.lock.Lock()
	defer n.lock.Unlock()
	return append([]string(nil), n.routes...)
}

var _ session.Notifier = (*FakeNotifier)(nil)

type FakeNotifier struct {
	lock     sync.Mutex
	messages []string
}

func NewFakeNotifier() *FakeNotifier {
	return &FakeNotifier{}
}

func (n *FakeNotifier) Notify(message string) {
	n.lock.Lock()
	defer n.lock.Unlock()
	n.messages = append(n.messages, message)
}

func (n *FakeNotifier) Messages() []string {
	n.lock.Lock()
	defer n.lock.Unlock()
	return append([]string(nil), n.messages...)
}
