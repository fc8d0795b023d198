package request

import (
	"net/http"
	"sync"
)

// contextCache hands out one Context per *http.Request. The request's
// address is the key, which is stable since Go values do not move once
// allocated.
type contextCache struct {
	cache sync.Map // map[*http.Request]*cacheEntry
}

type cacheEntry struct {
	once    sync.Once
	factory func() *Context
	rc      *Context
}

func (ce *cacheEntry) load() *Context {
	ce.once.Do(func() { ce.rc = ce.factory() })

	return ce.rc
}

var defaultContextCache = &contextCache{}

// getOrCreate returns the Context for req, calling factory only once per
// request even under concurrent access.
func (cc *contextCache) getOrCreate(req *http.Request, factory func() *Context) *Context {
	v, _ := cc.cache.LoadOrStore(req, &cacheEntry{factory: factory})

	return v.(*cacheEntry).load()
}

func (cc *contextCache) get(req *http.Request) (*Context, bool) {
	v, ok := cc.cache.Load(req)
	if !ok {
		return nil, false
	}

	return v.(*cacheEntry).load(), true
}

// remove drops the entry for req and returns its Context.
func (cc *contextCache) remove(req *http.Request) (*Context, bool) {
	v, ok := cc.cache.LoadAndDelete(req)
	if !ok {
		return nil, false
	}

	return v.(*cacheEntry).load(), true
}

// Of returns the Context for req, building it on first call. Hosts that
// do not use Middleware call Of from every place needing request data and
// Release when the request is done. Options only apply to the first call.
//
// A Context stored in the request's context by Middleware takes
// precedence.
//
// Contexts built by Of live in a process-wide registry until Release is
// called for the request. Forgetting Release keeps the request, its body
// and its uploaded files alive for the life of the process. Middleware
// does not have that problem and is the preferred way to use the package
// in net/http servers.
func Of(req *http.Request, opts ...Option) *Context {
	if rc, ok := FromContext(req.Context()); ok {
		return rc
	}

	return defaultContextCache.getOrCreate(req, func() *Context { return FromHTTP(req, opts...) })
}

// Release forgets the Context Of built for req and removes its uploaded
// files.
func Release(req *http.Request) error {
	rc, ok := defaultContextCache.remove(req)
	if !ok {
		return nil
	}

	return rc.Close()
}
