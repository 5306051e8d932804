package viewer

// Document resolves mount points by id.
type Document interface {
	Container(id string) (Container, bool)
}

// Container is the region the viewer draws into. Sizes are in output pixels.
type Container interface {
	// Size returns the current rendered size.
	Size() (width, height int)
	// SetSize changes the container's own box.
	SetSize(width, height int)
	// OnResize registers fn to run whenever the host environment resizes.
	OnResize(fn func()) Subscription
}

// Subscription cancels a callback registration.
type Subscription interface {
	Close()
}

// StaticDocument is an in-memory Document.
type StaticDocument map[string]*StaticContainer

// NewStaticDocument returns a document holding the given containers.
func NewStaticDocument(containers ...*StaticContainer) StaticDocument {
	doc := make(StaticDocument, len(containers))
	for _, c := range containers {
		doc[c.ID] = c
	}
	return doc
}

// Container implements Document.
func (d StaticDocument) Container(id string) (Container, bool) {
	c, ok := d[id]
	if !ok {
		return nil, false
	}
	return c, true
}

// StaticContainer is an in-memory Container whose host resizes are
// simulated with Resize.
type StaticContainer struct {
	ID string

	width, height int
	subs          map[int]func()
	nextSub       int
}

// NewStaticContainer creates a container of the given size.
func NewStaticContainer(id string, width, height int) *StaticContainer {
	return &StaticContainer{ID: id, width: width, height: height, subs: make(map[int]func())}
}

// Size implements Container.
func (c *StaticContainer) Size() (width, height int) {
	return c.width, c.height
}

// SetSize implements Container. It does not notify subscribers.
func (c *StaticContainer) SetSize(width, height int) {
	c.width, c.height = width, height
}

// Resize changes the size as the host environment would and notifies
// every subscriber.
func (c *StaticContainer) Resize(width, height int) {
	c.width, c.height = width, height
	for i := 0; i < c.nextSub; i++ {
		if fn, ok := c.subs[i]; ok {
			fn()
		}
	}
}

// Subscribers returns the number of live subscriptions.
func (c *StaticContainer) Subscribers() int {
	return len(c.subs)
}

// OnResize implements Container.
func (c *StaticContainer) OnResize(fn func()) Subscription {
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	return subscription(func() { delete(c.subs, id) })
}

type subscription func()

func (s subscription) Close() { s() }
