package cache

import "context"

// Tiered serves reads from a fast front backend and falls through to a
// slower back backend, copying hits forward. Writes go to both.
type Tiered struct {
	front Backend
	back  Backend
}

// NewTiered layers front over back.
func NewTiered(front, back Backend) *Tiered {
	return &Tiered{front: front, back: back}
}

func (t *Tiered) Load(ctx context.Context, key string) (*Entry, error) {
	if e, err := t.front.Load(ctx, key); err == nil && e != nil {
		return e, nil
	}
	e, err := t.back.Load(ctx, key)
	if err != nil || e == nil {
		return nil, err
	}
	_ = t.front.Store(ctx, key, e)
	return e, nil
}

func (t *Tiered) Store(ctx context.Context, key string, e *Entry) error {
	if err := t.front.Store(ctx, key, e); err != nil {
		return err
	}
	return t.back.Store(ctx, key, e)
}
