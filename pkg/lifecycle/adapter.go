package lifecycle

import "context"

// NoopHooks implements Hooks with no behavior. Embed it to implement only the
// stages a component cares about:
//
//	type server struct {
//	    lifecycle.NoopHooks
//	}
//
//	func (s *server) OnStart(ctx context.Context) error { ... }
type NoopHooks struct{}

func (NoopHooks) OnInit(context.Context) error    { return nil }
func (NoopHooks) OnStart(context.Context) error   { return nil }
func (NoopHooks) OnSuspend(context.Context) error { return nil }
func (NoopHooks) OnResume(context.Context) error  { return nil }
func (NoopHooks) OnDestroy(context.Context) error { return nil }

// HookFuncs implements Hooks with optional closures. Nil fields are no-ops.
type HookFuncs struct {
	Init    func(ctx context.Context) error
	Start   func(ctx context.Context) error
	Suspend func(ctx context.Context) error
	Resume  func(ctx context.Context) error
	Destroy func(ctx context.Context) error
}

func (h HookFuncs) OnInit(ctx context.Context) error    { return call(ctx, h.Init) }
func (h HookFuncs) OnStart(ctx context.Context) error   { return call(ctx, h.Start) }
func (h HookFuncs) OnSuspend(ctx context.Context) error { return call(ctx, h.Suspend) }
func (h HookFuncs) OnResume(ctx context.Context) error  { return call(ctx, h.Resume) }
func (h HookFuncs) OnDestroy(ctx context.Context) error { return call(ctx, h.Destroy) }

func call(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

var (
	_ Hooks = NoopHooks{}
	_ Hooks = HookFuncs{}
)
