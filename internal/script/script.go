package script

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dop251/goja"

	"github.com/funa-dev/funa/internal/errors"
	"github.com/funa-dev/funa/pkg/render"
)

// Global is the name of the registry object visible to scripts.
const Global = "funa"

// Registries holds the entries a script defined.
type Registries struct {
	As map[string]render.Converter
	If map[string]render.Predicate
	Is map[string]render.Model
	On map[string]render.Handler
}

// Engine runs a registry script and the functions it registered.
type Engine struct {
	vm      *goja.Runtime
	root    *goja.Object
	logger  *slog.Logger
	timeout time.Duration
	depth   int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger behind console.*.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithTimeout bounds each call into the script. Zero means no limit.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.timeout = d
	}
}

// Load runs src and returns the engine holding its registries. Cancelling
// ctx interrupts a script that is still running.
func Load(ctx context.Context, name, src string, opts ...Option) (*Engine, error) {
	e := &Engine{vm: goja.New(), logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	e.vm.SetFieldNameMapper(goja.UncapFieldNameMapper())

	e.root = e.vm.NewObject()
	for _, table := range []string{"as", "if", "is", "on"} {
		if err := e.root.Set(table, e.vm.NewObject()); err != nil {
			return nil, errors.New("F120").Wrap(err)
		}
	}
	if err := e.vm.Set(Global, e.root); err != nil {
		return nil, errors.New("F120").Wrap(err)
	}
	if err := e.vm.Set("console", e.console()); err != nil {
		return nil, errors.New("F120").Wrap(err)
	}

	program, err := goja.Compile(name, src, true)
	if err != nil {
		return nil, errors.New("F120").Wrap(err).WithLocation(name, 0, 0)
	}

	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		select {
		case <-ctx.Done():
			e.vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	_, err = e.vm.RunProgram(program)
	close(done)
	<-stopped
	e.vm.ClearInterrupt()
	if err != nil {
		return nil, errors.New("F120").Wrap(err).WithLocation(name, 0, 0)
	}
	return e, nil
}

// Registries converts the funa.as, funa.if, funa.is and funa.on tables.
func (e *Engine) Registries() (*Registries, error) {
	regs := &Registries{
		As: make(map[string]render.Converter),
		If: make(map[string]render.Predicate),
		Is: make(map[string]render.Model),
		On: make(map[string]render.Handler),
	}

	as := e.table("as")
	for _, name := range as.Keys() {
		c, err := e.converter(as.Get(name))
		if err != nil {
			return nil, invalid("as", name, err)
		}
		regs.As[name] = c
	}

	ifs := e.table("if")
	for _, name := range ifs.Keys() {
		fn, ok := goja.AssertFunction(ifs.Get(name))
		if !ok {
			return nil, invalid("if", name, fmt.Errorf("not a function"))
		}
		regs.If[name] = e.predicate(fn)
	}

	is := e.table("is")
	for _, name := range is.Keys() {
		m, ok := is.Get(name).Export().(map[string]any)
		if !ok {
			return nil, invalid("is", name, fmt.Errorf("not an object"))
		}
		regs.Is[name] = render.Model(m)
	}

	on := e.table("on")
	for _, name := range on.Keys() {
		fn, ok := goja.AssertFunction(on.Get(name))
		if !ok {
			return nil, invalid("on", name, fmt.Errorf("not a function"))
		}
		regs.On[name] = e.handler(fn)
	}
	return regs, nil
}

func invalid(table, name string, err error) error {
	return errors.New("F121").WithDetail(fmt.Sprintf("%s.%s.%s: %v", Global, table, name, err))
}

// table returns funa.<name>, or an empty object when a script replaced
// it with something that is not an object.
func (e *Engine) table(name string) *goja.Object {
	v := e.root.Get(name)
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return e.vm.NewObject()
	}
	return v.ToObject(e.vm)
}

func (e *Engine) converter(v goja.Value) (render.Converter, error) {
	if fn, ok := goja.AssertFunction(v); ok {
		return render.Converter{Convert: e.convertFunc(fn)}, nil
	}
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return render.Converter{}, fmt.Errorf("not a function or object")
	}
	obj := v.ToObject(e.vm)

	var c render.Converter
	if fn, ok := goja.AssertFunction(obj.Get("convert")); ok {
		c.Convert = e.convertFunc(fn)
	}
	if fn, ok := goja.AssertFunction(obj.Get("revert")); ok {
		c.Revert = e.convertFunc(fn)
	}
	if c.Convert == nil && c.Revert == nil {
		return c, fmt.Errorf("neither convert nor revert is a function")
	}
	return c, nil
}

func (e *Engine) convertFunc(fn goja.Callable) func(data, value any, args ...any) (any, error) {
	return func(data, value any, args ...any) (any, error) {
		v, err := e.call(fn, append([]any{data, value}, args...)...)
		if err != nil {
			return nil, err
		}
		return e.fromJS(v), nil
	}
}

func (e *Engine) predicate(fn goja.Callable) render.Predicate {
	return func(data any, args ...any) (bool, error) {
		v, err := e.call(fn, append([]any{data}, args...)...)
		if err != nil {
			return false, err
		}
		return v.ToBoolean(), nil
	}
}

func (e *Engine) handler(fn goja.Callable) render.Handler {
	return func(ev render.HandlerEvent) error {
		obj := e.vm.NewObject()
		_ = obj.Set("data", e.toJS(ev.Data))
		_ = obj.Set("sender", e.toJS(ev.Sender))
		_ = obj.Set("args", e.toJS(ev.Args))
		if ev.Event != nil {
			event := e.vm.NewObject()
			_ = event.Set("type", ev.Event.Type)
			_ = event.Set("detail", e.toJS(ev.Event.Detail))
			_ = obj.Set("event", event)
		} else {
			_ = obj.Set("event", goja.Null())
		}
		_, err := e.call(fn, obj)
		return err
	}
}

// call invokes fn. Only the outermost call is bounded by the timeout;
// calls made while a script function runs share its budget.
func (e *Engine) call(fn goja.Callable, args ...any) (goja.Value, error) {
	vals := make([]goja.Value, len(args))
	for i, a := range args {
		vals[i] = e.toJS(a)
	}

	if e.depth == 0 && e.timeout > 0 {
		timer := time.AfterFunc(e.timeout, func() {
			e.vm.Interrupt(fmt.Sprintf("script exceeded %s", e.timeout))
		})
		defer func() {
			timer.Stop()
			e.vm.ClearInterrupt()
		}()
	}

	e.depth++
	v, err := fn(goja.Undefined(), vals...)
	e.depth--
	if err != nil {
		return nil, errors.New("F120").Wrap(err)
	}
	return v, nil
}

func (e *Engine) console() *goja.Object {
	console := e.vm.NewObject()
	levels := map[string]slog.Level{
		"log":   slog.LevelInfo,
		"info":  slog.LevelInfo,
		"debug": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for name, level := range levels {
		_ = console.Set(name, func(call goja.FunctionCall) goja.Value {
			parts := make([]string, len(call.Arguments))
			for i, arg := range call.Arguments {
				parts[i] = arg.String()
			}
			e.logger.Log(context.Background(), level, strings.Join(parts, " "), "source", "script")
			return goja.Undefined()
		})
	}
	return console
}
