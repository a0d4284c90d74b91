package unit

import (
	"fmt"
	"reflect"
	"runtime/debug"
)

// ErrorInfo captures everything known about a contained failure: the error,
// the panic value when the failure was a panic, and the stack at the point
// of capture.
type ErrorInfo struct {
	Err        error
	PanicValue any
	Stack      []byte
}

func errorInfoFor(err error) ErrorInfo {
	return ErrorInfo{Err: err, Stack: debug.Stack()}
}

func panicInfo(v any) ErrorInfo {
	err, ok := v.(error)
	if ok {
		err = fmt.Errorf("panic: %w", err)
	} else {
		err = fmt.Errorf("panic: %v", v)
	}
	return ErrorInfo{Err: err, PanicValue: v, Stack: debug.Stack()}
}

// interruptPanic reports whether a recovered value is a hard cancellation
// that must keep unwinding instead of being contained.
func interruptPanic(v any) bool {
	err, ok := v.(error)
	return ok && Interrupted(err)
}

// callWith invokes an arbitrary function value with a positional argument
// tuple, surfacing a trailing error return when present.
func callWith(fn any, args []any) error {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return fmt.Errorf("%w: %T", ErrNotCallable, fn)
	}
	in, err := buildArgs(v.Type(), args)
	if err != nil {
		return err
	}
	out := v.Call(in)
	if n := len(out); n > 0 {
		if err, ok := out[n-1].Interface().(error); ok && err != nil {
			return err
		}
	}
	return nil
}

func buildArgs(t reflect.Type, args []any) ([]reflect.Value, error) {
	if t.IsVariadic() {
		if len(args) < t.NumIn()-1 {
			return nil, fmt.Errorf("callable wants at least %d args, tuple has %d", t.NumIn()-1, len(args))
		}
	} else if t.NumIn() != len(args) {
		return nil, fmt.Errorf("callable wants %d args, tuple has %d", t.NumIn(), len(args))
	}
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		var want reflect.Type
		if t.IsVariadic() && i >= t.NumIn()-1 {
			want = t.In(t.NumIn() - 1).Elem()
		} else {
			want = t.In(i)
		}
		av := reflect.ValueOf(arg)
		switch {
		case !av.IsValid():
			av = reflect.Zero(want)
		case av.Type().AssignableTo(want):
		case av.Type().ConvertibleTo(want):
			av = av.Convert(want)
		default:
			return nil, fmt.Errorf("arg %d: %T is not assignable to %s", i, arg, want)
		}
		in[i] = av
	}
	return in, nil
}

// runCycle drives one unit: setup, body, teardown. A setup failure skips
// both body and teardown; teardown runs whenever setup succeeded, including
// when the body panics; a body failure takes precedence over a teardown
// failure.
func runCycle(setUp, body, tearDown func() error) (err error) {
	if serr := setUp(); serr != nil {
		return fmt.Errorf("setup: %w", serr)
	}
	defer func() {
		terr := tearDown()
		if err == nil && terr != nil {
			err = fmt.Errorf("teardown: %w", terr)
		}
	}()
	return body()
}
