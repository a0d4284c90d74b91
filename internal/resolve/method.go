package resolve

import (
	"errors"
	"fmt"
	"reflect"
)

// BoundMethod ties a method name to a receiver exemplar. The case layer uses
// it to derive the owner type and to rebind the same method on a fresh
// instance; a bare function value carries no owner and cannot form one.
type BoundMethod struct {
	receiver any
	name     string
	bound    reflect.Value  // method value on the exemplar
	method   reflect.Method // method on the exemplar's type, for identity
}

// Bind binds an exported method of receiver by name.
func Bind(receiver any, name string) (BoundMethod, error) {
	if receiver == nil {
		return BoundMethod{}, errors.New("resolve: nil receiver")
	}
	v := reflect.ValueOf(receiver)
	if v.Kind() == reflect.Func {
		return BoundMethod{}, fmt.Errorf("resolve: %T is a bare function, not a method receiver", receiver)
	}
	bound := v.MethodByName(name)
	if !bound.IsValid() {
		return BoundMethod{}, fmt.Errorf("resolve: %T has no method %q", receiver, name)
	}
	method, _ := v.Type().MethodByName(name)
	return BoundMethod{receiver: receiver, name: name, bound: bound, method: method}, nil
}

// Receiver returns the exemplar the method was bound on.
func (b BoundMethod) Receiver() any { return b.receiver }

// Name returns the method name.
func (b BoundMethod) Name() string { return b.name }

// Func returns the bound method value, callable without a receiver argument.
func (b BoundMethod) Func() any { return b.bound.Interface() }

func (b BoundMethod) address() (Address, error) {
	return funcAddress(b.methodPC())
}

// methodPC identifies the method by its declared func, not the per-value
// wrapper the runtime synthesizes for method values.
func (b BoundMethod) methodPC() uintptr {
	if b.method.Func.IsValid() {
		return b.method.Func.Pointer()
	}
	return b.bound.Pointer()
}
