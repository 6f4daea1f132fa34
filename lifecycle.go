package knit

import (
	"errors"
	"reflect"
	"strconv"

	"github.com/knit-go/knit/internal/meta"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Instantiate constructs a class through the injector without registering
// it: dependencies resolve against the registry as usual, but the class
// itself is not a token and does not participate in cycle detection.
//
// SkipHooks suppresses post-construct hooks for this one instantiation.
func (in *Injector) Instantiate(class any, opts ...InstantiateOption) (any, error) {
	var options instantiateOptions
	for _, opt := range opts {
		if opt != nil {
			opt.applyInstantiateOption(&options)
		}
	}

	return in.instantiateClass(class, &resolution{}, options.skipHooks)
}

// Invoke calls fn with the resolved deps as positional arguments and
// returns its first non-error result.
func (in *Injector) Invoke(fn any, deps ...Dep) (any, error) {
	args, err := in.resolveDeps(deps, &resolution{})
	if err != nil {
		return nil, err
	}
	return callFunction(Deref(fn), args)
}

// Autowire assigns the declared injected fields of an existing instance.
// Field values resolve against this injector, honoring each field's spec.
func (in *Injector) Autowire(instance any) error {
	if instance == nil {
		return ErrInstanceNil
	}

	info, err := in.metadata.Resolve(reflect.TypeOf(instance))
	if err != nil {
		return err
	}

	return in.autowire(instance, info, &resolution{})
}

// instantiateClass runs the two-phase build: construct the instance from its
// resolved constructor arguments, then autowire fields, then run the merged
// post-construct hooks. Field values are not available during the
// constructor body.
func (in *Injector) instantiateClass(class any, rs *resolution, skipHooks bool) (any, error) {
	classType, ok := classTypeOf(Deref(class))
	if !ok {
		return nil, ErrClassNotStruct
	}

	info, err := in.metadata.Resolve(classType)
	if err != nil {
		return nil, err
	}

	args, err := in.resolveDeps(info.Params, rs)
	if err != nil {
		return nil, err
	}

	instance, err := construct(classType, info.Constructor, args)
	if err != nil {
		return nil, err
	}

	if err := in.autowire(instance, info, rs); err != nil {
		return nil, err
	}

	if !skipHooks {
		if err := runHooks(instance, info.Hooks); err != nil {
			return nil, err
		}
	}

	return instance, nil
}

// construct creates the raw instance: via the registered constructor when
// one is declared, as a zero value otherwise.
func construct(classType reflect.Type, constructor any, args []any) (any, error) {
	if constructor == nil {
		return reflect.New(classType.Elem()).Interface(), nil
	}
	return callFunction(constructor, args)
}

// autowire resolves and assigns each declared field spec onto the instance.
// An optional field whose token is missing keeps its zero value.
func (in *Injector) autowire(instance any, info *meta.Info, rs *resolution) error {
	if len(info.Fields) == 0 {
		return nil
	}

	v := reflect.ValueOf(instance)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return ErrClassNotStruct
	}
	elem := v.Elem()

	for _, name := range info.FieldOrder {
		dep := info.Fields[name]

		field := elem.FieldByName(name)
		if !field.IsValid() {
			return AutowireError{Type: v.Type(), Field: name, Cause: errors.New("no such field")}
		}
		if !field.CanSet() {
			return AutowireError{Type: v.Type(), Field: name, Cause: errors.New("field is not settable")}
		}

		value, err := in.get(dep.Token, resolveSpec{dep: dep}, rs)
		if err != nil {
			return AutowireError{Type: v.Type(), Field: name, Cause: err}
		}

		if value == nil {
			continue
		}

		fv := reflect.ValueOf(value)
		if !fv.Type().AssignableTo(field.Type()) {
			return AutowireError{
				Type:  v.Type(),
				Field: name,
				Cause: TypeMismatchError{Expected: field.Type(), Actual: fv.Type(), Context: "field assignment"},
			}
		}

		field.Set(fv)
	}

	return nil
}

// runHooks invokes the merged post-construct hook methods in order. Hooks
// take no arguments; an error return, when present, aborts the build.
func runHooks(instance any, hooks []string) error {
	v := reflect.ValueOf(instance)

	for _, name := range hooks {
		m := v.MethodByName(name)
		if !m.IsValid() {
			return HookError{Type: v.Type(), Hook: name, Cause: errors.New("no such method")}
		}
		if m.Type().NumIn() != 0 {
			return HookError{Type: v.Type(), Hook: name, Cause: errors.New("hook must take no arguments")}
		}

		for _, out := range m.Call(nil) {
			if err, ok := out.Interface().(error); ok && err != nil {
				return HookError{Type: v.Type(), Hook: name, Cause: err}
			}
		}
	}

	return nil
}

// callFunction invokes fn with args, supporting any arity including
// variadic tails. The first non-error return is the result; a trailing
// error return, when non-nil, fails the call.
func callFunction(fn any, args []any) (any, error) {
	fnValue := reflect.ValueOf(fn)
	if !fnValue.IsValid() || fnValue.Kind() != reflect.Func {
		return nil, ErrFactoryNotFunc
	}
	fnType := fnValue.Type()

	if err := checkArity(fnType, len(args)); err != nil {
		return nil, err
	}

	callArgs := make([]reflect.Value, len(args))
	for i, arg := range args {
		paramType := paramTypeAt(fnType, i)

		if arg == nil {
			callArgs[i] = reflect.Zero(paramType)
			continue
		}

		av := reflect.ValueOf(arg)
		if !av.Type().AssignableTo(paramType) {
			return nil, ConstructorError{
				Func:  fnType,
				Cause: TypeMismatchError{Expected: paramType, Actual: av.Type(), Context: "argument " + strconv.Itoa(i)},
			}
		}
		callArgs[i] = av
	}

	outs := fnValue.Call(callArgs)

	var result any
	haveResult := false
	for _, out := range outs {
		if out.Type().Implements(errorType) {
			if err, ok := out.Interface().(error); ok && err != nil {
				return nil, ConstructorError{Func: fnType, Cause: err}
			}
			continue
		}
		if !haveResult {
			result = out.Interface()
			haveResult = true
		}
	}

	return result, nil
}

func checkArity(fnType reflect.Type, got int) error {
	if fnType.IsVariadic() {
		if got < fnType.NumIn()-1 {
			return ConstructorError{
				Func:  fnType,
				Cause: errors.New("not enough arguments: have " + strconv.Itoa(got) + ", want at least " + strconv.Itoa(fnType.NumIn()-1)),
			}
		}
		return nil
	}

	if got != fnType.NumIn() {
		return ConstructorError{
			Func:  fnType,
			Cause: errors.New("wrong argument count: have " + strconv.Itoa(got) + ", want " + strconv.Itoa(fnType.NumIn())),
		}
	}
	return nil
}

func paramTypeAt(fnType reflect.Type, i int) reflect.Type {
	if fnType.IsVariadic() && i >= fnType.NumIn()-1 {
		return fnType.In(fnType.NumIn() - 1).Elem()
	}
	return fnType.In(i)
}

