package starbind

import (
	"fmt"
	"io"
	"math/big"
	"os"
	"runtime"
	"sort"
	"strings"

	"go.starlark.net/resolve"
	"go.starlark.net/starlark"
)

const (
	commandBuiltinName   = "leb_command"
	encodeBuiltinName    = "encode"
	decodeBuiltinName    = "decode"
	typeBuiltinName      = "cur_type"
	readFileBuiltinName  = "read_file"
	writeFileBuiltinName = "write_file"
	helpBuiltinName      = "help"
)

func init() {
	resolve.AllowNestedDef = true
	resolve.AllowLambda = true
	resolve.AllowFloat = true
	resolve.AllowSet = true
	resolve.AllowRecursion = true
	resolve.AllowGlobalReassign = true
}

// Context is the session in which starlark scripts are evaluated.
type Context interface {
	// CallCommand runs a session command line, e.g. "type i32".
	CallCommand(cmdstr string) error
	// Encode returns the encoding of x as typ.
	Encode(typ string, x *big.Int) ([]byte, error)
	// Decode decodes every value of type typ held by the hex string.
	Decode(typ string, hex string) ([]*big.Int, error)
	// Type returns the current type of the session.
	Type() string
}

// Env is the environment used to evaluate starlark scripts.
type Env struct {
	env starlark.StringDict
	doc map[string]string
	ctx Context
	out io.Writer
}

// New creates a new starlark binding environment.
func New(ctx Context, out io.Writer) *Env {
	env := &Env{
		env: starlark.StringDict{},
		doc: map[string]string{},
		ctx: ctx,
		out: out,
	}

	builtin := func(name, args, descr string, fn func(thread *starlark.Thread, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error)) {
		env.env[name] = starlark.NewBuiltin(name, func(thread *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			v, err := fn(thread, args, kwargs)
			if err != nil {
				return nil, decorateError(thread, err)
			}
			return v, nil
		})
		env.doc[name] = name + args + "\n\n" + name + " " + descr
	}

	builtin(commandBuiltinName, "(Command)", "runs a session command, e.g. leb_command(\"type i64\").", func(_ *starlark.Thread, args starlark.Tuple, _ []starlark.Tuple) (starlark.Value, error) {
		argstrs := make([]string, len(args))
		for i := range args {
			a, ok := args[i].(starlark.String)
			if !ok {
				return nil, fmt.Errorf("argument of %s is not a string", commandBuiltinName)
			}
			argstrs[i] = string(a)
		}
		return starlark.None, env.ctx.CallCommand(strings.Join(argstrs, " "))
	})

	builtin(encodeBuiltinName, "(Value, Type)", "returns the encoding of Value as a hex string. Type defaults to the current type.", func(_ *starlark.Thread, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var (
			v   starlark.Value
			typ string
		)
		if err := starlark.UnpackArgs(encodeBuiltinName, args, kwargs, "value", &v, "type?", &typ); err != nil {
			return nil, err
		}
		n, ok := v.(starlark.Int)
		if !ok {
			return nil, fmt.Errorf("value of %s is a %s, not an int", encodeBuiltinName, v.Type())
		}
		if typ == "" {
			typ = env.ctx.Type()
		}
		b, err := env.ctx.Encode(typ, n.BigInt())
		if err != nil {
			return nil, err
		}
		return starlark.String(fmt.Sprintf("%x", b)), nil
	})

	builtin(decodeBuiltinName, "(Hex, Type)", "returns the list of values held by the Hex string. Type defaults to the current type.", func(_ *starlark.Thread, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var hex, typ string
		if err := starlark.UnpackArgs(decodeBuiltinName, args, kwargs, "hex", &hex, "type?", &typ); err != nil {
			return nil, err
		}
		if typ == "" {
			typ = env.ctx.Type()
		}
		xs, err := env.ctx.Decode(typ, hex)
		if err != nil {
			return nil, err
		}
		r := make([]starlark.Value, len(xs))
		for i := range xs {
			r[i] = starlark.MakeBigInt(xs[i])
		}
		return starlark.NewList(r), nil
	})

	builtin(typeBuiltinName, "()", "returns the current type.", func(_ *starlark.Thread, _ starlark.Tuple, _ []starlark.Tuple) (starlark.Value, error) {
		return starlark.String(env.ctx.Type()), nil
	})

	builtin(readFileBuiltinName, "(Path)", "reads a file.", func(_ *starlark.Thread, args starlark.Tuple, _ []starlark.Tuple) (starlark.Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("wrong number of arguments")
		}
		path, ok := args[0].(starlark.String)
		if !ok {
			return nil, fmt.Errorf("argument of %s was not a string", readFileBuiltinName)
		}
		buf, err := os.ReadFile(string(path))
		if err != nil {
			return nil, err
		}
		return starlark.String(buf), nil
	})

	builtin(writeFileBuiltinName, "(Path, Text)", "writes text to the specified file.", func(_ *starlark.Thread, args starlark.Tuple, _ []starlark.Tuple) (starlark.Value, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("wrong number of arguments")
		}
		path, ok := args[0].(starlark.String)
		if !ok {
			return nil, fmt.Errorf("first argument of %s was not a string", writeFileBuiltinName)
		}
		text := args[1].String()
		if s, ok := args[1].(starlark.String); ok {
			text = string(s)
		}
		return starlark.None, os.WriteFile(string(path), []byte(text), 0640)
	})

	builtin(helpBuiltinName, "(Object)", "prints help for Object.", func(_ *starlark.Thread, args starlark.Tuple, _ []starlark.Tuple) (starlark.Value, error) {
		switch len(args) {
		case 0:
			fmt.Fprintln(env.out, "Available builtins:")
			bins := make([]string, 0, len(env.env))
			for name := range env.env {
				bins = append(bins, name)
			}
			sort.Strings(bins)
			for _, bin := range bins {
				fmt.Fprintf(env.out, "\t%s\n", bin)
			}
		case 1:
			switch x := args[0].(type) {
			case *starlark.Builtin:
				if d := env.doc[x.Name()]; d != "" {
					fmt.Fprintln(env.out, d)
				} else {
					fmt.Fprintf(env.out, "no help for builtin %s\n", x.Name())
				}
			case *starlark.Function:
				fmt.Fprintf(env.out, "user defined function %s\n", x.Name())
				if d := x.Doc(); d != "" {
					fmt.Fprintln(env.out, d)
				}
			default:
				fmt.Fprintf(env.out, "no help for object of type %T\n", args[0])
			}
		default:
			return nil, fmt.Errorf("wrong number of arguments %d", len(args))
		}
		return starlark.None, nil
	})

	return env
}

// Execute executes a script. Path is the name of the file to execute and
// source is the source code to execute, a []byte, a string, an io.Reader or
// nil to read path. If the script defines a function called main it is
// called without arguments afterwards.
func (env *Env) Execute(path string, source interface{}) (_ starlark.Value, _err error) {
	defer func() {
		err := recover()
		if err == nil {
			return
		}
		_err = fmt.Errorf("panic executing starlark script: %v", err)
		for i := 0; ; i++ {
			pc, file, line, ok := runtime.Caller(i)
			if !ok {
				break
			}
			fname := "<unknown>"
			if fn := runtime.FuncForPC(pc); fn != nil {
				fname = fn.Name()
			}
			fmt.Fprintf(env.out, "%s\n\tin %s:%d\n", fname, file, line)
		}
	}()

	thread := &starlark.Thread{
		Name:  path,
		Print: func(_ *starlark.Thread, msg string) { fmt.Fprintln(env.out, msg) },
	}
	globals, err := starlark.ExecFile(thread, path, source, env.env)
	if err != nil {
		return starlark.None, err
	}

	mainval := globals["main"]
	if mainval == nil {
		return starlark.None, nil
	}
	mainfn, ok := mainval.(*starlark.Function)
	if !ok {
		return starlark.None, fmt.Errorf("main is not a function")
	}
	if mainfn.NumParams() != 0 {
		return starlark.None, fmt.Errorf("wrong number of arguments for main")
	}
	return starlark.Call(thread, mainfn, nil, nil)
}

func decorateError(thread *starlark.Thread, err error) error {
	if err == nil {
		return nil
	}
	pos := thread.CallFrame(1).Pos
	if pos.Col > 0 {
		return fmt.Errorf("%s:%d:%d: %v", pos.Filename(), pos.Line, pos.Col, err)
	}
	return fmt.Errorf("%s:%d: %v", pos.Filename(), pos.Line, err)
}
