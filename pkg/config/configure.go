package config

import (
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"text/tabwriter"
)

type configureIterator struct {
	cfgValue reflect.Value
	cfgType  reflect.Type
	i        int
}

func iterateConfiguration(conf *Config) *configureIterator {
	cfgValue := reflect.ValueOf(conf).Elem()
	return &configureIterator{cfgValue, cfgValue.Type(), -1}
}

func (it *configureIterator) Next() bool {
	it.i++
	return it.i < it.cfgValue.NumField()
}

func (it *configureIterator) Field() (name string, field reflect.Value) {
	name = it.cfgType.Field(it.i).Tag.Get("yaml")
	if comma := strings.Index(name, ","); comma >= 0 {
		name = name[:comma]
	}
	return name, it.cfgValue.Field(it.i)
}

// ConfigureFindFieldByName returns the field of conf whose yaml name is
// name, or the zero Value.
func ConfigureFindFieldByName(conf *Config, name string) reflect.Value {
	it := iterateConfiguration(conf)
	for it.Next() {
		fieldName, field := it.Field()
		if fieldName == name {
			return field
		}
	}
	return reflect.Value{}
}

// ConfigureList writes every option of conf to w, one per line.
func ConfigureList(w io.Writer, conf *Config) error {
	tw := tabwriter.NewWriter(w, 0, 8, 1, ' ', 0)
	it := iterateConfiguration(conf)
	for it.Next() {
		fieldName, field := it.Field()
		if fieldName == "" || field.Kind() == reflect.Map {
			continue
		}
		if field.Kind() == reflect.Ptr {
			if field.IsNil() {
				fmt.Fprintf(tw, "%s\t<not defined>\n", fieldName)
				continue
			}
			field = field.Elem()
		}
		fmt.Fprintf(tw, "%s\t%v\n", fieldName, field)
	}
	return tw.Flush()
}

// ConfigureSet parses args, of the form "name value", and stores value in
// the option called name. "alias command alias" adds a command alias.
func ConfigureSet(conf *Config, args string) error {
	cfgname, rest := split2PartsBySpace(args)

	if cfgname == "alias" {
		return configureSetAlias(conf, rest)
	}

	field := ConfigureFindFieldByName(conf, cfgname)
	if !field.CanAddr() {
		return fmt.Errorf("%q is not a configuration parameter", cfgname)
	}

	typ := field.Type()
	if field.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	var val reflect.Value
	switch typ.Kind() {
	case reflect.Int:
		n, err := strconv.Atoi(rest)
		if err != nil {
			return fmt.Errorf("argument to %q must be a number", cfgname)
		}
		if n < 0 {
			return fmt.Errorf("argument to %q must be a number greater than zero", cfgname)
		}
		val = reflect.ValueOf(&n)
	case reflect.Bool:
		v := rest == "true"
		val = reflect.ValueOf(&v)
	case reflect.String:
		val = reflect.ValueOf(&rest)
	default:
		return fmt.Errorf("unsupported type for configuration key %q", cfgname)
	}

	if field.Kind() == reflect.Ptr {
		field.Set(val)
	} else {
		field.Set(val.Elem())
	}
	return nil
}

func configureSetAlias(conf *Config, rest string) error {
	cmd, alias := split2PartsBySpace(rest)
	if cmd == "" || alias == "" || strings.ContainsAny(alias, " \t") {
		return fmt.Errorf("wrong number of arguments to \"config alias\"")
	}
	if conf.Aliases == nil {
		conf.Aliases = make(map[string][]string)
	}
	for _, a := range conf.Aliases[cmd] {
		if a == alias {
			return nil
		}
	}
	conf.Aliases[cmd] = append(conf.Aliases[cmd], alias)
	return nil
}

func split2PartsBySpace(s string) (string, string) {
	v := strings.SplitN(strings.TrimSpace(s), " ", 2)
	if len(v) == 1 {
		return v[0], ""
	}
	return v[0], strings.TrimSpace(v[1])
}
