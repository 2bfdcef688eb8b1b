package command

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Command binds an operator-facing name to a plain Go callback. Arguments
// are parsed from the callback's signature: required parameters first, then
// pointer parameters for optionals, with an optional trailing []string
// catching the rest. A parameter of the group's user type receives the
// caller.
type Command struct {
	Name        string
	Aliases     []string
	ArgFormat   string
	Description string
	Callback    interface{}
}

func (cmd *Command) String() string {
	if cmd.ArgFormat == "" {
		return cmd.Name
	}
	return fmt.Sprintf("%s %s", cmd.Name, cmd.ArgFormat)
}

func (cmd *Command) Detailed() string {
	detail := cmd.String()
	if len(cmd.Aliases) > 0 {
		detail = fmt.Sprintf("%s (alias %s)", detail, strings.Join(cmd.Aliases, ", "))
	}
	return fmt.Sprintf("%s: %s", detail, cmd.Description)
}

// CommandGroup dispatches commands addressed either bare or through the
// group's namespace prefix.
type CommandGroup[User any] struct {
	namespace string
	commands  map[string]*Command
	message   func(User, string)
}

func NewCommandGroup[User any](namespace string, message func(User, string)) *CommandGroup[User] {
	return &CommandGroup[User]{
		namespace: namespace,
		commands:  make(map[string]*Command),
		message:   message,
	}
}

func (c *CommandGroup[User]) Name() string {
	return c.namespace
}

func (c *CommandGroup[User]) Message(user User, format string, args ...interface{}) {
	if c.message == nil {
		return
	}
	c.message(user, fmt.Sprintf(format, args...))
}

func (c *CommandGroup[User]) validateCallback(callback interface{}) error {
	if callback == nil {
		return fmt.Errorf("command has no callback")
	}

	funcType := reflect.TypeOf(callback)
	if funcType.Kind() != reflect.Func {
		return fmt.Errorf("callback must be a function")
	}

	if funcType.NumOut() > 1 {
		return fmt.Errorf("callback can only have a single return value")
	}
	if funcType.NumOut() == 1 {
		if !funcType.Out(0).Implements(reflect.TypeOf((*error)(nil)).Elem()) {
			return fmt.Errorf("callback return type must be error")
		}
	}

	var u User
	userType := reflect.TypeOf(u)
	haveOptional := false

	for i := 0; i < funcType.NumIn(); i++ {
		argType := funcType.In(i)

		// The user type wins over the kind switch: user types are
		// typically pointers and must not be mistaken for optionals.
		if argType == userType {
			continue
		}

		switch argType.Kind() {
		case reflect.Slice:
			if argType.Elem().Kind() != reflect.String {
				return fmt.Errorf("slice parameter must be []string, got %s", argType.String())
			}
			if i != funcType.NumIn()-1 {
				return fmt.Errorf("[]string parameter must come last")
			}
		case reflect.Int, reflect.Int64, reflect.String, reflect.Bool, reflect.Float64:
			if haveOptional {
				return fmt.Errorf("required parameter cannot follow optional")
			}
		case reflect.Pointer:
			haveOptional = true
			switch argType.Elem().Kind() {
			case reflect.Int, reflect.Int64, reflect.Bool, reflect.Float64, reflect.String:
			default:
				return fmt.Errorf("invalid optional parameter type %s", argType.Elem().String())
			}
		default:
			return fmt.Errorf("invalid callback parameter type %s", argType.String())
		}
	}

	return nil
}

func (c *CommandGroup[User]) Register(command Command) error {
	if err := c.validateCallback(command.Callback); err != nil {
		return err
	}

	c.commands[command.Name] = &command
	for _, alias := range command.Aliases {
		c.commands[alias] = &command
	}
	return nil
}

func (c *CommandGroup[User]) Help() string {
	seen := make(map[string]struct{})
	names := make([]string, 0, len(c.commands))
	for _, command := range c.commands {
		if _, ok := seen[command.Name]; ok {
			continue
		}
		seen[command.Name] = struct{}{}
		names = append(names, command.Name)
	}

	sort.Strings(names)
	return fmt.Sprintf("%s: %s", c.namespace, strings.Join(names, ", "))
}

func (c *CommandGroup[User]) resolve(args []string) (*Command, []string) {
	if len(args) == 0 {
		return nil, nil
	}

	target := args[0]
	rest := args[1:]
	if target == c.namespace {
		if len(rest) == 0 {
			return nil, nil
		}
		target = rest[0]
		rest = rest[1:]
	}

	command, ok := c.commands[target]
	if !ok {
		return nil, nil
	}
	return command, rest
}

func (c *CommandGroup[User]) CanHandle(args []string) bool {
	command, _ := c.resolve(args)
	return command != nil
}

func parseArg(argType reflect.Type, argument string) (reflect.Value, error) {
	switch argType.Kind() {
	case reflect.Int:
		value, err := strconv.Atoi(argument)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("expected number, got %q", argument)
		}
		return reflect.ValueOf(value), nil
	case reflect.Int64:
		value, err := strconv.ParseInt(argument, 10, 64)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("expected number, got %q", argument)
		}
		return reflect.ValueOf(value), nil
	case reflect.Float64:
		value, err := strconv.ParseFloat(argument, 64)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("expected decimal, got %q", argument)
		}
		return reflect.ValueOf(value), nil
	case reflect.Bool:
		switch argument {
		case "yes", "1", "on", "true":
			return reflect.ValueOf(true), nil
		case "no", "0", "off", "false":
			return reflect.ValueOf(false), nil
		}
		return reflect.Value{}, fmt.Errorf("expected on or off, got %q", argument)
	case reflect.String:
		return reflect.ValueOf(argument), nil
	}

	return reflect.Value{}, fmt.Errorf("could not parse argument %q", argument)
}

// Handle parses args against the resolved command's callback signature and
// invokes it.
func (c *CommandGroup[User]) Handle(user User, args []string) error {
	command, rest := c.resolve(args)
	if command == nil {
		return fmt.Errorf("%s: unknown command", c.namespace)
	}

	callbackType := reflect.TypeOf(command.Callback)
	callbackArgs := make([]reflect.Value, 0, callbackType.NumIn())

	for i := 0; i < callbackType.NumIn(); i++ {
		argType := callbackType.In(i)

		if argType == reflect.TypeOf(user) {
			callbackArgs = append(callbackArgs, reflect.ValueOf(user))
			continue
		}

		var value reflect.Value
		switch argType.Kind() {
		case reflect.Slice:
			value = reflect.ValueOf(append([]string{}, rest...))
			rest = nil
		case reflect.Pointer:
			if len(rest) == 0 {
				value = reflect.Zero(argType)
				break
			}
			parsed, err := parseArg(argType.Elem(), rest[0])
			if err != nil {
				return err
			}
			rest = rest[1:]

			pointer := reflect.New(argType.Elem())
			pointer.Elem().Set(parsed)
			value = pointer
		case reflect.Int, reflect.Int64, reflect.String, reflect.Bool, reflect.Float64:
			if len(rest) == 0 {
				return fmt.Errorf("%s: missing argument", command.Name)
			}
			parsed, err := parseArg(argType, rest[0])
			if err != nil {
				return err
			}
			rest = rest[1:]
			value = parsed
		default:
			return fmt.Errorf("operational fault while handling command")
		}

		callbackArgs = append(callbackArgs, value)
	}

	results := reflect.ValueOf(command.Callback).Call(callbackArgs)
	if len(results) > 0 {
		if err, ok := results[0].Interface().(error); ok {
			return err
		}
	}

	return nil
}

type Commandable interface {
	CanHandle([]string) bool
	Help() string
}
