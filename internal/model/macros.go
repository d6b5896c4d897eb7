package model

import (
	"strings"

	"github.com/aidanlsb/nagmodel/internal/macros"
)

// Macro resolves a single macro token for this object. Macros that cannot
// be resolved yield an empty string; errors come only from the store.
func (o *Object) Macro(name string) (string, error) {
	switch {
	case strings.HasPrefix(name, macros.PrefixArgument):
		return o.argumentMacro(name)
	case strings.HasPrefix(name, macros.PrefixUser):
		return o.userMacro(name)
	case strings.HasPrefix(name, macros.PrefixHost), strings.HasPrefix(name, macros.PrefixCustomHost):
		target := o
		if scope, ok := o.kind.(hostMacroScope); ok {
			host, err := scope.macroHost(o)
			if err != nil {
				return "", err
			}
			if host == nil {
				return "", nil
			}
			target = host
		}
		return target.scopedMacro(name, macros.PrefixCustomHost), nil
	case strings.HasPrefix(name, macros.PrefixService), strings.HasPrefix(name, macros.PrefixCustomService):
		return o.scopedMacro(name, macros.PrefixCustomService), nil
	}
	if attr, ok := macros.Standard[name]; ok {
		return o.Value(Field(attr)), nil
	}
	return "", nil
}

// AllMacros resolves every macro in the command line referenced by
// check_command. ok is false when there is no check_command or the
// command is not defined.
func (o *Object) AllMacros() (result map[string]string, ok bool, err error) {
	commandLine, ok, err := o.commandLine()
	if err != nil || !ok {
		return nil, false, err
	}
	result = make(map[string]string)
	for _, tok := range macros.Scan(commandLine) {
		v, err := o.Macro(tok)
		if err != nil {
			return nil, false, err
		}
		result[tok] = v
	}
	return result, true, nil
}

// EffectiveCommandLine returns the referenced command's command_line with
// every macro substituted. ok is false when there is no check_command or
// the command is not defined.
func (o *Object) EffectiveCommandLine() (string, bool, error) {
	commandLine, ok, err := o.commandLine()
	if err != nil || !ok {
		return "", false, err
	}
	expanded, err := macros.Expand(commandLine, o.Macro)
	if err != nil {
		return "", false, err
	}
	return expanded, true, nil
}

func (o *Object) commandLine() (string, bool, error) {
	check, ok := o.Get(string(FieldCheckCommand))
	if !ok {
		return "", false, nil
	}
	name, _, _ := strings.Cut(check, "!")
	cmd, err := o.registry.Objects(TypeCommand).GetByShortname(name)
	if err != nil {
		if isNotFound(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return cmd.Value(FieldCommandLine), true, nil
}

// argumentMacro resolves $ARGn$ from the check_command arguments.
func (o *Object) argumentMacro(name string) (string, error) {
	if o.argMacros == nil {
		check, ok := o.Get(string(FieldCheckCommand))
		if !ok {
			return "", nil
		}
		args := strings.Split(check, "!")[1:]
		resolved := make(map[string]string, len(args))
		for i, v := range args {
			if macros.IsToken(v) && !strings.HasPrefix(v, macros.PrefixArgument) {
				var err error
				if v, err = o.Macro(v); err != nil {
					return "", err
				}
			}
			resolved[macros.ArgumentToken(i+1)] = v
		}
		o.argMacros = resolved
	}
	return o.argMacros[name], nil
}

func (o *Object) userMacro(name string) (string, error) {
	resources, err := o.registry.Resources()
	if err != nil {
		return "", err
	}
	for _, r := range resources {
		if r.Name == name {
			return r.Value, nil
		}
	}
	return "", nil
}

// scopedMacro resolves a host or service macro against o. Custom macros
// read the underscore-prefixed attribute of the same name.
func (o *Object) scopedMacro(name, customPrefix string) string {
	if strings.HasPrefix(name, customPrefix) {
		return o.Value(Field("_" + macros.CustomName(name, customPrefix)))
	}
	if attr, ok := macros.Standard[name]; ok {
		return o.Value(Field(attr))
	}
	return ""
}
