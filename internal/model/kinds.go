package model

// kind carries the per-type behavior of an object.
type kind interface {
	objectType() ObjectType
	describe(o *Object) (string, bool)
}

// hostMacroScope is implemented by kinds that resolve $HOST...$ macros
// against an object other than themselves.
type hostMacroScope interface {
	macroHost(o *Object) (*Object, error)
}

type namedKind struct {
	t     ObjectType
	field Field
}

func (k namedKind) objectType() ObjectType { return k.t }

func (k namedKind) describe(o *Object) (string, bool) {
	return o.Get(string(k.field))
}

type hostKind struct{ namedKind }

func (hostKind) macroHost(o *Object) (*Object, error) { return o, nil }

type serviceKind struct{}

func (serviceKind) objectType() ObjectType { return TypeService }

func (serviceKind) describe(o *Object) (string, bool) {
	return o.Value(FieldHostName) + "/" + o.Value(FieldServiceDescription), true
}

// macroHost returns the host named by host_name, or nil when the service
// has no host or the host is not defined.
func (serviceKind) macroHost(o *Object) (*Object, error) {
	hostName, ok := o.Get(string(FieldHostName))
	if !ok {
		return nil, nil
	}
	host, err := o.registry.Objects(TypeHost).GetByShortname(hostName)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return host, nil
}

func kindFor(t ObjectType) kind {
	switch t {
	case TypeHost:
		return hostKind{namedKind{t: TypeHost, field: FieldHostName}}
	case TypeService:
		return serviceKind{}
	default:
		return namedKind{t: t, field: Field(string(t) + "_name")}
	}
}
