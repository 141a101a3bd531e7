package bus

import "github.com/godbus/dbus/v5"

// Endpoint identifies a callable peer on the bus.
type Endpoint struct {
	Service   string
	Path      dbus.ObjectPath
	Interface string
}

// Member returns the fully qualified name of method on this endpoint's interface.
func (e Endpoint) Member(method string) string {
	return e.Interface + "." + method
}

// MatchRule selects signals by interface and member.
type MatchRule struct {
	Interface string
	Member    string
}

// Name returns the fully qualified signal name, as reported in dbus.Signal.Name.
func (r MatchRule) Name() string {
	return r.Interface + "." + r.Member
}

// String renders the rule in bus match syntax.
func (r MatchRule) String() string {
	return "type='signal',interface='" + r.Interface + "',member='" + r.Member + "'"
}
