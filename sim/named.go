package sim

// A Named object is an object that has a name.
type Named interface {
	Name() string
}

// NamedHookable represent something both have a name and can be hooked
type NamedHookable interface {
	Named
	Hookable
}
