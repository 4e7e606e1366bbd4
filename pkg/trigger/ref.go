package trigger

// RefCond is a named condition. It is either defined in place or resolved
// later by a builder, which allows forward references between derived
// conditions. An unresolved reference reads as false.
type RefCond struct {
	name   string
	target Condition
}

// Define names c.
func Define(name string, c Condition) *RefCond {
	return &RefCond{name: name, target: c}
}

// Ref creates an unresolved reference to name.
func Ref(name string) *RefCond {
	return &RefCond{name: name}
}

// Name returns the reference name.
func (r *RefCond) Name() string { return r.name }

// Target returns the resolved condition, or nil.
func (r *RefCond) Target() Condition { return r.target }

// Resolve binds the reference.
func (r *RefCond) Resolve(c Condition) { r.target = c }

func (r *RefCond) Evaluate(s *Sample) bool {
	if r.target == nil {
		return false
	}
	return r.target.Evaluate(s)
}

func (r *RefCond) Operands() []Condition {
	if r.target == nil {
		return nil
	}
	return []Condition{r.target}
}

func (r *RefCond) String() string { return r.name }
