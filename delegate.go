package augment

import (
	"fmt"

	"github.com/a-peyrard/augment/set"
	"github.com/a-peyrard/augment/structs"
)

type (
	// Delegator forwards a fixed set of attribute reads to a member of the
	// host. Embed it in a struct and configure it with DelegateTo:
	//
	//	type Bar struct {
	//		augment.Delegator
	//		Foo *Foo
	//	}
	//	bar := &Bar{Foo: newFoo()}
	//	bar.DelegateTo("Foo", "A", "B")
	//
	// Attr(bar, "A") then resolves bar.Foo.A once bar itself does not
	// satisfy the lookup. Delegation is read-through only.
	Delegator struct {
		member  string
		allowed set.Set[string]
	}

	delegating interface {
		delegation() (member string, allowed set.Set[string], configured bool)
	}
)

// DelegateTo declares which attribute names are forwarded, and through which
// member of the host they resolve. The member is looked up fresh on every
// access, so it can be replaced at runtime.
func (d *Delegator) DelegateTo(member string, attributes ...string) {
	d.member = member
	d.allowed = set.NewWithValues(attributes...)
}

func (d *Delegator) delegation() (string, set.Set[string], bool) {
	return d.member, d.allowed, d.member != ""
}

// Attr resolves an attribute on the given object: struct fields, map keys and
// methods first, then the delegation fallback when the host embeds a
// configured Delegator and the name is in the delegated set. Every miss wraps
// ErrNoSuchAttribute, delegated or not.
func Attr(obj any, name string) (any, error) {
	if value, err := structs.Get(obj, name); err == nil {
		return value, nil
	}

	if d, ok := obj.(delegating); ok {
		if member, allowed, configured := d.delegation(); configured && allowed.Contains(name) {
			memberValue, err := structs.Get(obj, member)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve delegation member %s:\n\t%w", member, err)
			}
			return Attr(memberValue, name)
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrNoSuchAttribute, name)
}

// MustAttr is like Attr but panics when the attribute cannot be resolved.
func MustAttr(obj any, name string) any {
	value, err := Attr(obj, name)
	if err != nil {
		panic(fmt.Sprintf("failed to resolve attribute:\n\t%v", err))
	}
	return value
}
