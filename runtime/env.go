package runtime

import (
	"fmt"
	"strings"

	"github.com/pingcap/errors"
	"golang.org/x/exp/slices"
)

// Environment is the runtime environment of an interpreter: a tree of
// scopes, with the global scope at its base.
type Environment struct {
	Name      string
	ScopeTree *ScopeTree
	UData     interface{} // user data
}

// NewEnvironment creates an environment with an empty global scope.
func NewEnvironment(name string) *Environment {
	env := &Environment{
		Name:      name,
		ScopeTree: &ScopeTree{},
	}
	env.ScopeTree.PushNewScope("globals")
	return env
}

// UndefinedError is returned for lookups of unknown or unset variables.
type UndefinedError struct {
	Name string
}

func (e *UndefinedError) Error() string {
	return fmt.Sprintf("undefined variable '%s'", e.Name)
}

// Define defines a variable with a value in the current scope, shadowing
// variables of outer scopes.
func (env *Environment) Define(name string, v interface{}) (*Tag, error) {
	tag, _ := env.ScopeTree.Current().DefineTag(name)
	if tag == nil {
		return nil, errors.New("variable name may not be empty")
	}
	return tag.SetValue(v), nil
}

// Assign sets the value of a variable. If the variable is visible from the
// current scope, it will be updated in the scope it lives in. Otherwise it is
// created in the current scope.
func (env *Environment) Assign(name string, v interface{}) (*Tag, error) {
	if len(name) == 0 {
		return nil, errors.New("variable name may not be empty")
	}
	tag, scope := env.ScopeTree.Current().ResolveTag(name)
	if tag == nil {
		return env.Define(name, v)
	}
	tracer().Debugf("assign %s in %v", name, scope)
	return tag.SetValue(v), nil
}

// Lookup finds the variable for a name, starting at the current scope.
// Variables without a value count as undefined.
func (env *Environment) Lookup(name string) (*Tag, error) {
	tag, _ := env.ScopeTree.Current().ResolveTag(name)
	if tag == nil || tag.Typ == Undefined {
		return nil, &UndefinedError{Name: name}
	}
	return tag, nil
}

// PushScope opens a new scope on top of the current one.
func (env *Environment) PushScope(name string) *Scope {
	return env.ScopeTree.PushNewScope(name)
}

// PopScope drops the current scope together with its variables. The global
// scope cannot be dropped.
func (env *Environment) PopScope() error {
	if env.ScopeTree.PopScope() == nil {
		return errors.New("cannot drop global scope")
	}
	return nil
}

// Visible returns the variables visible from the current scope, inner scopes
// shadowing outer ones, sorted by name.
func (env *Environment) Visible() []*Tag {
	seen := make(map[string]bool)
	var tags []*Tag
	for s := env.ScopeTree.Current(); s != nil; s = s.Parent {
		s.Tags().Each(func(name string, tag *Tag) {
			if !seen[name] {
				seen[name] = true
				tags = append(tags, tag)
			}
		})
	}
	slices.SortFunc(tags, func(a, b *Tag) int {
		return strings.Compare(a.name, b.name)
	})
	return tags
}
