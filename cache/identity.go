package cache

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// IdentityResolver derives the identity part of a caller's dump name.
type IdentityResolver interface {
	Identity(caller any) string
}

// IdentityFunc adapts a function to IdentityResolver.
type IdentityFunc func(caller any) string

// Identity calls f.
func (f IdentityFunc) Identity(caller any) string { return f(caller) }

// AddressIdentity identifies a caller by the address of its type descriptor.
// It is stable for the lifetime of a binary and changes between builds, so
// dumps are effectively scoped to one compiled test binary.
func AddressIdentity() IdentityResolver {
	return IdentityFunc(func(caller any) string {
		t := reflect.TypeOf(caller)
		if t == nil {
			return "0"
		}
		return strconv.FormatUint(uint64(reflect.ValueOf(t).Pointer()), 10)
	})
}

// TypeIdentity identifies a caller by a name-based UUID of its fully
// qualified type name and Version. Changing Version invalidates every dump.
type TypeIdentity struct {
	Version string
}

// Identity returns the UUID of "<pkgpath>.<type>@<version>".
func (i TypeIdentity) Identity(caller any) string {
	name := qualifiedName(reflect.TypeOf(caller)) + "@" + i.Version
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}

// StaticIdentity returns id for every caller.
func StaticIdentity(id string) IdentityResolver {
	return IdentityFunc(func(any) string { return id })
}

// CallerName returns the name part of a caller's dump name. Callers with a
// Name method, such as testing.TB, use that name; others use their type name
// with pointers dereferenced. The result is safe to use in a file name.
func CallerName(caller any) string {
	if n, ok := caller.(interface{ Name() string }); ok {
		if name := n.Name(); name != "" {
			return sanitize(name)
		}
	}
	t := reflect.TypeOf(caller)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "nil"
	}
	if t.Name() != "" {
		return sanitize(t.Name())
	}
	return sanitize(t.String())
}

func qualifiedName(t reflect.Type) string {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "nil"
	}
	if t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

// sanitize keeps letters, digits, '.', '-' and '_' and maps everything
// else to '_'.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			return r
		}
		return '_'
	}, s)
}
