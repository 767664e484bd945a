package channel

import (
	"path"
	"reflect"
	"strings"
)

// Owner identifies a source-code owner of log calls: a named type, or a
// package when Type is empty. Owners are comparable and used as binding keys.
type Owner struct {
	// Pkg is the import path of the package.
	Pkg string
	// Type is the type name without type parameters. Empty for packages.
	Type string
}

// TypeOf returns the owner for type T. Pointer types resolve to their element
// type, and type arguments are dropped, so *Box[int] and Box[string] share one
// owner.
func TypeOf[T any]() Owner {
	return ownerOfType(reflect.TypeFor[T]())
}

// OwnerOf returns the owner for the dynamic type of v.
func OwnerOf(v any) Owner {
	if v == nil {
		return Owner{}
	}

	return ownerOfType(reflect.TypeOf(v))
}

// Package returns the owner for the package with the given import path.
func Package(importPath string) Owner {
	return Owner{Pkg: importPath}
}

// ParseOwner parses "import/path.Type" into an [Owner]. A string whose last
// path element contains no dot is a package owner.
//
// Import paths whose last element contains a dot, such as "gopkg.in/yaml.v3"
// or "example.com", are ambiguous in that form. Separate the type with '#'
// instead: "gopkg.in/yaml.v3#Node" names a type, and "gopkg.in/yaml.v3#"
// names the package.
func ParseOwner(s string) Owner {
	if pkg, typ, ok := strings.Cut(s, "#"); ok {
		return Owner{Pkg: pkg, Type: typ}
	}

	slash := strings.LastIndexByte(s, '/')

	dot := strings.LastIndexByte(s[slash+1:], '.')
	if dot < 0 {
		return Owner{Pkg: s}
	}

	dot += slash + 1

	return Owner{Pkg: s[:dot], Type: s[dot+1:]}
}

// IsZero reports whether o is the zero owner.
func (o Owner) IsZero() bool {
	return o.Pkg == "" && o.Type == ""
}

// IsPackage reports whether o names a package rather than a type.
func (o Owner) IsPackage() bool {
	return o.Type == "" && o.Pkg != ""
}

// SimpleName returns the unqualified type name, or the last element of the
// import path for package owners.
func (o Owner) SimpleName() string {
	if o.Type != "" {
		return o.Type
	}

	return path.Base(o.Pkg)
}

// String returns "import/path.Type", or the import path for packages.
func (o Owner) String() string {
	if o.Type == "" {
		return o.Pkg
	}

	if o.Pkg == "" {
		return o.Type
	}

	return o.Pkg + "." + o.Type
}

func ownerOfType(t reflect.Type) Owner {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return Owner{Pkg: t.PkgPath(), Type: TrimTypeArgs(t.Name())}
}

// TrimTypeArgs removes a trailing type argument list from a type name.
func TrimTypeArgs(name string) string {
	if i := strings.IndexByte(name, '['); i >= 0 {
		return name[:i]
	}

	return name
}
