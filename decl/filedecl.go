package decl

import (
	"fmt"
	"strings"

	gfn "github.com/panyam/goutils/fn"
)

// FileDecl represents the top-level node of a parsed file.
type FileDecl struct {
	NodeInfo
	FullPath   string
	Attributes []*Attribute

	// Resolved values so lookups do not rescan the attribute list
	resolved   bool
	attributes map[string]*Attribute
}

func (f *FileDecl) String() string {
	return strings.Join(gfn.Map(f.Attributes, func(a *Attribute) string { return a.String() }), "\n")
}

func (f *FileDecl) PrettyPrint(cp CodePrinter) {
	for _, a := range f.Attributes {
		a.PrettyPrint(cp)
		cp.Println("")
	}
}

// Resolve indexes the attributes by name.  A name defined more than once is
// reported once per redefinition; the first definition wins.
func (f *FileDecl) Resolve() (errs []error) {
	if f.resolved {
		return nil
	}
	f.attributes = make(map[string]*Attribute, len(f.Attributes))
	for _, a := range f.Attributes {
		if prev, exists := f.attributes[a.Name.Name]; exists {
			errs = append(errs, fmt.Errorf("%s: attribute '%s' already defined at %s", a.Pos(), a.Name.Name, prev.Pos()))
			continue
		}
		f.attributes[a.Name.Name] = a
	}
	f.resolved = true
	return errs
}

// GetAttribute returns the attribute with the given name, or nil.
func (f *FileDecl) GetAttribute(name string) *Attribute {
	f.Resolve()
	return f.attributes[name]
}
