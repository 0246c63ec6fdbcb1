// Package inspect loads a Go package and collects, for every type named in
// dispatch.yaml, the constructors and methods dispatchgen should register.
package inspect

import (
	"context"
	"fmt"
	"go/token"
	"go/types"
	"os"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"

	"godispatch/internal/config"
	"godispatch/pkg/metadata"
)

// Package is the inspection result for one Go package.
type Package struct {
	Name  string
	Path  string
	Dir   string
	Types []*Type
}

// Type is a type to register, with the members found for it.
type Type struct {
	GoName string
	// Name overrides the registry name when non-empty.
	Name         string
	Constructors []string
	Methods      []*Method
}

// Method is one method of a Type. Overloads share a Group.
type Method struct {
	GoName string
	Group  string
	// Pointer is set for methods declared on *T.
	Pointer bool
}

func (m *Method) Exported() bool {
	return token.IsExported(m.GoName)
}

// Inspect loads the package in dir and resolves every type of cfg against it.
func Inspect(ctx context.Context, dir string, cfg *config.Config) (*Package, error) {
	pkg, err := load(ctx, dir)
	if err != nil {
		return nil, err
	}

	result := &Package{
		Name: pkg.Name,
		Path: pkg.PkgPath,
		Dir:  dir,
	}
	for _, spec := range cfg.Types {
		t, err := inspectType(pkg.Types, spec)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", pkg.PkgPath, err)
		}
		result.Types = append(result.Types, t)
	}
	return result, nil
}

func load(ctx context.Context, dir string) (*packages.Package, error) {
	cfg := &packages.Config{
		Context: ctx,
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedTypes |
			packages.NeedTypesInfo |
			packages.NeedSyntax |
			packages.NeedImports |
			packages.NeedDeps,
		Dir: dir,
		Env: append(os.Environ(), "GOWORK=off"),
	}
	pkgs, err := packages.Load(cfg, ".")
	if err != nil {
		return nil, fmt.Errorf("loading package in %s: %w", dir, err)
	}
	if len(pkgs) != 1 {
		return nil, fmt.Errorf("loading package in %s: found %d packages", dir, len(pkgs))
	}

	pkg := pkgs[0]
	if len(pkg.Errors) > 0 {
		errs := make([]string, len(pkg.Errors))
		for i, e := range pkg.Errors {
			errs[i] = e.Msg
		}
		return nil, fmt.Errorf("package errors:\n  %s", strings.Join(errs, "\n  "))
	}
	return pkg, nil
}

func inspectType(pkg *types.Package, spec config.TypeSpec) (*Type, error) {
	obj := pkg.Scope().Lookup(spec.Type)
	if obj == nil {
		return nil, fmt.Errorf("type %s not found", spec.Type)
	}
	typeName, ok := obj.(*types.TypeName)
	if !ok || typeName.IsAlias() {
		return nil, fmt.Errorf("%s is not a defined type", spec.Type)
	}
	named, ok := typeName.Type().(*types.Named)
	if !ok {
		return nil, fmt.Errorf("%s is not a named type", spec.Type)
	}
	if named.TypeParams().Len() > 0 {
		return nil, fmt.Errorf("%s is generic", spec.Type)
	}
	if types.IsInterface(named) {
		return nil, fmt.Errorf("%s is an interface", spec.Type)
	}

	t := &Type{GoName: spec.Type, Name: spec.Name}

	constructors, err := findConstructors(pkg, named, spec)
	if err != nil {
		return nil, err
	}
	t.Constructors = constructors
	t.Methods = findMethods(pkg, named, spec)
	return t, nil
}

func findConstructors(pkg *types.Package, named *types.Named, spec config.TypeSpec) ([]string, error) {
	if len(spec.Constructors) > 0 {
		for _, name := range spec.Constructors {
			fn, ok := pkg.Scope().Lookup(name).(*types.Func)
			if !ok {
				return nil, fmt.Errorf("%s: constructor %s is not a function", spec.Type, name)
			}
			if !constructs(fn, named) {
				return nil, fmt.Errorf("%s: %s does not return %s or *%s", spec.Type, name, spec.Type, spec.Type)
			}
		}
		return spec.Constructors, nil
	}

	var constructors []string
	for _, name := range pkg.Scope().Names() {
		switch metadata.OverloadName(name) {
		case "New" + spec.Type, "new" + spec.Type:
		default:
			continue
		}
		if fn, ok := pkg.Scope().Lookup(name).(*types.Func); ok && constructs(fn, named) {
			constructors = append(constructors, name)
		}
	}
	return constructors, nil
}

// constructs reports whether fn has a result list of T, *T, (T, error) or
// (*T, error).
func constructs(fn *types.Func, named *types.Named) bool {
	sig := fn.Type().(*types.Signature)
	if sig.TypeParams().Len() > 0 {
		return false
	}
	results := sig.Results()
	switch results.Len() {
	case 1:
	case 2:
		if !types.Identical(results.At(1).Type(), types.Universe.Lookup("error").Type()) {
			return false
		}
	default:
		return false
	}

	first := results.At(0).Type()
	if ptr, ok := first.(*types.Pointer); ok {
		first = ptr.Elem()
	}
	return types.Identical(first, named)
}

func findMethods(pkg *types.Package, named *types.Named, spec config.TypeSpec) []*Method {
	values := types.NewMethodSet(named)
	pointers := types.NewMethodSet(types.NewPointer(named))

	var methods []*Method
	for i := 0; i < pointers.Len(); i++ {
		fn := pointers.At(i).Obj().(*types.Func)
		if !fn.Exported() && fn.Pkg() != pkg {
			continue
		}
		group := metadata.OverloadName(fn.Name())
		if !spec.Includes(group, fn.Exported()) {
			continue
		}
		methods = append(methods, &Method{
			GoName:  fn.Name(),
			Group:   group,
			Pointer: values.Lookup(pkg, fn.Name()) == nil,
		})
	}
	sort.Slice(methods, func(i, j int) bool { return methods[i].GoName < methods[j].GoName })
	return methods
}
