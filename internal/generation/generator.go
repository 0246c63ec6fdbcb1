package generation

import (
	"fmt"
	"io"
	"strings"

	"github.com/dave/jennifer/jen"

	"godispatch/internal/inspect"
)

const (
	metadataPath = "godispatch/pkg/metadata"
	// Header marks files written by dispatchgen.
	Header = "Code generated by dispatchgen. DO NOT EDIT."
)

type Generator struct {
	Package *inspect.Package
}

func NewGenerator(pkg *inspect.Package) Generator {
	return Generator{Package: pkg}
}

// Render writes the generated Go source to w.
func (generator *Generator) Render(w io.Writer) error {
	return generator.file().Render(w)
}

// Generate writes the generated Go source to path.
func (generator *Generator) Generate(path string) error {
	if err := generator.file().Save(path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func (generator *Generator) file() *jen.File {
	file := jen.NewFilePathName(generator.Package.Path, generator.Package.Name)
	file.HeaderComment(Header)
	file.ImportName(metadataPath, "metadata")

	file.Comment("RegisterDispatch registers the constructors and methods of this package's dispatchable types with reg.")
	file.Func().Id("RegisterDispatch").Params(jen.Id("reg").Op("*").Qual(metadataPath, "Registry")).Error().
		BlockFunc(func(g *jen.Group) {
			for _, t := range generator.Package.Types {
				g.If(
					jen.List(jen.Id("_"), jen.Err()).Op(":=").Id("reg").Dot("Register").Custom(multiline, generator.registerArgs(t)...),
					jen.Err().Op("!=").Nil(),
				).Block(jen.Return(jen.Err()))
			}
			g.Return(jen.Nil())
		})
	return file
}

var multiline = jen.Options{Open: "(", Close: ")", Separator: ",", Multi: true}

func (generator *Generator) registerArgs(t *inspect.Type) []jen.Code {
	args := []jen.Code{
		jen.Qual("reflect", "TypeFor").Index(jen.Id(t.GoName)).Call(),
	}
	if t.Name != "" {
		args = append(args, jen.Qual(metadataPath, "WithName").Call(jen.Lit(t.Name)))
	}
	args = append(args, jen.Qual(metadataPath, "WithoutExportedMethods").Call())
	for _, constructor := range t.Constructors {
		args = append(args, jen.Qual(metadataPath, "WithConstructor").Call(jen.Id(constructor)))
	}
	for _, method := range t.Methods {
		args = append(args, jen.Qual(metadataPath, "WithMethod").Call(jen.Lit(method.Group), methodExpression(t, method)))
	}
	return args
}

func methodExpression(t *inspect.Type, method *inspect.Method) *jen.Statement {
	if method.Pointer {
		return jen.Parens(jen.Op("*").Id(t.GoName)).Dot(method.GoName)
	}
	return jen.Id(t.GoName).Dot(method.GoName)
}

// IsGenerated reports whether src carries the dispatchgen header ahead of
// its package clause.
func IsGenerated(src []byte) bool {
	for _, line := range strings.Split(string(src), "\n") {
		line = strings.TrimSpace(line)
		if line == "// "+Header {
			return true
		}
		if strings.HasPrefix(line, "package ") {
			return false
		}
	}
	return false
}
