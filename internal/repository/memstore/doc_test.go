package memstore

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"
)

func TestExportedDeclarationsDocumented(t *testing.T) {
	f, err := parser.ParseFile(token.NewFileSet(), "memstore.go", nil, parser.ParseComments)
	if err != nil {
		t.Fatalf("ParseFile() unexpected error: %v", err)
	}

	for _, decl := range f.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Name.IsExported() && d.Doc == nil {
				t.Errorf("func %s has no doc comment", d.Name.Name)
			}
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if ok && ts.Name.IsExported() && d.Doc == nil && ts.Doc == nil {
					t.Errorf("type %s has no doc comment", ts.Name.Name)
				}
			}
		}
	}
}
