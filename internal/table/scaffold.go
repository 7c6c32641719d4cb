package table

import "unionbind/internal/analyze"

// Scaffold returns a table naming every union of pkg and each of its
// variants with no case groups, ready to be filled in.
func Scaffold(pkg *analyze.Package) *File {
	f := &File{Version: "1"}

	for _, u := range pkg.Unions {
		ut := UnionTable{Name: Text{Value: u.Name}}

		for _, name := range u.VariantNames() {
			ut.Cases = append(ut.Cases, CaseTable{Variant: Text{Value: name}, Bind: Texts{}})
		}

		f.Unions = append(f.Unions, ut)
	}

	return f
}
