package table

import (
	"unionbind/internal/analyze"
	"unionbind/internal/common"
	"unionbind/internal/diagnostic"
	"unionbind/internal/match"
)

// Merge appends the queries and case groups of f to the unions and variants
// of pkg. Entries naming an unknown union or variant are reported and
// skipped; the rest is merged.
func Merge(pkg *analyze.Package, f *File) diagnostic.Diagnostics {
	var diags diagnostic.Diagnostics

	if f == nil {
		return diags
	}

	unionNames := make([]string, len(pkg.Unions))
	for i, u := range pkg.Unions {
		unionNames[i] = u.Name
	}

	for _, ut := range f.Unions {
		u, ok := common.FirstMatch(pkg.Unions, func(u *analyze.Union) bool {
			return u.Name == ut.Name.Value
		})
		if !ok {
			diags.Add(diagnostic.Errorf(diagnostic.CodeUnknownUnion, f.Position(ut.Name),
				"binding table names union %q, which package %s does not declare", ut.Name.Value, pkg.Name).
				WithSuggestions(match.Suggest(ut.Name.Value, unionNames)...), "", "")

			continue
		}

		for _, q := range ut.Queries {
			u.Queries = append(u.Queries, analyze.Directive{
				Kind: analyze.KindQuery,
				Text: q.Value,
				Pos:  f.Position(q),
			})
		}

		for _, ct := range ut.Cases {
			v := u.Variant(ct.Variant.Value)
			if v == nil {
				diags.Add(diagnostic.Errorf(diagnostic.CodeUnknownVariant, f.Position(ct.Variant),
					"binding table names variant %q, which does not implement %s", ct.Variant.Value, u.Name).
					WithSuggestions(match.Suggest(ct.Variant.Value, u.VariantNames())...), u.Name, "")

				continue
			}

			for _, b := range ct.Bind {
				v.Groups = append(v.Groups, analyze.Directive{
					Kind: analyze.KindCase,
					Text: b.Value,
					Pos:  f.Position(b),
				})
			}
		}
	}

	return diags
}
