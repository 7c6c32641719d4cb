package driver

import (
	"github.com/sirupsen/logrus"

	"unionbind/internal/analyze"
	"unionbind/internal/bind"
	"unionbind/internal/diagnostic"
	"unionbind/internal/plan"
	"unionbind/internal/query"
)

// Result is the outcome of the pass over one union.
type Result struct {
	Union       *analyze.Union
	Cases       []*bind.Case
	Functions   []*plan.Function
	Diagnostics diagnostic.Diagnostics
}

// Driver runs the generation pass.
type Driver struct {
	log logrus.FieldLogger
}

// New creates a Driver logging to log, or to the standard logger when log
// is nil.
func New(log logrus.FieldLogger) *Driver {
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Driver{log: log}
}

// Package runs the pass over every union of pkg, in declaration order.
func (d *Driver) Package(pkg *analyze.Package) []*Result {
	results := make([]*Result, 0, len(pkg.Unions))

	for _, u := range pkg.Unions {
		results = append(results, d.Union(u))
	}

	return results
}

// Union runs the pass over u.
func (d *Driver) Union(u *analyze.Union) *Result {
	log := d.log.WithField("union", u.Name)
	r := &Result{Union: u}

	for _, v := range u.Variants {
		cases, err := bind.BuildCases(v, v.Groups)
		if err != nil {
			r.Diagnostics.Add(err, u.Name, "")
			log.WithField("variant", v.Name).WithError(err).Warn("dropping variant cases")

			continue
		}

		r.Cases = append(r.Cases, cases...)
	}

	if log.Logger.IsLevelEnabled(logrus.DebugLevel) {
		for _, c := range r.Cases {
			log.Debugf("case %s", c)
		}
	}

	for _, q := range u.Queries {
		name, fn, err := d.function(u, q, r.Cases)
		if err != nil {
			r.Diagnostics.Add(err, u.Name, name)
			log.WithField("query", q.Text).WithError(err).Warn("query rejected")

			continue
		}

		r.Functions = append(r.Functions, fn)
	}

	log.WithFields(logrus.Fields{
		"cases":     len(r.Cases),
		"functions": len(r.Functions),
		"rejected":  len(u.Queries) - len(r.Functions),
	}).Info("union processed")

	return r
}

// function parses, validates and generates one query. The name is empty
// when the query does not parse.
func (d *Driver) function(u *analyze.Union, q analyze.Directive, cases []*bind.Case) (string, *plan.Function, error) {
	s, err := query.Parse(q.Text, q.Pos)
	if err != nil {
		return "", nil, err
	}

	if err := query.Validate(s, u, cases); err != nil {
		return s.Name, nil, err
	}

	fn, err := plan.Generate(s, u, cases)

	return s.Name, fn, err
}
