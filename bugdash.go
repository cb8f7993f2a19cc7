// Package bugdash explores a static dataset of software bug reports.
//
// Usage:
//
//	loader := dataset.NewLoader(afero.NewOsFs())
//	view, err := loader.Load("bugs.csv")
//	sel, _ := engine.DefaultSelection(view)
//	result, err := engine.Execute(view, sel, engine.WithTopCategories(10))
//
// The engine filters by severity and bug domain and returns render-ready
// aggregates: KPIs, ranked categories, the severity distribution and an
// environment × severity crosstab. The present package turns a result into
// charts, tables and text; web and cmd/bugdash are thin adapters on top.
// The engine never performs I/O.
package bugdash
