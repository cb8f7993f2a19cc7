package engine

// ============================================================================
// TEST FIXTURES
// ============================================================================

func rec(sev, dom, cat, env string) Record {
	return Record{Dimensions: map[string]string{
		FieldSeverity:    sev,
		FieldDomain:      dom,
		FieldCategory:    cat,
		FieldEnvironment: env,
	}}
}

// bugView returns ten rows: six Backend, four Frontend.
func bugView() RecordView {
	return NewSliceView([]Record{
		rec("Critical", "Backend", "Memory Leak", "Production"),
		rec("High", "Backend", "Concurrency", "Staging"),
		rec("High", "Frontend", "UI Glitch", "Development"),
		rec("Low", "Backend", "Memory Leak", "Development"),
		rec("Critical", "Frontend", "Concurrency", "Production"),
		rec("Medium", "Backend", "Memory Leak", "Staging"),
		rec("Low", "Frontend", "UI Glitch", "Development"),
		rec("High", "Backend", "Backend Logic", "Development"),
		rec("Medium", "Frontend", "Memory Leak", "Staging"),
		rec("Critical", "Backend", "Concurrency", "Development"),
	}, RequiredFields...)
}
