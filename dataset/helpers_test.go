package dataset

import "github.com/spektr-org/bugdash/schema"

func schemaForTest() schema.Config { return schema.BugReports() }
