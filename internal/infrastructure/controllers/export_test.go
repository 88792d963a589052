package controllers

// HistoryTable exports historyTable for testing.
var HistoryTable = historyTable //nolint:gochecknoglobals // test export

func plain(markdown string) (string, error) { return markdown, nil }

// WithPlainOutput disables terminal styling.
func (it *ScanController) WithPlainOutput() *ScanController {
	it.render = plain
	return it
}

// WithPlainOutput disables terminal styling.
func (it *RunController) WithPlainOutput() *RunController {
	it.render = plain
	return it
}

// WithPlainOutput disables terminal styling.
func (it *HistoryController) WithPlainOutput() *HistoryController {
	it.render = plain
	return it
}
