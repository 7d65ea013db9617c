package app

// StoreChangedMsg reports that a persisted document was changed by another process.
type StoreChangedMsg struct {
	Key string
}

// actionDoneMsg carries the outcome of a mutation run off the update loop.
type actionDoneMsg struct {
	status string
	err    error
}

// OpenedMsg is sent after an item's usage was recorded. The launcher does not
// start processes; the caller decides what to do with the locator.
type OpenedMsg struct {
	ID      string
	Action  string
	Locator string
}
