package repl

// historyLoadedMsg carries the stored history into the model
type historyLoadedMsg struct {
	lines []string
	err   error
}
