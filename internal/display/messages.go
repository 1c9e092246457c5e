package display

// FrameMsg carries a freshly rendered dashboard.
type FrameMsg struct {
	Frame string
}

// loopDoneMsg signals that the monitor loop has returned.
type loopDoneMsg struct {
	err error
}
