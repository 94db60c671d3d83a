package survey

// Navigator tracks the active section while a questionnaire is being edited.
// It never yields an out-of-range index: movement past either end is a no-op
// and an explicit jump to an invalid index resets to the first section.
type Navigator struct {
	sections []Section
	active   int
	onChange func(index int)
}

// NewNavigator starts at the first section. onChange, when non-nil, fires
// after every movement that lands on a valid index, including a reset.
func NewNavigator(q *Questionnaire, onChange func(index int)) *Navigator {
	return &Navigator{sections: q.Sections, onChange: onChange}
}

// Active returns the current section index.
func (n *Navigator) Active() int { return n.active }

// Len returns the number of sections.
func (n *Navigator) Len() int { return len(n.sections) }

// Section returns the section at the active index.
func (n *Navigator) Section() Section { return n.sections[n.active] }

// Next advances one section. At the last section it does nothing.
func (n *Navigator) Next() {
	if n.active >= len(n.sections)-1 {
		return
	}
	n.active++
	n.notify()
}

// Previous moves back one section. At the first section it does nothing.
func (n *Navigator) Previous() {
	if n.active <= 0 {
		return
	}
	n.active--
	n.notify()
}

// JumpTo moves directly to index. An out-of-bounds index resets to 0.
func (n *Navigator) JumpTo(index int) {
	if index < 0 || index >= len(n.sections) {
		n.active = 0
	} else {
		n.active = index
	}
	n.notify()
}

// Clamp re-validates the active index after the section list changed
// underneath the navigator, resetting to 0 when it no longer exists.
func (n *Navigator) Clamp() {
	if n.active < 0 || n.active >= len(n.sections) {
		n.active = 0
		n.notify()
	}
}

// Reload swaps the section list, then clamps.
func (n *Navigator) Reload(q *Questionnaire) {
	n.sections = q.Sections
	n.Clamp()
}

func (n *Navigator) notify() {
	if n.onChange != nil {
		n.onChange(n.active)
	}
}
