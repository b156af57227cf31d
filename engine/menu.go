package engine

import (
	"fmt"
	"time"

	"go-clockwork/debug"
)

// LongPress is how long the mode button must be held to switch menu levels
const LongPress = 500 * time.Millisecond

// menuNode is one entry in the menu arena. Nodes reference each other by
// index so the tree carries no pointers.
type menuNode struct {
	title    string
	param    ParamRef
	parent   int // -1 for top-level nodes
	children []int
}

// Menu is the two-level navigation and edit state machine. It only ever
// writes into the shared State through ParamRef commits; it holds no
// signal-generation logic. Press detection is a polled timestamp
// comparison so nothing blocks the tick.
type Menu struct {
	nodes   []menuNode
	current int

	editing   bool
	editValue int

	pressed   bool
	pressedAt time.Time
	longFired bool

	onCommit func() // notified when an edit lands in the state
}

// NewMenu builds the menu arena: a BPM item with the reset flag beneath
// it, one subtree per channel, and the CV routing subtree.
func NewMenu(onCommit func()) *Menu {
	m := &Menu{onCommit: onCommit}

	bpm := m.addNode("BPM", ParamRef{Kind: ParamBPM}, -1)
	m.addNode("Reset", ParamRef{Kind: ParamResetOnStart}, bpm)

	for ch := 0; ch < NumChannels; ch++ {
		prefix := fmt.Sprintf("CV%d | ", ch+1)
		top := m.addNode(prefix+"Clk Mod", ParamRef{Kind: ParamClockMod, Channel: ch}, -1)
		m.addNode(prefix+"Wave", ParamRef{Kind: ParamWave, Channel: ch}, top)
		m.addNode(prefix+"Width", ParamRef{Kind: ParamWidth, Channel: ch}, top)
		m.addNode(prefix+"Ampl.", ParamRef{Kind: ParamAmplitude, Channel: ch}, top)
		m.addNode(prefix+"Skip%", ParamRef{Kind: ParamSkip, Channel: ch}, top)
		m.addNode(prefix+"ESteps", ParamRef{Kind: ParamESteps, Channel: ch}, top)
		m.addNode(prefix+"ETrigs", ParamRef{Kind: ParamETrigs, Channel: ch}, top)
		m.addNode(prefix+"ERot", ParamRef{Kind: ParamERot, Channel: ch}, top)
		m.addNode(prefix+"Quant.", ParamRef{Kind: ParamQuant, Channel: ch}, top)
	}

	ain := m.addNode("AIN | Gain%", ParamRef{Kind: ParamGain}, -1)
	m.addNode("Dest.", ParamRef{Kind: ParamRouteDest}, ain)
	m.addNode("Prop", ParamRef{Kind: ParamRouteProp}, ain)

	return m
}

func (m *Menu) addNode(title string, param ParamRef, parent int) int {
	idx := len(m.nodes)
	m.nodes = append(m.nodes, menuNode{title: title, param: param, parent: parent})
	if parent >= 0 {
		m.nodes[parent].children = append(m.nodes[parent].children, idx)
	}
	return idx
}

// siblings lists the node indices at the current navigation level
func (m *Menu) siblings() []int {
	parent := m.nodes[m.current].parent
	if parent < 0 {
		var top []int
		for i, n := range m.nodes {
			if n.parent < 0 {
				top = append(top, i)
			}
		}
		return top
	}
	return m.nodes[parent].children
}

// Press records the mode button going down
func (m *Menu) Press(at time.Time) {
	m.pressed = true
	m.pressedAt = at
	m.longFired = false
}

// Release records the mode button coming up. A release before the
// long-press threshold is a short press: it toggles edit mode, committing
// the pending value when leaving it.
func (m *Menu) Release(at time.Time, s *State) {
	if !m.pressed {
		return
	}
	m.pressed = false
	if m.longFired {
		return
	}
	if at.Sub(m.pressedAt) >= LongPress {
		m.longPress()
		return
	}
	m.shortPress(s)
}

// Poll runs once per tick: it fires the long-press action as soon as the
// button has been held past the threshold, without waiting for release.
func (m *Menu) Poll(now time.Time, s *State) {
	if m.pressed && !m.longFired && now.Sub(m.pressedAt) >= LongPress {
		m.longFired = true
		m.longPress()
	}
}

func (m *Menu) shortPress(s *State) {
	node := &m.nodes[m.current]
	if !m.editing {
		m.editing = true
		m.editValue = node.param.Index(s)
		return
	}
	// Commit: the domain may have shrunk since editing began, SetIndex
	// clamps for us.
	node.param.SetIndex(s, m.editValue)
	m.editing = false
	debug.Log("menu", "%s = %s", node.title, node.param.Label(s, node.param.Index(s)))
	if m.onCommit != nil {
		m.onCommit()
	}
}

// longPress toggles between the top level and the current node's submenu,
// abandoning any edit in progress.
func (m *Menu) longPress() {
	m.editing = false
	node := &m.nodes[m.current]
	if node.parent < 0 {
		if len(node.children) > 0 {
			m.current = node.children[0]
		}
		return
	}
	m.current = node.parent
}

// Encoder feeds a rotary delta: it scrolls the visible item when
// navigating, or steps the pending value when editing.
func (m *Menu) Encoder(delta int, s *State) {
	if m.editing {
		n := m.nodes[m.current].param.OptionCount(s)
		m.editValue += delta
		if m.editValue < 0 {
			m.editValue = 0
		} else if m.editValue >= n {
			m.editValue = n - 1
		}
		return
	}
	sib := m.siblings()
	pos := 0
	for i, idx := range sib {
		if idx == m.current {
			pos = i
			break
		}
	}
	pos += delta
	if pos < 0 {
		pos = 0
	} else if pos >= len(sib) {
		pos = len(sib) - 1
	}
	m.current = sib[pos]
}

// MenuView is the display collaborator's snapshot of the menu
type MenuView struct {
	Title    string
	Value    string
	Editing  bool
	Submenu  bool // true when navigating below the top level
	Position int  // index within the current sibling list
	Count    int
}

// View renders the current navigation/edit state for the display
func (m *Menu) View(s *State) MenuView {
	node := &m.nodes[m.current]
	v := MenuView{
		Title:   node.title,
		Editing: m.editing,
		Submenu: node.parent >= 0,
	}
	if m.editing {
		v.Value = node.param.Label(s, m.editValue)
	} else {
		v.Value = node.param.Label(s, node.param.Index(s))
	}
	sib := m.siblings()
	v.Count = len(sib)
	for i, idx := range sib {
		if idx == m.current {
			v.Position = i
			break
		}
	}
	return v
}
