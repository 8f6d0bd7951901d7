package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/coinflip/internal/engine"
	"github.com/san-kum/coinflip/internal/stats"
)

type startedMsg struct{ requested int }

type progressMsg struct{ p stats.Progress }

type stoppedMsg struct{ res engine.Result }

// Bridge forwards engine events into a Bubble Tea program.
type Bridge struct {
	send func(tea.Msg)
}

func NewBridge(send func(tea.Msg)) *Bridge {
	return &Bridge{send: send}
}

func (b *Bridge) OnStart(requested int)       { b.send(startedMsg{requested: requested}) }
func (b *Bridge) OnProgress(p stats.Progress) { b.send(progressMsg{p: p}) }
func (b *Bridge) OnStop(res engine.Result)    { b.send(stoppedMsg{res: res}) }
