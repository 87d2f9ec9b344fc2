// File ui/powersave.go
package ui

import "github.com/hajimehoshi/ebiten/v2"

const (
	activeTPS = 60
	idleTPS   = 10
	idleAfter = 30 // quiet ticks before slowing down
)

// pacer runs the loop at activeTPS while anything on screen changes and
// drops to idleTPS once the board has been still for idleAfter ticks.
type pacer struct {
	fast  bool
	quiet int
	apply func(fast bool)
}

// ebiten starts at 60 TPS with vsync on.
func newPacer() *pacer {
	return &pacer{fast: true, apply: applyRate}
}

func applyRate(fast bool) {
	if fast {
		ebiten.SetVsyncEnabled(true)
		ebiten.SetTPS(activeTPS)
		return
	}
	ebiten.SetVsyncEnabled(false)
	ebiten.SetTPS(idleTPS)
}

func (p *pacer) tick(active bool) {
	if active {
		p.quiet = 0
		if !p.fast {
			p.fast = true
			p.apply(true)
		}
		return
	}
	if !p.fast {
		return
	}
	p.quiet++
	if p.quiet >= idleAfter {
		p.fast = false
		p.apply(false)
	}
}
