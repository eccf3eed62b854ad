package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/blockfall/session"
)

// Auto-repeat timing in ticks for held movement keys.
const (
	repeatDelay = 12
	repeatRate  = 3
)

// keyboard decodes Ebiten key state into session commands.
type keyboard struct {
	// captured reports whether another consumer (the debug overlay) owns the keyboard.
	captured func() bool

	bindings []binding
}

type binding struct {
	keys    []ebiten.Key
	cmd     session.Command
	repeats bool
}

func newKeyboard() *keyboard {
	return &keyboard{
		bindings: []binding{
			{keys: []ebiten.Key{ebiten.KeyArrowLeft, ebiten.KeyA}, cmd: session.MoveLeft, repeats: true},
			{keys: []ebiten.Key{ebiten.KeyArrowRight, ebiten.KeyD}, cmd: session.MoveRight, repeats: true},
			{keys: []ebiten.Key{ebiten.KeyArrowDown, ebiten.KeyS}, cmd: session.MoveDown, repeats: true},
			{keys: []ebiten.Key{ebiten.KeyArrowUp, ebiten.KeySpace, ebiten.KeyW}, cmd: session.Rotate},
			{keys: []ebiten.Key{ebiten.KeyEnter}, cmd: session.HardDrop},
			{keys: []ebiten.Key{ebiten.KeyEscape, ebiten.KeyQ}, cmd: session.Quit},
		},
	}
}

// Poll implements session.InputSource.
func (k *keyboard) Poll() []session.Command {
	if k.captured != nil && k.captured() {
		return nil
	}

	var cmds []session.Command
	for _, b := range k.bindings {
		for _, key := range b.keys {
			if fired(key, b.repeats) {
				cmds = append(cmds, b.cmd)
				break
			}
		}
	}
	return cmds
}

func fired(key ebiten.Key, repeats bool) bool {
	d := inpututil.KeyPressDuration(key)
	if d == 1 {
		return true
	}
	return repeats && d >= repeatDelay && (d-repeatDelay)%repeatRate == 0
}

func (k *keyboard) quitPressed() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ)
}

func (k *keyboard) restartPressed() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeyR)
}
