package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/kinematic/common"
	"github.com/milk9111/kinematic/input"
	"github.com/milk9111/kinematic/prefabs"
	"github.com/sirupsen/logrus"
)

// devices feeds keyboard and the first gamepad into an input.Buffer once per
// update.
type devices struct {
	buf *input.Buffer

	left, right, up, down []ebiten.Key
	jump, dash, grab      []ebiten.Key
	reset                 []ebiten.Key

	pad     prefabs.GamepadLayout
	gamepad []ebiten.GamepadID
}

func newDevices(buf *input.Buffer, keys prefabs.KeyBindings, pad prefabs.GamepadLayout, log logrus.FieldLogger) *devices {
	parse := func(action string, names []string) []ebiten.Key {
		out := make([]ebiten.Key, 0, len(names))
		for _, n := range names {
			var k ebiten.Key
			if err := k.UnmarshalText([]byte(n)); err != nil {
				log.WithFields(logrus.Fields{"action": action, "key": n}).Warn("playground: unknown key")
				continue
			}
			out = append(out, k)
		}
		return out
	}
	return &devices{
		buf:   buf,
		left:  parse("left", keys.Left),
		right: parse("right", keys.Right),
		up:    parse("up", keys.Up),
		down:  parse("down", keys.Down),
		jump:  parse("jump", keys.Jump),
		dash:  parse("dash", keys.Dash),
		grab:  parse("grab", keys.Grab),
		reset: parse("reset", keys.Reset),
		pad:   pad,
	}
}

func anyPressed(keys []ebiten.Key) bool {
	for _, k := range keys {
		if ebiten.IsKeyPressed(k) {
			return true
		}
	}
	return false
}

func axis(neg, pos bool) float64 {
	var v float64
	if neg {
		v--
	}
	if pos {
		v++
	}
	return v
}

// update polls the devices into the buffer and reports whether reset was
// pressed this frame.
func (d *devices) update() bool {
	h := axis(anyPressed(d.left), anyPressed(d.right))
	v := axis(anyPressed(d.down), anyPressed(d.up))
	jump, dash, grab := anyPressed(d.jump), anyPressed(d.dash), anyPressed(d.grab)

	d.gamepad = ebiten.AppendGamepadIDs(d.gamepad[:0])
	if len(d.gamepad) > 0 {
		id := d.gamepad[0]
		if ebiten.IsStandardGamepadLayoutAvailable(id) {
			sx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
			sy := -ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
			if abs(sx) > d.pad.Deadzone {
				h = common.Clamp(h+sx, -1, 1)
			}
			if abs(sy) > d.pad.Deadzone {
				v = common.Clamp(v+sy, -1, 1)
			}
			jump = jump || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButton(d.pad.Jump))
			dash = dash || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButton(d.pad.Dash))
			grab = grab || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButton(d.pad.Grab))
		}
	}

	d.buf.SetAxes(h, v)
	d.buf.Set(input.ButtonJump, jump)
	d.buf.Set(input.ButtonDash, dash)
	d.buf.Set(input.ButtonGrab, grab)

	for _, k := range d.reset {
		if inpututil.IsKeyJustPressed(k) {
			return true
		}
	}
	return false
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
