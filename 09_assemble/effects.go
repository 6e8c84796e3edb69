package assemble

import (
	"fmt"
	"math/rand"
)

// Effect is one of the fixed motion treatments applied when turning a still
// image into a clip. The set is closed; Pick chooses uniformly.
type Effect string

const (
	EffectNone         Effect = "none"
	EffectZoomVerySlow Effect = "zoom_very_slow"
	EffectZoomSlow     Effect = "zoom_slow"
	EffectZoomFast     Effect = "zoom_fast"
	EffectSine         Effect = "sine"
)

var allEffects = []Effect{
	EffectNone,
	EffectZoomVerySlow,
	EffectZoomSlow,
	EffectZoomFast,
	EffectSine,
}

// Pick selects a random effect. Callers pass a seeded source so runs can be
// reproduced.
func Pick(rng *rand.Rand) Effect {
	return allEffects[rng.Intn(len(allEffects))]
}

// zoomRate is the linear zoom gain per second for the zoom effects.
func (e Effect) zoomRate() float64 {
	switch e {
	case EffectZoomVerySlow:
		return 0.01
	case EffectZoomSlow:
		return 0.03
	case EffectZoomFast:
		return 0.06
	default:
		return 0
	}
}

// Filter returns the -vf chain that renders a still into a moving clip of the
// given duration. The image is upscaled before zoompan to hide subpixel
// jitter, then scaled back down to the output frame.
func (e Effect) Filter(durationSec float64, fps, width, height int) string {
	frames := int(durationSec * float64(fps))
	if frames < 1 {
		frames = 1
	}
	pre := fmt.Sprintf("scale=%d:%d", width*2, height*2)
	post := fmt.Sprintf("scale=%d:%d,setsar=1", width, height)

	var zoomExpr string
	switch e {
	case EffectSine:
		// Oscillating zoom around 1.3 with a slow sine period.
		zoomExpr = fmt.Sprintf("1.3+0.3*sin((on/%d)/3)", fps)
	case EffectZoomVerySlow, EffectZoomSlow, EffectZoomFast:
		rate := e.zoomRate()
		step := rate / float64(fps)
		limit := 1.0 + rate*durationSec
		zoomExpr = fmt.Sprintf("min(zoom+%.6f,%.4f)", step, limit)
	default:
		// Plain still: no zoompan, just conform to the output frame.
		return fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,setsar=1",
			width, height, width, height)
	}

	return fmt.Sprintf(
		"%s,zoompan=z='%s':x='iw/2-(iw/zoom/2)':y='ih/2-(ih/zoom/2)':d=%d:fps=%d,%s",
		pre, zoomExpr, frames, fps, post,
	)
}
