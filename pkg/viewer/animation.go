package viewer

import "github.com/taigrr/vitrine/pkg/models"

// AnimationDriver owns the mixer of the current model. It has no mixer
// when the model carries no clips.
type AnimationDriver struct {
	mixer *models.Mixer
}

// Bind discards the previous mixer and, if clips is not empty, starts
// every clip on a new mixer bound to root.
func (d *AnimationDriver) Bind(root *models.Node, clips []*models.Clip) {
	d.mixer = nil
	if len(clips) == 0 {
		return
	}
	d.mixer = models.NewMixer(root)
	for _, clip := range clips {
		d.mixer.ClipAction(clip).Play()
	}
}

// Advance moves playback forward by dt seconds.
func (d *AnimationDriver) Advance(dt float64) {
	if d.mixer != nil {
		d.mixer.Update(dt)
	}
}

// Mixer returns the active mixer, or nil.
func (d *AnimationDriver) Mixer() *models.Mixer {
	return d.mixer
}
