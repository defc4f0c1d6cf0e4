// Package camera implements the focus controller that eases the live
// camera toward a selected waypoint.
package camera

import "globed/pkg/geom"

// Focus controller states, reported via State().
const (
	StateIdle       = "idle"
	StateConverging = "converging"
)

// Pose is the live camera state: where the camera sits and where it
// looks. The look-at point doubles as the orbit widget's target.
type Pose struct {
	Position geom.Vec3 `json:"position"`
	LookAt   geom.Vec3 `json:"lookAt"`
}

// FocusTarget is the destination pose the camera is easing toward.
// A nil target means no camera animation is active.
type FocusTarget struct {
	CameraPosition geom.Vec3 `json:"cameraPosition"`
	LookAt         geom.Vec3 `json:"lookAt"`
}

// Params tunes the focus behavior.
type Params struct {
	// Distance is how far from the sphere center the camera settles.
	Distance float64
	// InwardFactor pulls the look-at point toward the center (< 1), so
	// a settled camera never clips into the surface point itself.
	InwardFactor float64
	// DampingBase in (0, 1) sets the convergence speed; smaller is
	// faster. The per-frame lerp factor is 1 - DampingBase^dt.
	DampingBase float64
	// Epsilon is the settle distance for both position and look-at.
	Epsilon float64
}

// FocusController is a two-state machine: Idle, where the live pose is
// only moved by external manual control, and Converging, where each
// frame pulls the pose toward the focus target. There is no external
// cancellation; a new selection overwrites the target and convergence
// continues from the current live values without discontinuity.
type FocusController struct {
	prm    Params
	pose   Pose
	target *FocusTarget
}

// New creates a controller starting Idle at the given pose.
func New(prm Params, initial Pose) *FocusController {
	return &FocusController{prm: prm, pose: initial}
}

// Focus computes the target for a selected surface position and enters
// Converging. Called again before convergence it simply replaces the
// destination.
func (c *FocusController) Focus(position geom.Vec3) {
	dir := position.Normalize()
	c.target = &FocusTarget{
		CameraPosition: dir.Scale(c.prm.Distance),
		LookAt:         position.Scale(c.prm.InwardFactor),
	}
}

// Update advances the pose one frame. It returns the new pose, whether
// the controller was converging during this frame, and whether it
// settled (reached epsilon and cleared the target) on this frame.
// While Idle it returns the pose untouched.
func (c *FocusController) Update(dt float64) (pose Pose, converging, settled bool) {
	if c.target == nil {
		return c.pose, false, false
	}

	f := geom.DampFactor(c.prm.DampingBase, dt)
	c.pose.Position = geom.Lerp(c.pose.Position, c.target.CameraPosition, f)
	c.pose.LookAt = geom.Lerp(c.pose.LookAt, c.target.LookAt, f)

	if c.pose.Position.DistanceTo(c.target.CameraPosition) < c.prm.Epsilon &&
		c.pose.LookAt.DistanceTo(c.target.LookAt) < c.prm.Epsilon {
		// Convergence reached: clearing the target is the internal
		// completion signal, returning the machine to Idle.
		c.target = nil
		return c.pose, true, true
	}
	return c.pose, true, false
}

// Pose returns the current live pose.
func (c *FocusController) Pose() Pose {
	return c.pose
}

// SetPose overwrites the live pose. This is the entry point for the
// external manual orbit control; calling it while Converging is not an
// error, the damping law keeps reducing the remaining distance on the
// following frames.
func (c *FocusController) SetPose(p Pose) {
	c.pose = p
}

// Target returns a copy of the active focus target, or nil while Idle.
func (c *FocusController) Target() *FocusTarget {
	if c.target == nil {
		return nil
	}
	t := *c.target
	return &t
}

// State reports the current machine state.
func (c *FocusController) State() string {
	if c.target == nil {
		return StateIdle
	}
	return StateConverging
}
