// Package top drives a spin-top rigid body through pick-up, set-down, spin
// and settle.
//
// A [Controller] owns one [Body] and runs four concerns side by side:
//
//   - placement: on a use action, set the top down on the surface under the
//     viewer's gaze, or toss it forward when nothing is in reach
//   - spin: hold the angular speed at the configured velocity every fixed step
//   - balance: move the center of mass from an unstable to a stable offset
//     along an easing curve over a random fall time
//   - push: nudge the spinning top with a ramped horizontal force at a
//     fixed interval
//
// # Scheduling
//
// The host calls [Controller.FixedUpdate] once per physics step and
// [Controller.Update] once per frame, both from one goroutine:
//
//	ctrl, err := top.New(top.DefaultConfig(), top.Deps{Body: body, Physics: world, Holder: hand})
//	closer := ctrl.Bind(input)
//	defer closer.Close()
//	for frame := range frames {
//	    for range frame.FixedSteps {
//	        ctrl.FixedUpdate(fixedDt)
//	        world.Step(fixedDt)
//	    }
//	    ctrl.Update(frame.Dt)
//	}
//
// Use events that arrive while a placement is running are ignored.
package top
