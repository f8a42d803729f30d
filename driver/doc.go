// SPDX-License-Identifier: EPL-2.0

// Package driver supplies the periodic real-time callbacks that run the
// render scheduler.
//
// A Driver calls a RenderFunc once per period with an interleaved float32
// buffer. Four kinds exist:
//   - ticker: wall-clock periods on a dedicated OS thread, output discarded
//   - manual: periods rendered synchronously by Manual.Step
//   - portaudio: the default PortAudio device (build tag portaudio)
//   - oto: the default device through oto (build tag oto)
//
// Device drivers need cgo and system audio libraries, so without their build
// tag they compile to stubs whose Start fails with ErrUnsupportedDriver:
//
//	drv, err := driver.New(cfg.Driver)
//	if err != nil {
//	    // ErrUnsupportedDriver for unknown names
//	}
package driver
