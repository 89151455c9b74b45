package irq

import (
	"os"
	"os/signal"
)

// BridgeOSSignal forwards a real OS signal into Raise(irq), so a backend
// that genuinely wants POSIX-signal-style delivery can drive the same
// dispatcher as a purely in-process Raise call. Must be called before Run.
//
// The forwarding goroutine exits when stop is closed; callers typically tie
// stop to Shutdown by closing it after Shutdown returns.
func (s *Subsystem) BridgeOSSignal(sig os.Signal, irq Number, stop <-chan struct{}) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sig)
	go func() {
		defer signal.Stop(ch)
		for {
			select {
			case <-ch:
				s.Raise(irq)
			case <-stop:
				return
			}
		}
	}()
}
