// Package core wires the interrupt subsystem, device registry, protocol
// dispatcher and IPv4 layer into a single Stack with a fixed
// init/run/shutdown ordering.
package core

import (
	"golang.org/x/sync/errgroup"

	"github.com/nstackio/netcore/common/errors"
	"github.com/nstackio/netcore/device"
	"github.com/nstackio/netcore/flowlog"
	"github.com/nstackio/netcore/ip"
	"github.com/nstackio/netcore/irq"
	"github.com/nstackio/netcore/proto"
)

// Stack is the facade over the four subsystems that make up the protocol
// core. Callers build device backends against Devices, attach IP
// interfaces through IP, then drive the whole thing through Init/Run/
// Shutdown.
type Stack struct {
	IRQ       *irq.Subsystem
	Devices   *device.Registry
	Protocols *proto.Dispatcher
	IP        *ip.Layer

	// FlowSink, if set before Init, receives every datagram the IP layer
	// accepts and is started/stopped alongside the rest of the Stack.
	FlowSink *flowlog.Sink
}

// New assembles an unstarted Stack. Devices and IP interfaces should be
// registered against it before Init.
func New() *Stack {
	irqSub := irq.New()
	devices := device.NewRegistry()
	return &Stack{
		IRQ:       irqSub,
		Devices:   devices,
		Protocols: proto.New(irqSub),
		IP:        ip.NewLayer(devices),
	}
}

// Init wires the IPv4 layer into the protocol dispatcher and the
// dispatcher's softirq into the interrupt subsystem. It must be called
// after every device and IP interface has been registered and before Run.
func (s *Stack) Init() error {
	if err := s.Protocols.RegisterProtocol(proto.TypeIPv4, s.IP.Input); err != nil {
		return errors.New("registering IPv4 protocol handler").Base(err).AtError()
	}
	if err := s.IRQ.RequestIRQ(irq.Softirq, s.Protocols.SoftirqHandler, 0, "softirq-net", nil); err != nil {
		return errors.New("wiring softirq to protocol dispatcher").Base(err).AtError()
	}
	if s.FlowSink != nil {
		s.IP.AcceptObserver = func(dev *device.Device, src, dst ip.Addr, protocol uint8, length int) {
			s.FlowSink.Record(dev.Name, src.String(), dst.String(), protocol, length)
		}
	}
	return nil
}

// Run starts the interrupt worker and opens every registered device. Devices
// are independent of one another, so their Open hooks run concurrently; if
// any device fails to open, already-opened devices are left up and the
// caller should call Shutdown to unwind.
func (s *Stack) Run() error {
	if err := s.IRQ.Run(); err != nil {
		return err
	}
	if s.FlowSink != nil {
		if err := s.FlowSink.Start(); err != nil {
			return errors.New("starting flow-log sink").Base(err).AtError()
		}
	}

	var g errgroup.Group
	for _, dev := range s.Devices.Devices() {
		dev := dev
		g.Go(func() error {
			if err := s.Devices.Open(dev); err != nil {
				return errors.New("opening device ", dev.Name).Base(err).AtError()
			}
			return nil
		})
	}
	return g.Wait()
}

// Shutdown closes every currently-up device, then joins the interrupt
// worker. It collects and returns every failure rather than stopping at
// the first one, so a single stuck device doesn't prevent the worker join.
func (s *Stack) Shutdown() error {
	var errs []error
	for _, dev := range s.Devices.Devices() {
		if dev.IsUp() {
			if err := s.Devices.Close(dev); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if err := s.IRQ.Shutdown(); err != nil {
		errs = append(errs, err)
	}
	if s.FlowSink != nil {
		if err := s.FlowSink.Stop(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Combine(errs...)
}
