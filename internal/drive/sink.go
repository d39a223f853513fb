package drive

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"go.bug.st/serial"

	"github.com/banshee-data/purepursuit/internal/vehicle"
)

// ErrWriteFailed wraps every failure to deliver a command to a sink.
var ErrWriteFailed = errors.New("drive: write failed")

// Sink receives wheel commands.
type Sink interface {
	Send(cmd vehicle.Command) error
	Close() error
}

// FormatCommand renders a command as the line protocol understood by the
// motor controller: left and right wheel angular velocities in rad/s.
func FormatCommand(cmd vehicle.Command) string {
	return fmt.Sprintf("L=%.4f,R=%.4f\n", cmd.LeftWheelAngularVelocity, cmd.RightWheelAngularVelocity)
}

// WriterSink writes formatted commands to an io.Writer. If the writer is
// also an io.Closer it is closed with the sink.
type WriterSink struct {
	mu   sync.Mutex
	w    io.Writer
	sent int
}

// NewWriterSink creates a sink writing to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) Send(cmd vehicle.Command) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := io.WriteString(s.w, FormatCommand(cmd)); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	s.sent++
	return nil
}

// Sent returns the number of commands written.
func (s *WriterSink) Sent() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sent
}

func (s *WriterSink) Close() error {
	if c, ok := s.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// PortOpener opens a serial port. Tests replace it to avoid real hardware.
type PortOpener func(path string, mode *serial.Mode) (io.WriteCloser, error)

func openSerialPort(path string, mode *serial.Mode) (io.WriteCloser, error) {
	return serial.Open(path, mode)
}

// OpenSerial opens the serial port at path and returns a sink writing to it.
func OpenSerial(path string, opts PortOptions) (*WriterSink, error) {
	return OpenSerialWith(openSerialPort, path, opts)
}

// OpenSerialWith is OpenSerial with an explicit port opener.
func OpenSerialWith(open PortOpener, path string, opts PortOptions) (*WriterSink, error) {
	mode, err := opts.SerialMode()
	if err != nil {
		return nil, err
	}
	port, err := open(path, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", path, err)
	}
	return NewWriterSink(port), nil
}
