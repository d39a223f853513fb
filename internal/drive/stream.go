package drive

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/banshee-data/purepursuit/internal/monitoring"
	"github.com/banshee-data/purepursuit/internal/simulation"
	"github.com/banshee-data/purepursuit/internal/timeutil"
	"github.com/banshee-data/purepursuit/internal/units"
	"github.com/banshee-data/purepursuit/internal/vehicle"
)

// Commands returns the wheel commands recorded in a run, in step order.
func Commands(data *simulation.Data) []vehicle.Command {
	out := make([]vehicle.Command, len(data.States))
	for i, s := range data.States {
		out[i] = s.Command
	}
	return out
}

// Stream sends each command to sink, one per tick of a dt-second ticker
// from clock. The first command goes out immediately. Whether the stream
// ends normally, fails or is cancelled, a final stop command is sent.
func Stream(ctx context.Context, clock timeutil.Clock, sink Sink, commands []vehicle.Command, dt float64) error {
	if dt <= 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return fmt.Errorf("drive: invalid dt %v", dt)
	}
	if len(commands) == 0 {
		return nil
	}

	ticker := clock.NewTicker(time.Duration(dt * float64(time.Second)))
	defer ticker.Stop()

	var maxRPM float64
	err := func() error {
		for i, cmd := range commands {
			if i > 0 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-ticker.C():
				}
			}
			if err := sink.Send(cmd); err != nil {
				return fmt.Errorf("command %d: %w", i, err)
			}
			maxRPM = math.Max(maxRPM, math.Max(
				math.Abs(units.RPM(cmd.LeftWheelAngularVelocity)),
				math.Abs(units.RPM(cmd.RightWheelAngularVelocity)),
			))
		}
		return nil
	}()

	if stopErr := sink.Send(vehicle.Command{}); stopErr != nil {
		err = errors.Join(err, fmt.Errorf("stop: %w", stopErr))
	}
	if err != nil {
		monitoring.Logf("drive: stream stopped: %v", err)
		return err
	}
	monitoring.Logf("drive: sent %d commands (max wheel speed %.1f rpm)", len(commands), maxRPM)
	return nil
}
