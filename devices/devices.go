// Package devices holds the value sources that feed the dial. Each source
// is a Device updated on a ticker; Spawn mounts them and the returned
// unmount func stops every ticker.
package devices

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/xxxserxxx/dialtop"
)

type Device interface {
	Update() error
	EnableMetrics(*metrics.Set)
}

// Closer is implemented by devices that hold connections.
type Closer interface {
	Close()
}

// Startup is called after configuration has been parsed. It creates the
// Reading at its configured default and the device that feeds it:
//
//   - random: a new random integer in range on every update
//   - sensor: a host thermal sensor (c.Sensor, or the first one found)
//   - feed:   temperatures published over MQTT to c.Broker
//   - remote: the reading exported by another dialtop at c.Remote
//
// A device that cannot start is reported in the error slice and left out of
// the returned map; the Reading is always usable.
func Startup(ctx context.Context, c dialtop.Config) (*Reading, map[string]Device, []error) {
	reading := NewReading(c.Range(), c.Value)
	devs := make(map[string]Device)
	var errs []error
	fahrenheit := c.TempScale == dialtop.Fahrenheit
	switch c.Source {
	case "random":
		devs["random"] = NewRandom("random", reading, 0)
	case "sensor":
		s := LocalSensor(c.Sensor, fahrenheit, reading)
		if err := s.Update(); err != nil {
			errs = append(errs, err)
		} else {
			devs["sensor"] = s
		}
	case "feed":
		f := NewFeed(c.Broker, c.Station, fahrenheit, reading)
		cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := f.Connect(cctx)
		cancel()
		if err != nil {
			f.Close()
			errs = append(errs, err)
		} else {
			devs["feed"] = f
		}
	case "remote":
		rm, err := NewRemote(c.Remote, reading)
		if err == nil {
			err = rm.Update()
		}
		if err != nil {
			errs = append(errs, err)
		} else {
			devs["remote"] = rm
		}
	default:
		errs = append(errs, fmt.Errorf("unknown source %q", c.Source))
	}
	return reading, devs, errs
}

// Spawn mounts every device on a ticker at c.UpdateInterval. Calling the
// returned func unmounts them: tickers are stopped, connections closed, and
// it does not return until every update goroutine has exited.
func Spawn(devs map[string]Device, c dialtop.Config) (unmount func()) {
	stops := make([]func(), 0, len(devs))
	for name, dev := range devs {
		if c.ExportPort != "" && c.Metrics != nil {
			dev.EnableMetrics(c.Metrics)
		}
		stops = append(stops, Mount(name, dev, c.UpdateInterval))
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			for _, stop := range stops {
				stop()
			}
			for _, dev := range devs {
				if cl, ok := dev.(Closer); ok {
					cl.Close()
				}
			}
		})
	}
}

// SpawnRandomizer mounts the self-randomizing timer when c.Randomize is set:
// a second Random device writing into r every c.RandomInterval, on top of
// whatever source feeds r. The returned func unmounts it; it is a no-op when
// randomizing is off.
func SpawnRandomizer(r *Reading, c dialtop.Config) (unmount func()) {
	if !c.Randomize {
		return func() {}
	}
	rnd := NewRandom("self", r, 0)
	if c.ExportPort != "" && c.Metrics != nil {
		rnd.EnableMetrics(c.Metrics)
	}
	return Mount("self", rnd, c.RandomInterval)
}

// Mount updates d every interval until the returned func is called. An
// update error unmounts the device early; it is logged, not returned.
func Mount(name string, d Device, interval time.Duration) (unmount func()) {
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				if err := d.Update(); err != nil {
					slog.Error("device update failed, stopping", "device", name, "error", err)
					return
				}
			}
		}
	}()
	return func() {
		cancel()
		wg.Wait()
	}
}

// Sources lists the names accepted by the source setting.
func Sources() []string {
	return []string{"random", "sensor", "feed", "remote"}
}
