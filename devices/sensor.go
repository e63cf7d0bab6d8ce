package devices

import (
	"fmt"
	"sort"

	"github.com/VictoriaMetrics/metrics"
	"github.com/shirou/gopsutil/v3/host"
)

// Sensor feeds the reading from one of the host's thermal sensors.
type Sensor struct {
	key        string
	fahrenheit bool
	reading    *Reading
	read       func() ([]host.TemperatureStat, error)
}

// LocalSensor tracks the sensor named key. If key is empty, the first sensor
// in name order is used.
func LocalSensor(key string, fahrenheit bool, r *Reading) *Sensor {
	return &Sensor{
		key:        key,
		fahrenheit: fahrenheit,
		reading:    r,
		read:       host.SensorsTemperatures,
	}
}

func (s *Sensor) Update() error {
	temps, err := s.read()
	// gopsutil returns partial results alongside warnings
	if len(temps) == 0 {
		if err != nil {
			return fmt.Errorf("reading thermal sensors: %w", err)
		}
		return fmt.Errorf("no thermal sensors found")
	}
	sort.Slice(temps, func(i, j int) bool { return temps[i].SensorKey < temps[j].SensorKey })
	for _, t := range temps {
		if s.key == "" || t.SensorKey == s.key {
			s.key = t.SensorKey
			v := t.Temperature
			if s.fahrenheit {
				v = CelsiusToFahrenheit(v)
			}
			s.reading.Set(v)
			return nil
		}
	}
	return fmt.Errorf("thermal sensor %q not found", s.key)
}

// Key is the sensor being tracked; it is resolved on the first Update when
// no key was configured.
func (s *Sensor) Key() string {
	return s.key
}

func (s *Sensor) EnableMetrics(set *metrics.Set) {
	enableReadingMetrics(set, "sensor", s.reading)
}

// SensorNames lists the thermal sensors on this machine.
func SensorNames() []string {
	temps, _ := host.SensorsTemperatures()
	names := make([]string, 0, len(temps))
	for _, t := range temps {
		names = append(names, t.SensorKey)
	}
	sort.Strings(names)
	return names
}

func CelsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}
