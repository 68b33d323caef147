// Package trackers implements Trackers, which track and save data in an
// experiment
package trackers

import (
	"encoding/gob"
	"fmt"
	"os"

	ts "github.com/gridq/gridq/timestep"
)

// Interface Tracker keeps track of experiment data and saves the data
// after the experiment has finished
type Tracker interface {
	Track(t ts.TimeStep)
	Save() error
}

// Data is implemented by Trackers whose tracked series can be read
// without saving to disk
type Data interface {
	Data() []float64
}

// LoadData loads and returns the data saved by a Tracker
func LoadData(filename string) ([]float64, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("loadData: could not open data file: %w", err)
	}
	defer file.Close()

	dec := gob.NewDecoder(file)
	var data []float64
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("loadData: could not decode data: %w", err)
	}
	return data, nil
}

// save gob-encodes data to filename
func save(filename string, data []float64) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("save: could not open save file: %w", err)
	}

	en := gob.NewEncoder(file)
	if err := en.Encode(data); err != nil {
		file.Close()
		return fmt.Errorf("save: could not encode data: %w", err)
	}
	return file.Close()
}

func clone(data []float64) []float64 {
	c := make([]float64, len(data))
	copy(c, data)
	return c
}
