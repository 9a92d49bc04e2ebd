// Package sensor provides the position sensor: a single ADC channel that
// converts on request and latches a conversion-complete flag.
package sensor

import (
	"log"
	"sync"
	"sync/atomic"
)

// MaxSample is the largest sample value (10-bit scale).
const MaxSample = 1023

// Converter performs one blocking conversion and returns a 10-bit sample.
type Converter interface {
	Convert() (uint16, error)
	Close() error
}

// Async runs conversions on a goroutine so that Trigger never blocks the
// main loop. Completion is reported through a latched flag.
type Async struct {
	conv Converter

	busy   atomic.Bool
	ready  atomic.Bool
	sample atomic.Uint32
	errs   atomic.Uint64

	wg sync.WaitGroup
}

// NewAsync wraps conv.
func NewAsync(conv Converter) *Async {
	return &Async{conv: conv}
}

// Trigger starts a conversion. A trigger while one is in progress is ignored.
// A failed conversion completes with sample 0.
func (a *Async) Trigger() {
	if !a.busy.CompareAndSwap(false, true) {
		return
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		v, err := a.conv.Convert()
		if err != nil {
			if a.errs.Add(1) == 1 {
				log.Printf("sensor: conversion failed: %v", err)
			}
			v = 0
		}
		a.sample.Store(uint32(v))
		a.busy.Store(false)
		a.ready.Store(true)
	}()
}

// Ready reports the conversion-complete flag.
func (a *Async) Ready() bool {
	return a.ready.Load()
}

// ClearReady clears the conversion-complete flag.
func (a *Async) ClearReady() {
	a.ready.Store(false)
}

// Read returns the last converted sample.
func (a *Async) Read() uint16 {
	return uint16(a.sample.Load())
}

// Errors returns the number of failed conversions.
func (a *Async) Errors() uint64 {
	return a.errs.Load()
}

// Close waits for an in-flight conversion and closes the converter.
func (a *Async) Close() error {
	a.wg.Wait()
	return a.conv.Close()
}

// Scale converts value on a full scale of fullScale into the 10-bit range,
// clamping at both ends.
func Scale(value, fullScale int64) uint16 {
	if fullScale <= 0 || value <= 0 {
		return 0
	}
	v := value * (MaxSample + 1) / fullScale
	if v > MaxSample {
		return MaxSample
	}
	return uint16(v)
}
