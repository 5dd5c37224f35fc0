//go:build deadlock

package layer

import (
	"fmt"
	"testing"

	"github.com/mirkobrombin/go-strata/v1/detect"
)

// violationOn runs fn on a fresh goroutine with panic-mode violations and
// returns what it panicked with, if anything.
func violationOn(t *testing.T, fn func()) *detect.ViolationError {
	t.Helper()
	detect.PanicOnViolation(true)
	defer detect.PanicOnViolation(false)
	ch := make(chan *detect.ViolationError, 1)
	go func() {
		var ve *detect.ViolationError
		func() {
			defer func() {
				if r := recover(); r != nil {
					ve = r.(*detect.ViolationError)
				}
			}()
			fn()
		}()
		ch <- ve
	}()
	return <-ch
}

func TestLayerOrderInversionDetected(t *testing.T) {
	l1 := NewSymmetric("inv-first")
	l2 := NewSymmetric("inv-second")
	var ts [2]padded
	ha, hb := HandleOf(&ts[0]), HandleOf(&ts[1])

	ve := violationOn(t, func() {
		g1 := l1.Synchronize(ha)
		g2 := l2.Synchronize(hb)
		g2.Release()
		g1.Release()
	})
	if ve != nil {
		t.Fatalf("establishing direction should not violate: %v", ve)
	}
	ve = violationOn(t, func() {
		g2 := l2.Synchronize(hb)
		defer g2.Release()
		g1 := l1.Synchronize(ha)
		g1.Release()
	})
	if ve == nil || ve.Kind != detect.KindInversion {
		t.Fatalf("expected inversion, got %v", ve)
	}
}

func TestLayerRecursionDetected(t *testing.T) {
	l := NewSymmetric("rec-layer")
	var ts [2]padded
	ha, hb := HandleOf(&ts[0]), HandleOf(&ts[1])

	ve := violationOn(t, func() {
		g := l.Synchronize(ha)
		defer g.Release()
		g2 := l.Synchronize(hb)
		g2.Release()
	})
	if ve == nil || ve.Kind != detect.KindRecursion {
		t.Fatalf("expected recursion even across distinct handles, got %v", ve)
	}
}

func TestLayerDepthOverflowDetected(t *testing.T) {
	layers := make([]*SymmetricLayer, detect.MaxDepth+1)
	for i := range layers {
		layers[i] = NewSymmetric(fmt.Sprintf("depth-%d", i))
	}
	var x padded
	h := HandleOf(&x)

	ve := violationOn(t, func() {
		for _, l := range layers {
			_ = l.Synchronize(h)
		}
	})
	if ve == nil || ve.Kind != detect.KindOverflow {
		t.Fatalf("expected depth overflow, got %v", ve)
	}
}

func TestSiteTagCaptured(t *testing.T) {
	l1 := NewSymmetric("site-a")
	l2 := NewSymmetric("site-b")
	var ts [2]padded
	ha, hb := HandleOf(&ts[0]), HandleOf(&ts[1])

	violationOn(t, func() {
		g1 := l1.Synchronize(ha)
		g2 := l2.Synchronize(hb)
		g2.Release()
		g1.Release()
	})
	ve := violationOn(t, func() {
		g2 := l2.Synchronize(hb)
		defer g2.Release()
		l1.Synchronize(ha)
	})
	if ve == nil {
		t.Fatal("expected a violation carrying site tags")
	}
	for _, f := range ve.Trace {
		if f.Site == "" {
			t.Fatalf("frame %v missing site tag", f)
		}
	}
}
